// gvec.go --  This file is part of goPW project.
// goPW authors, 2026
//
//	goPW is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package main

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// A G-vector index packs the z-column number in the high bits and the
	// position inside the column in the low zPosBits bits, so a column may
	// hold at most 4096 z-entries.
	zPosBits = 12
	zPosMask = (1 << zPosBits) - 1

	// shellRoundFac quantizes G+k lengths for shell grouping: lengths are
	// compared after truncation to 10 decimal digits. Tunable; extreme unit
	// cell scales may need a different factor.
	shellRoundFac = 1e10
)

// Gvec stores the set of G and G+k vectors inside the cutoff sphere: the
// non-empty z-columns of the FFT grid, the packed per-vector index, the
// shell classification and the distribution of columns over ranks.
//
// Every rank builds the identical structure from the same inputs; no
// communication happens here. The structure is immutable after NewGvec
// except for Prepare, which rebinds the FFT communicator and recomputes
// only the FFT-aggregated tables.
type Gvec struct {
	vk       Vector3
	lat      *Lattice
	grid     *FFTGrid
	reduce   bool
	numRanks int
	fftComm  Communicator

	numGvec   int
	zColumns  []zColumnDescriptor
	fullIndex []int
	// (x, y) -> {first global G-vector index of the column, column number}
	xyIndex map[[2]int][2]int

	numShells int
	shellOf   []int
	shellLen  []float64

	// fine-grained distribution of G-vectors and z-columns
	gvecDistr blockDataDescriptor
	zcolDistr blockDataDescriptor
	// distribution of G-vectors and z-columns for the FFT communicator
	gvecDistrFFT blockDataDescriptor
	zcolDistrFFT blockDataDescriptor
	// distribution of G-vectors inside the FFT slab of the calling rank
	gvecFFTSlab blockDataDescriptor
}

// NewGvec enumerates, classifies and distributes the G-vectors for the
// given k-point, lattice, cutoff and FFT grid. numRanks is the size of the
// fine-grained distribution; fftComm is the (possibly coarser) FFT group,
// whose size must divide numRanks. With reduce set, G-vectors are reduced
// by inversion symmetry.
func NewGvec(vk Vector3, lat *Lattice, cutoff float64, grid *FFTGrid, numRanks int, fftComm Communicator, reduce bool) (*Gvec, error) {
	if lat == nil || grid == nil {
		return nil, fmt.Errorf("lattice and FFT grid are required")
	}
	if numRanks < 1 {
		return nil, fmt.Errorf("number of ranks must be positive, got %d", numRanks)
	}
	if fftComm == nil {
		fftComm = SelfComm{}
	}
	g := &Gvec{
		vk:       vk,
		lat:      lat,
		grid:     grid,
		reduce:   reduce,
		numRanks: numRanks,
		fftComm:  fftComm,
	}

	g.enumerateColumns(cutoff)
	if g.numGvec == 0 {
		return nil, fmt.Errorf("no G-vectors inside the cutoff %g; check lattice, grid and cutoff", cutoff)
	}

	// put the column with {x, y} = {0, 0} to the beginning
	for i := range g.zColumns {
		if g.zColumns[i].x == 0 && g.zColumns[i].y == 0 {
			g.zColumns[i], g.zColumns[0] = g.zColumns[0], g.zColumns[i]
			break
		}
	}
	// sort the remaining columns by decreasing size; the distributor assumes
	// biggest columns first
	slices.SortStableFunc(g.zColumns[1:], func(a, b zColumnDescriptor) int {
		return len(b.z) - len(a.z)
	})

	g.distributeColumns()

	if err := g.buildIndexTables(); err != nil {
		return nil, err
	}

	// the first G-vector must be (0, 0, 0); never remove this check
	if g0 := g.gvecByFullIndex(g.fullIndex[0]); !g0.IsZero() {
		return nil, fmt.Errorf("first G-vector is not zero but %v; malformed grid, cutoff or lattice", g0)
	}

	g.findShells()

	if err := g.buildFFTDistr(); err != nil {
		return nil, err
	}
	if err := g.calcOffsets(); err != nil {
		return nil, err
	}
	if err := g.pileGvec(); err != nil {
		return nil, err
	}
	return g, nil
}

// Prepare rebinds the FFT communicator and recomputes the FFT-aggregated
// tables. Columns, vectors and shells are never recomputed; Prepare may be
// called any number of times.
func (g *Gvec) Prepare(fftComm Communicator) error {
	if fftComm == nil {
		return fmt.Errorf("FFT communicator is required")
	}
	g.fftComm = fftComm
	if err := g.buildFFTDistr(); err != nil {
		return err
	}
	if err := g.calcOffsets(); err != nil {
		return err
	}
	return g.pileGvec()
}

// enumerateColumns walks the (x, y) plane of the grid and collects, for
// each pair, the z-grid-indices whose G+k vector lies inside the cutoff.
func (g *Gvec) enumerateColumns(cutoff float64) {
	claimed := make(map[[2]int]bool)

	xmin, xmax := g.grid.Limits(0)
	ymin, ymax := g.grid.Limits(1)
	for i := xmin; i <= xmax; i++ {
		for j := ymin; j <= ymax; j++ {
			if claimed[[2]int{i, j}] {
				continue
			}
			// in the general case take z-grid-indices in [0, Nz); with
			// inversion reduction keep only the z >= 0 half of the
			// {x=0, y=0} stick
			zmax := g.grid.Size(2) - 1
			if g.reduce && i == 0 && j == 0 {
				_, zmax = g.grid.Limits(2)
			}
			var zcol []int
			for iz := 0; iz <= zmax; iz++ {
				k := g.grid.GvecByCoord(iz, 2)
				// take G+k
				vgk := g.lat.RecipCart(Vector3{float64(i), float64(j), float64(k)}.Add(g.vk))
				if vgk.Length() <= cutoff {
					zcol = append(zcol, iz)
				}
			}
			if len(zcol) > 0 {
				g.zColumns = append(g.zColumns, zColumnDescriptor{x: i, y: j, z: zcol})
				g.numGvec += len(zcol)
				claimed[[2]int{i, j}] = true
				if g.reduce {
					claimed[[2]int{-i, -j}] = true
				}
			}
		}
	}
}

// distributeColumns assigns every column to the rank currently holding the
// fewest G-vectors (ties to the lowest rank) and reorders the column list
// so each rank owns a contiguous range.
func (g *Gvec) distributeColumns() {
	g.gvecDistr = newBlockDataDescriptor(g.numRanks)
	g.zcolDistr = newBlockDataDescriptor(g.numRanks)

	zcolsLocal := make([][]zColumnDescriptor, g.numRanks)
	for _, col := range g.zColumns {
		// find rank with minimum number of G-vectors
		best := 0
		for r := 1; r < g.numRanks; r++ {
			if g.gvecDistr.counts[r] < g.gvecDistr.counts[best] {
				best = r
			}
		}
		zcolsLocal[best] = append(zcolsLocal[best], col)
		g.zcolDistr.counts[best]++
		g.gvecDistr.counts[best] += len(col.z)
	}
	g.gvecDistr.CalcOffsets()
	g.zcolDistr.CalcOffsets()

	// save the new, rank-contiguous ordering of z-columns
	g.zColumns = g.zColumns[:0]
	for rank := 0; rank < g.numRanks; rank++ {
		g.zColumns = append(g.zColumns, zcolsLocal[rank]...)
	}
}

// buildIndexTables packs the (column, position) address of every G-vector
// into fullIndex and records the per-(x, y) lookup table.
func (g *Gvec) buildIndexTables() error {
	g.fullIndex = make([]int, g.numGvec)
	g.xyIndex = make(map[[2]int][2]int, len(g.zColumns))
	ig := 0
	for i := range g.zColumns {
		col := &g.zColumns[i]
		if len(col.z) > zPosMask+1 {
			return fmt.Errorf("z-column (%d, %d) holds %d entries, above the packed-index capacity %d",
				col.x, col.y, len(col.z), zPosMask+1)
		}
		g.xyIndex[[2]int{col.x, col.y}] = [2]int{ig, i}
		for j := range col.z {
			g.fullIndex[ig] = i<<zPosBits | j
			ig++
		}
	}
	return nil
}

// findShells groups the G+k vectors into shells of equal quantized length
// and assigns shell ids in increasing length order.
func (g *Gvec) findShells() {
	lens := make([]float64, g.numGvec)
	nw := runtime.GOMAXPROCS(-1)
	if nw > 1 && g.numGvec > nw {
		listSize := g.numGvec / nw
		var wg sync.WaitGroup
		for w := 0; w < nw; w++ {
			lo := w * listSize
			hi := lo + listSize
			if w == nw-1 {
				hi = g.numGvec
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				for ig := lo; ig < hi; ig++ {
					lens[ig] = g.GkvecCart(ig).Length()
				}
			}(lo, hi)
		}
		wg.Wait()
	} else {
		for ig := 0; ig < g.numGvec; ig++ {
			lens[ig] = g.GkvecCart(ig).Length()
		}
	}

	gsh := make(map[uint64][]int)
	for ig, l := range lens {
		key := uint64(l * shellRoundFac)
		gsh[key] = append(gsh[key], ig)
	}
	keys := maps.Keys(gsh)
	slices.Sort(keys)

	g.numShells = len(keys)
	g.shellOf = make([]int, g.numGvec)
	g.shellLen = make([]float64, g.numShells)
	for n, key := range keys {
		g.shellLen[n] = float64(key) / shellRoundFac
		for _, ig := range gsh[key] {
			g.shellOf[ig] = n
		}
	}
}

// buildFFTDistr aggregates the fine-grained tables over consecutive runs of
// ranks, one run per FFT rank.
func (g *Gvec) buildFFTDistr() error {
	fsz := g.fftComm.Size()
	nrc := g.numRanks / fsz
	if g.numRanks != nrc*fsz {
		return fmt.Errorf("number of ranks (%d) is not divisible by the FFT group size (%d)", g.numRanks, fsz)
	}
	g.gvecDistrFFT = newBlockDataDescriptor(fsz)
	g.zcolDistrFFT = newBlockDataDescriptor(fsz)
	for rank := 0; rank < fsz; rank++ {
		for i := 0; i < nrc; i++ {
			r := rank*nrc + i
			g.gvecDistrFFT.counts[rank] += g.gvecDistr.counts[r]
			g.zcolDistrFFT.counts[rank] += g.zcolDistr.counts[r]
		}
	}
	g.gvecDistrFFT.CalcOffsets()
	g.zcolDistrFFT.CalcOffsets()
	return nil
}

// calcOffsets assigns every z-column its offset inside the contiguous
// plane-wave buffer of its owning FFT rank.
func (g *Gvec) calcOffsets() error {
	for rank := 0; rank < g.fftComm.Size(); rank++ {
		offs := 0
		for i := 0; i < g.zcolDistrFFT.counts[rank]; i++ {
			icol := g.zcolDistrFFT.offsets[rank] + i
			g.zColumns[icol].offset = offs
			offs += len(g.zColumns[icol].z)
		}
		if offs != g.gvecDistrFFT.counts[rank] {
			return fmt.Errorf("z-column offsets of FFT rank %d sum to %d, expected %d",
				rank, offs, g.gvecDistrFFT.counts[rank])
		}
	}
	return nil
}

// pileGvec builds the table of {count, offset} of the fine-grained ranks
// contributing to the calling rank's FFT slab; collaborators use it to
// reshuffle wave-functions between the uniform and the FFT-friendly layout.
func (g *Gvec) pileGvec() error {
	rankRow := g.fftComm.Rank()
	nrc := g.numRanks / g.fftComm.Size()
	if g.numRanks != nrc*g.fftComm.Size() {
		return fmt.Errorf("number of ranks (%d) is not divisible by the FFT group size (%d)", g.numRanks, g.fftComm.Size())
	}
	g.gvecFFTSlab = newBlockDataDescriptor(nrc)
	for i := 0; i < nrc; i++ {
		g.gvecFFTSlab.counts[i] = g.GvecCount(rankRow*nrc + i)
	}
	g.gvecFFTSlab.CalcOffsets()

	last := nrc - 1
	if g.gvecFFTSlab.offsets[last]+g.gvecFFTSlab.counts[last] != g.gvecDistrFFT.counts[rankRow] {
		return fmt.Errorf("FFT slab of rank %d holds %d G-vectors, expected %d",
			rankRow, g.gvecFFTSlab.offsets[last]+g.gvecFFTSlab.counts[last], g.gvecDistrFFT.counts[rankRow])
	}
	return nil
}

// gvecByFullIndex unpacks a (column, position) address into the signed
// integer triple.
func (g *Gvec) gvecByFullIndex(idx int) IVector3 {
	j := idx & zPosMask
	i := idx >> zPosBits
	col := &g.zColumns[i]
	return IVector3{col.x, col.y, g.grid.GvecByCoord(col.z[j], 2)}
}

// NumGvec returns the total number of G-vectors within the cutoff.
func (g *Gvec) NumGvec() int {
	return g.numGvec
}

// GvecCount returns the number of G-vectors of a fine-grained rank.
func (g *Gvec) GvecCount(rank int) int {
	return g.gvecDistr.counts[rank]
}

// GvecOffset returns the offset in the global index of the G-vectors of a
// fine-grained rank.
func (g *Gvec) GvecOffset(rank int) int {
	return g.gvecDistr.offsets[rank]
}

// ZcolCount returns the number of z-columns of a fine-grained rank.
func (g *Gvec) ZcolCount(rank int) int {
	return g.zcolDistr.counts[rank]
}

func (g *Gvec) GvecCountFFT() int {
	return g.gvecDistrFFT.counts[g.fftComm.Rank()]
}

func (g *Gvec) GvecOffsetFFT() int {
	return g.gvecDistrFFT.offsets[g.fftComm.Rank()]
}

// NumShells returns the number of G-vector shells.
func (g *Gvec) NumShells() int {
	return g.numShells
}

// Shell returns the shell id of a G-vector.
func (g *Gvec) Shell(ig int) int {
	return g.shellOf[ig]
}

// ShellLen returns the G+k length of a shell.
func (g *Gvec) ShellLen(igs int) float64 {
	return g.shellLen[igs]
}

// GvecLen returns the G+k length of a G-vector through its shell.
func (g *Gvec) GvecLen(ig int) float64 {
	return g.shellLen[g.shellOf[ig]]
}

// GvecByIndex returns the G-vector in fractional coordinates.
func (g *Gvec) GvecByIndex(ig int) IVector3 {
	return g.gvecByFullIndex(g.fullIndex[ig])
}

// Gkvec returns the G+k vector in fractional coordinates.
func (g *Gvec) Gkvec(ig int) Vector3 {
	return g.GvecByIndex(ig).ToFloat().Add(g.vk)
}

// GvecCart returns the G-vector in Cartesian coordinates.
func (g *Gvec) GvecCart(ig int) Vector3 {
	return g.lat.RecipCart(g.GvecByIndex(ig).ToFloat())
}

// GkvecCart returns the G+k vector in Cartesian coordinates.
func (g *Gvec) GkvecCart(ig int) Vector3 {
	return g.lat.RecipCart(g.Gkvec(ig))
}

// IndexByGvec returns the global index of a G-vector given in fractional
// coordinates, or -1 if the vector is outside the set (or was removed by
// inversion reduction).
func (g *Gvec) IndexByGvec(v IVector3) int {
	if g.reduce && v[0] == 0 && v[1] == 0 && v[2] < 0 {
		return -1
	}
	if !g.grid.InBox(v) {
		return -1
	}
	ent, ok := g.xyIndex[[2]int{v[0], v[1]}]
	if !ok {
		return -1
	}
	col := &g.zColumns[ent[1]]
	pos, found := slices.BinarySearch(col.z, g.grid.CoordByGvec(v[2], 2))
	if !found {
		return -1
	}
	return ent[0] + pos
}

// IndexG12 returns the global index of g1 - g2.
func (g *Gvec) IndexG12(g1, g2 IVector3) int {
	return g.IndexByGvec(IVector3{g1[0] - g2[0], g1[1] - g2[1], g1[2] - g2[2]})
}

// Reduced reports whether the set is reduced by inversion symmetry.
func (g *Gvec) Reduced() bool {
	return g.reduce
}

// NumZcol returns the number of non-empty z-columns.
func (g *Gvec) NumZcol() int {
	return len(g.zColumns)
}

// Zcol returns a z-column by its global index.
func (g *Gvec) Zcol(idx int) zColumnDescriptor {
	return g.zColumns[idx]
}

// ZcolDistrFFT returns the distribution of z-columns over the FFT ranks.
func (g *Gvec) ZcolDistrFFT() blockDataDescriptor {
	return g.zcolDistrFFT
}

// GvecFFTSlab returns the per-contributor decomposition of the calling
// rank's FFT slab.
func (g *Gvec) GvecFFTSlab() blockDataDescriptor {
	return g.gvecFFTSlab
}
