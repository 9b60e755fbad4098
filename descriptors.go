// descriptors.go --  This file is part of goPW project.
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

// zColumnDescriptor describes one non-empty stick of the reciprocal grid:
// all admissible G-vectors with the same (x, y), varying only in z.
// The z slice holds z-grid-indices in ascending order; the signed
// reciprocal-lattice integer is recovered through FFTGrid.GvecByCoord.
// The offset is the position of this column inside the contiguous
// plane-wave buffer of its owning FFT rank; it is assigned after the
// columns are distributed.
type zColumnDescriptor struct {
	x, y   int
	z      []int
	offset int
}

// blockDataDescriptor holds a per-rank count table together with the
// exclusive prefix sums used as offsets into a contiguous buffer.
type blockDataDescriptor struct {
	counts  []int
	offsets []int
}

func newBlockDataDescriptor(n int) blockDataDescriptor {
	return blockDataDescriptor{
		counts:  make([]int, n),
		offsets: make([]int, n),
	}
}

// CalcOffsets recomputes the offsets as the exclusive prefix sum of counts.
func (d *blockDataDescriptor) CalcOffsets() {
	for i := 1; i < len(d.counts); i++ {
		d.offsets[i] = d.offsets[i-1] + d.counts[i-1]
	}
}

// Total returns the sum of all counts.
func (d *blockDataDescriptor) Total() int {
	result := 0
	for _, c := range d.counts {
		result += c
	}
	return result
}
