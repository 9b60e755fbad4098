// fftgrid.go --  This file is part of goPW project.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

// FFTGrid describes the regular 3D grid carrying the plane-wave expansion.
// Along each axis the grid has size N and covers the signed frequencies
// [N/2 - N + 1, N/2]; the FFT coordinate in [0, N) stores frequency f at
// position f for f >= 0 and at position f + N otherwise.
type FFTGrid struct {
	size   [3]int
	limits [3][2]int
}

// NewFFTGrid builds a grid with the given per-axis sizes.
func NewFFTGrid(nx, ny, nz int) (*FFTGrid, error) {
	var g FFTGrid
	for d, n := range [3]int{nx, ny, nz} {
		if n < 1 {
			return nil, fmt.Errorf("FFT grid size along axis %d must be positive, got %d", d, n)
		}
		g.size[d] = n
		g.limits[d][1] = n / 2
		g.limits[d][0] = n/2 - n + 1
	}
	return &g, nil
}

// GridForCutoff builds the smallest FFT grid that can hold every G-vector
// within the cutoff, with sizes rounded up to products of 2, 3, 5 and 7 so
// the transform stays fast. The bound per axis comes from |n_i| <=
// ||column i of B^-1|| * cutoff for any Cartesian G with |G| <= cutoff.
func GridForCutoff(cutoff float64, lat *Lattice) (*FFTGrid, error) {
	if cutoff <= 0 {
		return nil, fmt.Errorf("cutoff must be positive, got %g", cutoff)
	}
	var binv mat.Dense
	if err := binv.Inverse(lat.BVec); err != nil {
		return nil, fmt.Errorf("cannot invert reciprocal lattice matrix: %w", err)
	}
	var n [3]int
	for d := 0; d < 3; d++ {
		col := 0.0
		for r := 0; r < 3; r++ {
			col += binv.At(r, d) * binv.At(r, d)
		}
		kmax := int(math.Floor(math.Sqrt(col) * cutoff))
		n[d] = findGridSize(2*kmax + 1)
	}
	return NewFFTGrid(n[0], n[1], n[2])
}

// findGridSize returns the smallest integer >= n whose prime factors are
// all in {2, 3, 5, 7}.
func findGridSize(n int) int {
	if n < 1 {
		n = 1
	}
	for {
		m := n
		for _, p := range []int{2, 3, 5, 7} {
			for m%p == 0 {
				m /= p
			}
		}
		if m == 1 {
			return n
		}
		n++
	}
}

func (g *FFTGrid) Size(d int) int {
	return g.size[d]
}

// Limits returns the signed frequency range [min, max] along axis d.
func (g *FFTGrid) Limits(d int) (int, int) {
	return g.limits[d][0], g.limits[d][1]
}

// NumPoints returns the total number of grid points.
func (g *FFTGrid) NumPoints() int {
	return g.size[0] * g.size[1] * g.size[2]
}

// GvecByCoord maps an FFT coordinate in [0, N) along axis d to the signed
// reciprocal-lattice integer it stores.
func (g *FFTGrid) GvecByCoord(x, d int) int {
	if x > g.limits[d][1] {
		return x - g.size[d]
	}
	return x
}

// CoordByGvec maps a signed reciprocal-lattice integer along axis d to its
// FFT coordinate in [0, N).
func (g *FFTGrid) CoordByGvec(z, d int) int {
	if z < 0 {
		return z + g.size[d]
	}
	return z
}

// InBox reports whether the signed triple fits inside the grid limits.
func (g *FFTGrid) InBox(v IVector3) bool {
	for d := 0; d < 3; d++ {
		if v[d] < g.limits[d][0] || v[d] > g.limits[d][1] {
			return false
		}
	}
	return true
}
