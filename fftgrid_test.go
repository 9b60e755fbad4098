// fftgrid_test.go --  This file is part of goPW project.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFFTGridLimits(t *testing.T) {
	grid, err := NewFFTGrid(5, 4, 6)
	require.NoError(t, err)

	lo, hi := grid.Limits(0)
	assert.Equal(t, -2, lo)
	assert.Equal(t, 2, hi)

	lo, hi = grid.Limits(1)
	assert.Equal(t, -1, lo)
	assert.Equal(t, 2, hi)

	lo, hi = grid.Limits(2)
	assert.Equal(t, -2, lo)
	assert.Equal(t, 3, hi)

	assert.Equal(t, 120, grid.NumPoints())
}

func TestFFTGridCoordRoundTrip(t *testing.T) {
	grid, err := NewFFTGrid(5, 4, 7)
	require.NoError(t, err)

	for d := 0; d < 3; d++ {
		for iz := 0; iz < grid.Size(d); iz++ {
			z := grid.GvecByCoord(iz, d)
			lo, hi := grid.Limits(d)
			assert.GreaterOrEqual(t, z, lo)
			assert.LessOrEqual(t, z, hi)
			assert.Equal(t, iz, grid.CoordByGvec(z, d))
		}
	}
}

func TestFFTGridInBox(t *testing.T) {
	grid, err := NewFFTGrid(5, 5, 5)
	require.NoError(t, err)

	assert.True(t, grid.InBox(IVector3{0, 0, 0}))
	assert.True(t, grid.InBox(IVector3{-2, 2, -2}))
	assert.False(t, grid.InBox(IVector3{3, 0, 0}))
	assert.False(t, grid.InBox(IVector3{0, 0, -3}))
}

func TestFFTGridBadSize(t *testing.T) {
	_, err := NewFFTGrid(0, 5, 5)
	assert.Error(t, err)
}

func TestFindGridSize(t *testing.T) {
	assert.Equal(t, 1, findGridSize(1))
	assert.Equal(t, 7, findGridSize(7))
	assert.Equal(t, 12, findGridSize(11))
	assert.Equal(t, 14, findGridSize(13))
	assert.Equal(t, 30, findGridSize(30))
	assert.Equal(t, 96, findGridSize(91))
}

func TestGridForCutoff(t *testing.T) {
	lat := cubicLattice(t)
	grid, err := GridForCutoff(3.5, lat)
	require.NoError(t, err)

	// kmax = 3 along every axis of the cubic cell
	for d := 0; d < 3; d++ {
		assert.Equal(t, 7, grid.Size(d))
		lo, hi := grid.Limits(d)
		assert.Equal(t, -3, lo)
		assert.Equal(t, 3, hi)
	}

	// the grid must hold every admissible G-vector
	gv, err := NewGvec(Vector3{}, lat, 3.5, grid, 1, SelfComm{}, false)
	require.NoError(t, err)
	for ig := 0; ig < gv.NumGvec(); ig++ {
		assert.True(t, grid.InBox(gv.GvecByIndex(ig)))
	}

	_, err = GridForCutoff(0, lat)
	assert.Error(t, err)
}
