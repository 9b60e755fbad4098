// lattice_test.go --  This file is part of goPW project.
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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLatticeCubic(t *testing.T) {
	lat := cubicLattice(t)

	// reciprocal vectors of the 2*pi cube form the identity
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, lat.BVec.At(i, j), 1e-12)
		}
	}
	assert.InDelta(t, math.Pow(2*math.Pi, 3), lat.Omega, 1e-9)
}

func TestLatticeDuality(t *testing.T) {
	// skewed cell: a_i * b_j = 2*pi*delta_ij must hold regardless
	lat, err := NewLattice(
		Vector3{5.1, 0, 0},
		Vector3{2.3, 4.7, 0},
		Vector3{-1.1, 0.4, 6.2},
	)
	require.NoError(t, err)

	var prod mat.Dense
	prod.Mul(lat.AVec, lat.BVec.T())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 2 * math.Pi
			}
			assert.InDelta(t, want, prod.At(i, j), 1e-9)
		}
	}
}

func TestLatticeDegenerate(t *testing.T) {
	_, err := NewLattice(
		Vector3{1, 0, 0},
		Vector3{2, 0, 0},
		Vector3{0, 0, 1},
	)
	assert.Error(t, err)
}

func TestLatticeRecipCart(t *testing.T) {
	lat, err := NewLattice(
		Vector3{5.1, 0, 0},
		Vector3{2.3, 4.7, 0},
		Vector3{-1.1, 0.4, 6.2},
	)
	require.NoError(t, err)

	// fractional (1,0,0) maps onto the first reciprocal vector
	v := lat.RecipCart(Vector3{1, 0, 0})
	for c := 0; c < 3; c++ {
		assert.InDelta(t, lat.BVec.At(0, c), v[c], 1e-12)
	}

	// linearity
	u := lat.RecipCart(Vector3{1, 2, -1})
	for c := 0; c < 3; c++ {
		want := lat.BVec.At(0, c) + 2*lat.BVec.At(1, c) - lat.BVec.At(2, c)
		assert.InDelta(t, want, u[c], 1e-12)
	}
}

func TestLatticeAddVectors(t *testing.T) {
	data := []string{
		"Lattice",
		"  6.28318530717958647692 0.0 0.0",
		"  0.0 6.28318530717958647692 0.0",
		"  0.0 0.0 6.28318530717958647692",
		"end",
	}
	var lat Lattice
	require.NoError(t, lat.addVectors(data, 1, 3))
	assert.InDelta(t, 1.0, lat.BVec.At(0, 0), 1e-12)

	var bad Lattice
	assert.Error(t, bad.addVectors([]string{"1.0 2.0"}, 0, 0))
}
