// density_test.go --  This file is part of goPW project.
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
)

func TestMixerWeights(t *testing.T) {
	lat := cubicLattice(t)
	gv, err := NewGvec(Vector3{}, lat, cutoffAll, grid5(t), 2, SelfComm{}, false)
	require.NoError(t, err)

	weights, err := MixerWeights(gv, 0)
	require.NoError(t, err)
	require.Equal(t, gv.GvecCount(0), len(weights))

	// the G = 0 component carries no weight
	assert.Equal(t, 0.0, weights[0])
	for igloc := 1; igloc < len(weights); igloc++ {
		ig := gv.GvecOffset(0) + igloc
		l := gv.GvecCart(ig).Length()
		assert.InDelta(t, 4*math.Pi*lat.Omega/(l*l), weights[igloc], 1e-9)
	}

	weights1, err := MixerWeights(gv, 1)
	require.NoError(t, err)
	assert.Equal(t, gv.GvecCount(1), len(weights1))
	for _, w := range weights1 {
		assert.Greater(t, w, 0.0)
	}

	_, err = MixerWeights(gv, 2)
	assert.Error(t, err)
}

func TestSymmetrizeByShells(t *testing.T) {
	lat := cubicLattice(t)
	gv, err := NewGvec(Vector3{}, lat, cutoffAll, grid5(t), 1, SelfComm{}, false)
	require.NoError(t, err)

	// |G|^2 is constant on shells, so averaging must be the identity
	f := make([]float64, gv.NumGvec())
	for ig := range f {
		l := gv.GkvecCart(ig).Length()
		f[ig] = l * l
	}
	sym, err := SymmetrizeByShells(gv, f)
	require.NoError(t, err)
	for ig := range f {
		assert.InDelta(t, f[ig], sym[ig], 1e-9)
	}

	// perturbing one member of a shell spreads the perturbation evenly
	igs := gv.Shell(1)
	members := 0
	for ig := range f {
		if gv.Shell(ig) == igs {
			members++
		}
	}
	f[1] += float64(members)
	sym, err = SymmetrizeByShells(gv, f)
	require.NoError(t, err)
	l := gv.GkvecCart(1).Length()
	assert.InDelta(t, l*l+1, sym[1], 1e-9)

	_, err = SymmetrizeByShells(gv, f[:10])
	assert.Error(t, err)
}
