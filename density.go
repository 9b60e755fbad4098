// density.go --  This file is part of goPW project.
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
)

const fourPi = 4 * math.Pi

// MixerWeights returns the density-mixing weight 4*pi*Omega / |G|^2 for
// every G-vector of the given fine-grained rank, in local order. The G = 0
// component gets weight 0.
func MixerWeights(gv *Gvec, rank int) ([]float64, error) {
	if rank < 0 || rank >= len(gv.gvecDistr.counts) {
		return nil, fmt.Errorf("rank %d outside the fine-grained distribution", rank)
	}
	count := gv.GvecCount(rank)
	offset := gv.GvecOffset(rank)
	weights := make([]float64, count)
	for igloc := 0; igloc < count; igloc++ {
		ig := offset + igloc
		l := gv.GvecCart(ig).Length()
		if l > 1e-12 {
			weights[igloc] = fourPi * gv.lat.Omega / (l * l)
		}
	}
	return weights, nil
}

// SymmetrizeByShells replaces every value of a per-G-vector quantity by the
// average over its shell. Quantities that depend on |G+k| only, such as
// radial form factors, must be constant on shells; averaging restores that
// after numerical noise.
func SymmetrizeByShells(gv *Gvec, f []float64) ([]float64, error) {
	if len(f) != gv.NumGvec() {
		return nil, fmt.Errorf("got %d values for %d G-vectors", len(f), gv.NumGvec())
	}
	sum := make([]float64, gv.NumShells())
	num := make([]int, gv.NumShells())
	for ig, v := range f {
		igs := gv.Shell(ig)
		sum[igs] += v
		num[igs]++
	}
	result := make([]float64, len(f))
	for ig := range f {
		igs := gv.Shell(ig)
		result[ig] = sum[igs] / float64(num[igs])
	}
	return result, nil
}
