// lattice.go --  This file is part of goPW project.
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
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

type Vector3 [3]float64

func (v Vector3) Add(u Vector3) Vector3 {
	return Vector3{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

type IVector3 [3]int

func (v IVector3) ToFloat() Vector3 {
	return Vector3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func (v IVector3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Lattice holds the direct unit cell vectors (rows of AVec) and the derived
// reciprocal lattice vectors (rows of BVec), with a_i * b_j = 2*pi*delta_ij.
type Lattice struct {
	AVec  *mat.Dense
	BVec  *mat.Dense
	Omega float64 // unit cell volume
}

// NewLattice builds the lattice from the three direct vectors.
func NewLattice(a1, a2, a3 Vector3) (*Lattice, error) {
	var lat Lattice
	lat.AVec = mat.NewDense(3, 3, []float64{
		a1[0], a1[1], a1[2],
		a2[0], a2[1], a2[2],
		a3[0], a3[1], a3[2],
	})
	det := mat.Det(lat.AVec)
	if math.Abs(det) < 1e-14 {
		return nil, fmt.Errorf("lattice vectors are linearly dependent (det = %g)", det)
	}
	lat.Omega = math.Abs(det)

	var ainv mat.Dense
	if err := ainv.Inverse(lat.AVec); err != nil {
		return nil, fmt.Errorf("cannot invert lattice matrix: %w", err)
	}
	lat.BVec = mat.NewDense(3, 3, nil)
	lat.BVec.Scale(2*math.Pi, ainv.T())
	return &lat, nil
}

// RecipCart converts a vector in fractional reciprocal coordinates to
// Cartesian coordinates: v[0]*b1 + v[1]*b2 + v[2]*b3.
func (lat *Lattice) RecipCart(v Vector3) Vector3 {
	var result Vector3
	for c := 0; c < 3; c++ {
		result[c] = v[0]*lat.BVec.At(0, c) + v[1]*lat.BVec.At(1, c) + v[2]*lat.BVec.At(2, c)
	}
	return result
}

// addVectors parses the three direct lattice vectors from the lines of a
// Lattice block.
func (lat *Lattice) addVectors(data []string, start int, end int) error {
	var rows []Vector3
	for i := start; i < end+1; i++ {
		words := strings.Fields(data[i])
		if len(words) == 0 {
			continue
		}
		if len(words) < 3 {
			return fmt.Errorf("incorrect format of lattice vector at line %d", i+1)
		}
		var v Vector3
		for k := 0; k < 3; k++ {
			x, err := strconv.ParseFloat(words[k], 64)
			if err != nil {
				return fmt.Errorf("bad lattice vector component %q at line %d", words[k], i+1)
			}
			v[k] = x
		}
		rows = append(rows, v)
	}
	if len(rows) != 3 {
		return fmt.Errorf("lattice block must contain 3 vectors, got %d", len(rows))
	}
	built, err := NewLattice(rows[0], rows[1], rows[2])
	if err != nil {
		return err
	}
	*lat = *built
	return nil
}
