// communicator.go --  This file is part of goPW project.
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

// Communicator is the process-group view this engine needs: a fixed number
// of ranks and the identity of the calling rank. The G-vector set only
// computes distribution metadata; collective communication over the group
// is the caller's business.
type Communicator interface {
	Size() int
	Rank() int
}

// SelfComm is the trivial single-rank group.
type SelfComm struct{}

func (SelfComm) Size() int { return 1 }
func (SelfComm) Rank() int { return 0 }

// GroupComm is an in-process stand-in for a communicator of a given size,
// viewed from a given rank. A parallel run would back this with MPI; here
// every rank replays the same deterministic build, so a pair of numbers is
// all that is needed.
type GroupComm struct {
	size, rank int
}

func NewGroupComm(size, rank int) GroupComm {
	if size < 1 || rank < 0 || rank >= size {
		ErrorLogger.Fatal("Bad communicator geometry: size ", size, ", rank ", rank)
	}
	return GroupComm{size: size, rank: rank}
}

func (c GroupComm) Size() int { return c.size }
func (c GroupComm) Rank() int { return c.rank }
