package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, size int) *State {
	t.Helper()
	s, err := NewState(size)
	require.NoError(t, err)
	return s
}

// Play the moves as real moves, marker alternates starting with MarkerA
func playReal(t *testing.T, s *State, coords ...[2]int) {
	t.Helper()
	for _, c := range coords {
		require.NoError(t, s.Apply(c[0], c[1], MarkerForMove(s.Moves()), false))
	}
}

func TestNewState(t *testing.T) {
	_, err := NewState(0)
	require.True(t, errors.Is(err, ErrInvalidSize))

	s := newTestState(t, 3)
	require.Equal(t, 3, s.Size())
	require.Equal(t, 9, s.NumCells())
	require.Len(t, s.Lines(), NumLines(3))
	require.False(t, s.IsTerminalNow())

	for row := range 3 {
		for col := range 3 {
			cell := s.Cell(row, col)
			require.Equal(t, row, cell.Row)
			require.Equal(t, col, cell.Col)
			require.False(t, cell.Occupied())
		}
	}
}

func TestApplyErrors(t *testing.T) {
	s := newTestState(t, 3)

	err := s.Apply(3, 0, MarkerA, false)
	require.True(t, errors.Is(err, ErrOutOfBounds), "got %v", err)

	err = s.Apply(0, -1, MarkerA, true)
	require.True(t, errors.Is(err, ErrOutOfBounds), "got %v", err)

	err = s.Apply(0, 0, MarkerEmpty, false)
	require.True(t, errors.Is(err, ErrInvalidMarker), "got %v", err)

	require.NoError(t, s.Apply(1, 1, MarkerA, false))
	err = s.Apply(1, 1, MarkerB, true)
	require.True(t, errors.Is(err, ErrCellOccupied), "got %v", err)

	// Failed moves leave no trace
	require.Equal(t, 1, s.Moves())
	require.Equal(t, MarkerA, s.Cell(1, 1).Marker)
}

func TestApplyUpdatesLines(t *testing.T) {
	s := newTestState(t, 3)
	require.NoError(t, s.Apply(1, 1, MarkerA, false))

	// The center belongs to every kind of line
	for _, i := range []int{RowLine(1), ColLine(3, 1), MainDiagLine(3), AntiDiagLine(3)} {
		line := s.Line(i)
		require.Equal(t, 1, line.Fill, "line %d", i)
		require.Equal(t, 1, line.Parity, "line %d", i)
		require.Equal(t, MarkerA, line.Owner, "line %d", i)
	}

	// Corner, row 0, col 0 and main diagonal only
	require.NoError(t, s.Apply(0, 0, MarkerB, true))
	require.Equal(t, 1, s.Line(RowLine(0)).Fill)
	require.Equal(t, MarkerB, s.Line(ColLine(3, 0)).Owner)
	require.True(t, s.Line(MainDiagLine(3)).Dead)
	require.Equal(t, 2, s.Line(MainDiagLine(3)).Fill)
	require.Equal(t, 1, s.Line(AntiDiagLine(3)).Fill)

	cell := s.Cell(0, 0)
	require.True(t, cell.SimOccupied)
	require.False(t, cell.Played)
	require.Equal(t, 1, cell.Weight)
	require.Equal(t, 1, s.RealMoves())
	require.Equal(t, 2, s.Moves())
}

func TestParityFillMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for size := 1; size <= 6; size++ {
		for game := 0; game < 50; game++ {
			s := newTestState(t, size)
			prev := s.Lines()
			order := rng.Perm(size * size)

			for k, id := range order {
				if s.IsTerminalNow() {
					break
				}
				require.NoError(t, s.Apply(id/size, id%size, MarkerForMove(k), rng.IntN(2) == 0))

				for i, line := range s.Lines() {
					require.LessOrEqual(t, line.Parity, line.Fill)
					require.LessOrEqual(t, line.Fill, size)
					require.GreaterOrEqual(t, line.Fill, prev[i].Fill)
					require.GreaterOrEqual(t, line.Parity, prev[i].Parity)
				}
				prev = s.Lines()
			}
		}
	}
}

func TestDeadLine(t *testing.T) {
	s := newTestState(t, 3)
	require.NoError(t, s.Apply(0, 0, MarkerA, false))
	require.NoError(t, s.Apply(0, 1, MarkerB, false))
	require.NoError(t, s.Apply(0, 2, MarkerA, false))

	line := s.Line(RowLine(0))
	require.True(t, line.Dead)
	require.Equal(t, 3, line.Fill)
	require.Equal(t, 1, line.Parity)
	require.Equal(t, MarkerA, line.Owner)
	require.False(t, s.IsLineCompleteNow())

	// Random games: a line that had two markers on it never reaches N
	rng := rand.New(rand.NewPCG(1, 2))
	for game := 0; game < 200; game++ {
		s := newTestState(t, 4)
		for k, id := range rng.Perm(16) {
			if s.IsTerminalNow() {
				break
			}
			require.NoError(t, s.Apply(id/4, id%4, MarkerForMove(k), false))
			for _, line := range s.Lines() {
				if line.Dead {
					require.Less(t, line.Parity, 4)
				}
			}
		}
	}
}

func TestWinner(t *testing.T) {
	s := newTestState(t, 3)
	playReal(t, s, [2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1})
	require.False(t, s.IsTerminalNow())

	playReal(t, s, [2]int{0, 2})
	require.True(t, s.IsLineCompleteNow())
	require.True(t, s.IsTerminalNow())
	require.False(t, s.IsDrawNow())
	require.Equal(t, MarkerA, s.Winner())
}

func TestDrawDetection(t *testing.T) {
	s := newTestState(t, 3)
	// X O X
	// X O O
	// O X X
	playReal(t, s,
		[2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}, [2]int{1, 1},
		[2]int{1, 0}, [2]int{2, 0}, [2]int{2, 1}, [2]int{1, 2},
		[2]int{2, 2},
	)

	require.False(t, s.IsLineCompleteNow())
	require.True(t, s.IsDrawNow())
	require.True(t, s.IsTerminalNow())
	require.Equal(t, MarkerEmpty, s.Winner())
}

func TestDrawFlagRestored(t *testing.T) {
	s := newTestState(t, 3)
	s.Snapshot()
	defer s.DiscardSnapshot()

	cells := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {2, 0}, {2, 1}, {1, 2}, {2, 2}}
	for i, c := range cells {
		require.NoError(t, s.Apply(c[0], c[1], MarkerForMove(i), true))
	}
	require.True(t, s.IsDrawNow())

	s.ClearSimulationLayer()
	s.Restore()
	require.False(t, s.IsDrawNow())
	require.False(t, s.IsTerminalNow())
}

func TestCellOffBoard(t *testing.T) {
	s := newTestState(t, 3)
	require.NoError(t, s.Apply(0, 0, MarkerA, false))

	require.Equal(t, Cell{}, s.Cell(5, 5))
	require.Equal(t, Cell{}, s.Cell(-1, 0))
	require.Equal(t, Cell{}, s.Cell(0, 3))
	require.Equal(t, MarkerA, s.Cell(0, 0).Marker)
}

func TestSingleCellBoard(t *testing.T) {
	s := newTestState(t, 1)

	// Every line is one move away from completion on an empty 1x1 board
	move, ok := s.LookaheadTerminal(0, 0)
	require.True(t, ok)
	require.Equal(t, 0, move.Row)

	require.NoError(t, s.Apply(0, 0, MarkerB, false))
	require.True(t, s.IsLineCompleteNow())
	require.Equal(t, MarkerB, s.Winner())
}

func TestReset(t *testing.T) {
	s := newTestState(t, 3)
	empty := s.Clone()

	playReal(t, s, [2]int{2, 2}, [2]int{0, 1}, [2]int{1, 1})
	s.Reset()
	require.Equal(t, empty, s)
}

func TestCloneIsIndependent(t *testing.T) {
	s := newTestState(t, 3)
	playReal(t, s, [2]int{0, 0}, [2]int{1, 1})

	clone := s.Clone()
	require.Equal(t, s, clone)

	require.NoError(t, clone.Apply(0, 1, MarkerA, true))
	require.False(t, s.Cell(0, 1).Occupied())
	require.Equal(t, 1, s.Line(RowLine(0)).Fill)
	require.Equal(t, 2, clone.Line(RowLine(0)).Fill)

	// The clone's line index must work on its own arena
	move, ok := clone.LookaheadTerminal(0, 1)
	require.True(t, ok)
	require.Equal(t, NewMove(0, 2, MarkerA), move)
}
