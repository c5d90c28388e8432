package game

import "fmt"

type Marker uint8

const (
	MarkerEmpty Marker = iota
	MarkerA
	MarkerB
)

func (m Marker) String() string {
	switch m {
	case MarkerA:
		return "X"
	case MarkerB:
		return "O"
	default:
		return "-"
	}
}

// Returns the other side, empty stays empty
func (m Marker) Opponent() Marker {
	switch m {
	case MarkerA:
		return MarkerB
	case MarkerB:
		return MarkerA
	default:
		return MarkerEmpty
	}
}

func (m Marker) Valid() bool {
	return m == MarkerA || m == MarkerB
}

// Marker of the side to play the move with given index (0-based),
// the first side to move is always MarkerA
func MarkerForMove(index int) Marker {
	if index%2 == 0 {
		return MarkerA
	}
	return MarkerB
}

// Parse "x"/"X"/"a" or "o"/"O"/"b" into a marker
func ParseMarker(s string) (Marker, error) {
	switch s {
	case "x", "X", "a", "A":
		return MarkerA, nil
	case "o", "O", "b", "B":
		return MarkerB, nil
	}
	return MarkerEmpty, fmt.Errorf("%w: %q", ErrInvalidMarker, s)
}

func (m Marker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Marker) UnmarshalText(text []byte) error {
	if s := string(text); s == "" || s == "-" {
		*m = MarkerEmpty
		return nil
	}
	parsed, err := ParseMarker(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type Move struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Marker Marker `json:"marker"`
}

func NewMove(row, col int, marker Marker) Move {
	return Move{Row: row, Col: col, Marker: marker}
}

func (m Move) String() string {
	return fmt.Sprintf("%s(%d,%d)", m.Marker, m.Row, m.Col)
}

// Single board square. Only the reversible part of the square lives here,
// simulation statistics are kept by the engine.
type Cell struct {
	Row    int
	Col    int
	Marker Marker
	// Occupied only within the currently running playout
	SimOccupied bool
	// Part of the real game
	Played bool
	// 0 while empty, 1 once occupied, the line index sorts by it
	Weight int
}

func (c Cell) Occupied() bool {
	return c.SimOccupied || c.Played
}

// Row, column or one of the diagonals
type Line struct {
	Fill   int
	Parity int
	// First marker that landed on the line, never overwritten
	Owner Marker
	// Set once a marker different from Owner lands here, parity stops growing
	Dead bool
}

// One move away from completion by a single side
func (l Line) Threat(size int) bool {
	return l.Fill == size-1 && l.Parity == size-1
}

func (l Line) Complete(size int) bool {
	return l.Parity == size
}
