package game

import "fmt"

// Read-only view of the game state, handed out to the callers of the engine
type View interface {
	Size() int
	Cell(row, col int) Cell
	Line(i int) Line
	Moves() int
	RealMoves() int
	Winner() Marker
	IsLineCompleteNow() bool
	IsDrawNow() bool
	IsTerminalNow() bool
}

// N x N line-completion game state. Cells are stored in a flat arena indexed
// by row*N+col, lines are ordered: rows, columns, main diagonal, anti-diagonal.
type State struct {
	size  int
	cells []Cell
	lines []Line
	index []lineIndex
	links []cellLinks

	// Backing arrays of the line indexes, N entries per line
	members []int32
	heapBuf []int32
	posBuf  []int32

	moves     int // real and simulated moves
	realMoves int
	draw      bool
	winner    Marker

	saved *snapshot
	held  bool
}

// Create an empty board of given size
func NewState(size int) (*State, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	nlines := NumLines(size)
	s := &State{
		size:    size,
		cells:   make([]Cell, size*size),
		lines:   make([]Line, nlines),
		index:   make([]lineIndex, nlines),
		links:   make([]cellLinks, size*size),
		members: make([]int32, nlines*size),
		heapBuf: make([]int32, nlines*size),
		posBuf:  make([]int32, nlines*size),
	}
	s.bindIndexes()

	for row := range size {
		for col := range size {
			id := row*size + col
			s.cells[id] = Cell{Row: row, Col: col}

			// slot is the position of the cell along the line
			s.links[id].add(RowLine(row), col)
			s.links[id].add(ColLine(size, col), row)
			if row == col {
				s.links[id].add(MainDiagLine(size), row)
			}
			if row+col == size-1 {
				s.links[id].add(AntiDiagLine(size), row)
			}
			for _, link := range s.links[id].slice() {
				s.index[link.line].members[link.slot] = int32(id)
			}
		}
	}

	s.Reset()
	return s, nil
}

// Number of lines on the board of given size, rows, columns and 2 diagonals
func NumLines(size int) int {
	return 2*size + 2
}

func RowLine(row int) int {
	return row
}

func ColLine(size, col int) int {
	return size + col
}

func MainDiagLine(size int) int {
	return 2 * size
}

func AntiDiagLine(size int) int {
	return 2*size + 1
}

// Point every line index at its part of the backing arrays
func (s *State) bindIndexes() {
	n := s.size
	for i := range s.index {
		s.index[i] = lineIndex{
			members: s.members[i*n : (i+1)*n : (i+1)*n],
			heap:    s.heapBuf[i*n : (i+1)*n : (i+1)*n],
			pos:     s.posBuf[i*n : (i+1)*n : (i+1)*n],
		}
	}
}

// Bring back the empty board, drops the snapshot as well
func (s *State) Reset() {
	for i := range s.cells {
		s.cells[i] = Cell{Row: s.cells[i].Row, Col: s.cells[i].Col}
	}
	for i := range s.lines {
		s.lines[i] = Line{}
		s.index[i].resetOrder()
	}
	s.moves = 0
	s.realMoves = 0
	s.draw = false
	s.winner = MarkerEmpty
	s.held = false
}

// Deep copy of the state, without the snapshot slot
func (s *State) Clone() *State {
	clone := &State{
		size:      s.size,
		cells:     append([]Cell(nil), s.cells...),
		lines:     append([]Line(nil), s.lines...),
		index:     make([]lineIndex, len(s.index)),
		links:     append([]cellLinks(nil), s.links...),
		members:   append([]int32(nil), s.members...),
		heapBuf:   append([]int32(nil), s.heapBuf...),
		posBuf:    append([]int32(nil), s.posBuf...),
		moves:     s.moves,
		realMoves: s.realMoves,
		draw:      s.draw,
		winner:    s.winner,
	}
	clone.bindIndexes()
	return clone
}

func (s *State) Size() int {
	return s.size
}

func (s *State) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < s.size && col < s.size
}

// Arena index of given coordinate
func (s *State) Index(row, col int) int {
	return row*s.size + col
}

// Cell at given coordinate, the zero Cell if it's off the board
func (s *State) Cell(row, col int) Cell {
	if !s.InBounds(row, col) {
		return Cell{}
	}
	return s.cells[s.Index(row, col)]
}

// Cell by its arena index
func (s *State) CellAt(id int) Cell {
	return s.cells[id]
}

func (s *State) NumCells() int {
	return len(s.cells)
}

func (s *State) Line(i int) Line {
	return s.lines[i]
}

func (s *State) Lines() []Line {
	return append([]Line(nil), s.lines...)
}

// Real and simulated moves applied so far
func (s *State) Moves() int {
	return s.moves
}

// Number of moves that are part of the real game
func (s *State) RealMoves() int {
	return s.realMoves
}

// Whether the cell with given arena index can still be played
func (s *State) Eligible(id int) bool {
	return !s.cells[id].Occupied()
}

// Put the marker on the board, 'simulated' moves exist only until
// the next Restore call. Fails if the cell is already taken.
func (s *State) Apply(row, col int, marker Marker, simulated bool) error {
	if !s.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d board", ErrOutOfBounds, row, col, s.size, s.size)
	}
	if !marker.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMarker, marker)
	}

	id := s.Index(row, col)
	cell := &s.cells[id]
	if cell.Occupied() {
		return fmt.Errorf("%w: (%d,%d) holds %s", ErrCellOccupied, row, col, cell.Marker)
	}

	cell.Marker = marker
	if simulated {
		cell.SimOccupied = true
	} else {
		cell.Played = true
		s.realMoves++
	}
	cell.Weight = 1

	for _, link := range s.links[id].slice() {
		s.markLine(int(link.line), marker)
		s.index[link.line].fix(s.cells, link.slot)
	}

	s.moves++
	if s.winner == MarkerEmpty && s.moves == len(s.cells) {
		s.draw = true
	}
	return nil
}

// Update fill/parity counters of the line after 'marker' landed on it
func (s *State) markLine(i int, marker Marker) {
	line := &s.lines[i]
	line.Fill++

	switch {
	case line.Owner == MarkerEmpty:
		line.Owner = marker
		line.Parity++
	case line.Dead:
	case line.Owner == marker:
		line.Parity++
	default:
		line.Dead = true
	}

	if line.Parity == s.size && s.winner == MarkerEmpty {
		s.winner = marker
		s.draw = false
	}
}
