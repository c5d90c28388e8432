package game

// Check if any line got completed by a single marker
func (s *State) IsLineCompleteNow() bool {
	return s.winner != MarkerEmpty
}

// Get the marker that completed a line, MarkerEmpty if there is none yet
func (s *State) Winner() Marker {
	return s.winner
}

// Check if the board is full with no completed line
func (s *State) IsDrawNow() bool {
	return s.draw
}

func (s *State) IsTerminalNow() bool {
	return s.IsLineCompleteNow() || s.IsDrawNow()
}

// Lines checked for the coordinate: its row, its column and both diagonals.
// Row and column are skipped when the coordinate is off the board.
func (s *State) threatLines(row, col int, buf *[4]int) []int {
	lines := buf[:0]
	if row >= 0 && row < s.size {
		lines = append(lines, RowLine(row))
	}
	if col >= 0 && col < s.size {
		lines = append(lines, ColLine(s.size, col))
	}
	return append(lines, MainDiagLine(s.size), AntiDiagLine(s.size))
}

// Get the moves that complete a line right away. Looks at the row of 'row',
// the column of 'col' and both diagonals; for each line one move away from
// completion, the remaining empty cell is taken from the line index.
func (s *State) ThreatsAt(row, col int) []Move {
	return s.AppendThreatsAt(nil, row, col)
}

// Same as ThreatsAt, but appends to 'dst', allowing to reuse the buffer
func (s *State) AppendThreatsAt(dst []Move, row, col int) []Move {
	var buf [4]int
	for _, i := range s.threatLines(row, col, &buf) {
		if move, ok := s.lineThreat(i); ok {
			dst = append(dst, move)
		}
	}
	return dst
}

// Get the first move that completes a line (in the same order as ThreatsAt).
// Only the lines through (row, col) and the diagonals are checked, a threat on
// another row or column is not reported.
func (s *State) LookaheadTerminal(row, col int) (Move, bool) {
	var buf [4]int
	for _, i := range s.threatLines(row, col, &buf) {
		if move, ok := s.lineThreat(i); ok {
			return move, true
		}
	}
	return Move{}, false
}

// If the line is one move away from completion, return its empty cell,
// with the marker of the side that would complete it
func (s *State) lineThreat(i int) (Move, bool) {
	line := s.lines[i]
	if !line.Threat(s.size) {
		return Move{}, false
	}

	cell := s.cells[s.index[i].peek()]
	if cell.Occupied() {
		panic("[game] line index is out of order, threat line has no empty cell on top")
	}
	return Move{Row: cell.Row, Col: cell.Col, Marker: line.Owner}, true
}
