package game

// Saved copy of every reversible field of the state. Buffers are allocated
// with the first snapshot and reused afterwards.
type snapshot struct {
	cells     []Cell
	lines     []Line
	heapBuf   []int32
	posBuf    []int32
	moves     int
	realMoves int
	draw      bool
	winner    Marker
}

func newSnapshot(s *State) *snapshot {
	return &snapshot{
		cells:   make([]Cell, len(s.cells)),
		lines:   make([]Line, len(s.lines)),
		heapBuf: make([]int32, len(s.heapBuf)),
		posBuf:  make([]int32, len(s.posBuf)),
	}
}

// Save the current state, panics if there is already a snapshot held
func (s *State) Snapshot() {
	if s.held {
		panic("[game] snapshot already taken, discard it before taking another one")
	}
	if s.saved == nil {
		s.saved = newSnapshot(s)
	}

	snap := s.saved
	copy(snap.cells, s.cells)
	copy(snap.lines, s.lines)
	copy(snap.heapBuf, s.heapBuf)
	copy(snap.posBuf, s.posBuf)
	snap.moves = s.moves
	snap.realMoves = s.realMoves
	snap.draw = s.draw
	snap.winner = s.winner
	s.held = true
}

// Bring back the state saved with Snapshot, including the order of the line
// indexes. The snapshot stays held, so this may be called repeatedly.
func (s *State) Restore() {
	if !s.held {
		panic("[game] restore called without a snapshot")
	}

	snap := s.saved
	copy(s.cells, snap.cells)
	copy(s.lines, snap.lines)
	copy(s.heapBuf, snap.heapBuf)
	copy(s.posBuf, snap.posBuf)
	s.moves = snap.moves
	s.realMoves = snap.realMoves
	s.draw = snap.draw
	s.winner = snap.winner
}

// Release the snapshot slot
func (s *State) DiscardSnapshot() {
	s.held = false
}

func (s *State) HasSnapshot() bool {
	return s.held
}

// Remove the markers put by simulated moves, permanently played cells stay
// untouched. Line counters are left as they are, Restore takes care of them.
func (s *State) ClearSimulationLayer() {
	for id := range s.cells {
		cell := &s.cells[id]
		if !cell.SimOccupied || cell.Played {
			continue
		}

		cell.SimOccupied = false
		cell.Marker = MarkerEmpty
		cell.Weight = 0
		for _, link := range s.links[id].slice() {
			s.index[link.line].fix(s.cells, link.slot)
		}
	}
}
