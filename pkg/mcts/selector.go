package mcts

import "github.com/IlikeChooros/go-linemc/pkg/game"

// Choose the engine's move, (row, col) is the coordinate that was just played.
// Refreshes the statistics if there is an empty cell, then takes a move that
// ends the game right away, if there is one, otherwise the best scoring cell.
func (e *Engine) Decide(row, col int) Decision {
	if e.stale() {
		start := game.NewMove(0, 0, game.MarkerEmpty)
		if e.hasLastMove {
			start = e.lastMove
		}
		e.Run(e.limits.Playouts, start, e.state.RealMoves())
	}

	// Win or block
	for _, move := range e.state.ThreatsAt(row, col) {
		if !e.state.Cell(move.Row, move.Col).Played {
			return e.decision(move.Row, move.Col, DecisionImmediate, 0)
		}
	}

	if move, ok := e.state.LookaheadTerminal(row, col); ok {
		return e.decision(move.Row, move.Col, DecisionImmediate, 0)
	}

	// The running maximum starts at 0 and ties keep the first cell
	best, max := -1, 0.0
	for id := range e.stats {
		if e.state.CellAt(id).Played {
			continue
		}
		if e.stats[id].Score > max {
			best, max = id, e.stats[id].Score
		}
	}

	if best != -1 {
		cell := e.state.CellAt(best)
		return e.decision(cell.Row, cell.Col, DecisionStatistical, max)
	}

	// Nothing scored above zero
	for id := range e.state.NumCells() {
		if cell := e.state.CellAt(id); !cell.Played {
			return e.decision(cell.Row, cell.Col, DecisionFallback, e.stats[id].Score)
		}
	}
	panic("[mcts] Decide: no empty cell left on the board")
}

// Check if some cell is neither occupied nor played, meaning the statistics
// need a refresh
func (e *Engine) stale() bool {
	for id := range e.state.NumCells() {
		if cell := e.state.CellAt(id); !cell.Occupied() && !cell.Played {
			return true
		}
	}
	return false
}

func (e *Engine) decision(row, col int, kind DecisionKind, score float64) Decision {
	return Decision{
		Row:    row,
		Col:    col,
		Marker: e.marker,
		Kind:   kind,
		Score:  score,
	}
}
