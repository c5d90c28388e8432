package mcts

// Simulation statistics of a single cell. They outlive the playouts and the
// turns, only ResetGame clears them.
type CellStats struct {
	WinCredit int     `json:"win_credit"`
	Visits    int     `json:"visits"`
	Score     float64 `json:"score"`
}

// Win rate of the cell, 0 if it was never visited
func (s CellStats) WinRate() float64 {
	if s.Visits == 0 {
		return 0
	}
	return float64(s.WinCredit) / float64(s.Visits)
}

// Per-worker increments of the statistics, collected during the playouts
type statsDelta struct {
	wins   []int32
	visits []int32
}

func newStatsDelta(cells int) *statsDelta {
	return &statsDelta{
		wins:   make([]int32, cells),
		visits: make([]int32, cells),
	}
}

func (d *statsDelta) credit(id int, win bool) {
	d.visits[id]++
	if win {
		d.wins[id]++
	}
}

// Add the increments to the stats and recompute the scores of the changed cells
func mergeDelta(stats []CellStats, delta *statsDelta, total int) {
	if len(stats) != len(delta.visits) {
		panic("[mcts] mergeDelta: board size mismatch")
	}

	for id := range stats {
		if delta.visits[id] == 0 {
			continue
		}

		s := &stats[id]
		s.WinCredit += int(delta.wins[id])
		s.Visits += int(delta.visits[id])
		s.Score = Score(s.WinCredit, s.Visits, total)
	}
}
