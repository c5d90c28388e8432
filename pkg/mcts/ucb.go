package mcts

import "math"

// UCB1-like score of a cell:
//
//	wins/visits + sqrt(ExplorationParam * ln(total) / visits)
//
// where 'total' is the configured number of playouts per decision, not the sum
// of the visits. Unvisited cells score 0.
func Score(wins, visits, total int) float64 {
	if visits <= 0 {
		return 0
	}
	n := float64(visits)
	return float64(wins)/n + math.Sqrt(ExplorationParam*math.Log(float64(total))/n)
}
