package mcts

import "time"

// Main thread id, which has some privileges, like calling the listener during the search
const mainThreadId = 0

// Exploration parameter used in the score formula: higher values increase exploration,
// lower values increase exploitation. Default is 0.00017
var ExplorationParam float64 = 0.00017

// Set the exploration parameter used in the score formula
func SetExplorationParam(c float64) {
	ExplorationParam = max(0.0, c)
}

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator function for random number generators of the playouts,
// by default uses current time in nanoseconds
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}

const (
	// All playouts run one after another on the engine's own state
	MultithreadNone MultithreadPolicy = iota

	// Playouts are split between Limits.NThreads workers, each one on its own copy
	// of the game state. Statistics are merged after all of the workers are done,
	// in worker order, so the result is the same as with a single thread.
	MultithreadRootParallel
)
