package mcts

// Counters of a single Run call
type RunStats struct {
	Playouts int    `json:"playouts"`
	WinsA    int    `json:"wins_a"`
	WinsB    int    `json:"wins_b"`
	Draws    int    `json:"draws"`
	TimeMs   int    `json:"time_ms"`
	Cps      uint32 `json:"cps"`
	Threads  int    `json:"threads"`
}

// Convert engine counters to 'RunStats' struct
func toRunStats(e *Engine) RunStats {
	timeMs := int(e.timeMs.Load())
	if timeMs == 0 && e.playouts.Load() > 0 {
		timeMs = e.timer.Deltatime()
	}

	return RunStats{
		Playouts: int(e.playouts.Load()),
		WinsA:    int(e.winsA.Load()),
		WinsB:    int(e.winsB.Load()),
		Draws:    int(e.draws.Load()),
		TimeMs:   timeMs,
		Cps:      e.cps.Load(),
		Threads:  e.threads,
	}
}

// Listener function callback, will recieve current run statistics, like
// number of playouts so far and the outcomes
type ListenerFunc func(RunStats)

type StatsListener struct {
	// called every N playouts
	onPlayout ListenerFunc
	nPlayouts int // call 'onPlayout' every N playouts

	// called once all of the playouts are done and merged
	onStop ListenerFunc
}

func NewStatsListener() StatsListener {
	return StatsListener{nPlayouts: 1}
}

// Attach new on playout callback, called only by the main worker,
// meaning no need for synchronization here
func (listener *StatsListener) OnPlayout(onPlayout ListenerFunc) *StatsListener {
	listener.onPlayout = onPlayout
	return listener
}

func (listener *StatsListener) SetPlayoutInterval(n int) *StatsListener {
	if n < 1 {
		n = 1
	}
	listener.nPlayouts = n
	return listener
}

// Attach 'on run end' callback
func (listener *StatsListener) OnStop(onStop ListenerFunc) *StatsListener {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener) invokePlayout(e *Engine, done int) {
	if listener.onPlayout != nil && done%max(listener.nPlayouts, 1) == 0 {
		listener.onPlayout(toRunStats(e))
	}
}

func (listener *StatsListener) invokeStop(e *Engine) {
	if listener.onStop != nil {
		listener.onStop(toRunStats(e))
	}
}
