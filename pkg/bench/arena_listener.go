package bench

// Distributes the arena events between multiple listeners
type ArenaListener struct {
	listeners []ListenerLike
}

func NewArenaListener(listeners ...ListenerLike) *ArenaListener {
	al := &ArenaListener{listeners: make([]ListenerLike, 0, len(listeners))}
	for _, l := range listeners {
		if l != nil {
			al.listeners = append(al.listeners, l)
		}
	}
	return al
}

func (al *ArenaListener) SetRow(row int) {
	for _, l := range al.listeners {
		l.SetRow(row)
	}
}

func (al *ArenaListener) OnStart() {
	for _, l := range al.listeners {
		l.OnStart()
	}
}

func (al *ArenaListener) OnGameStart() {
	for _, l := range al.listeners {
		l.OnGameStart()
	}
}

func (al *ArenaListener) OnMoveMade(stats VersusWorkerInfo) {
	for _, l := range al.listeners {
		l.OnMoveMade(stats)
	}
}

func (al *ArenaListener) OnFinishedGame(stats VersusWorkerInfo) {
	for _, l := range al.listeners {
		l.OnFinishedGame(stats)
	}
}

func (al *ArenaListener) OnFinishedWork(stats VersusWorkerInfo) {
	for _, l := range al.listeners {
		l.OnFinishedWork(stats)
	}
}

func (al *ArenaListener) Summary(summary VersusSummaryInfo) {
	for _, l := range al.listeners {
		l.Summary(summary)
	}
}

func (al *ArenaListener) OnEnd() {
	for _, l := range al.listeners {
		l.OnEnd()
	}
}

// Each worker gets clones of all of the listeners
func (al *ArenaListener) Clone() ListenerLike {
	clone := &ArenaListener{listeners: make([]ListenerLike, len(al.listeners))}
	for i, l := range al.listeners {
		clone.listeners[i] = l.Clone()
	}
	return clone
}
