package mcts

import (
	"encoding/json"
	"strings"
)

type Limits struct {
	// Number of playouts per decision, also the 'T' in the score formula
	Playouts int `json:"playouts"`
	NThreads int `json:"threads"`
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const DefaultPlayoutsLimit int = 1500

func DefaultLimits() *Limits {
	return &Limits{
		Playouts: DefaultPlayoutsLimit,
		NThreads: 1,
	}
}

// Set the number of playouts ran for each decision
func (l *Limits) SetPlayouts(playouts int) *Limits {
	l.Playouts = max(playouts, 1)
	return l
}

func (l *Limits) SetThreads(threads int) *Limits {
	l.NThreads = max(threads, 1)
	return l
}
