package mcts

import (
	"fmt"

	"github.com/IlikeChooros/go-linemc/pkg/game"
)

// Other types, which didn't fit to the engine or search files

type MultithreadPolicy int
type SeedGeneratorFnType func() int64

// How the decision was made
type DecisionKind int

const (
	// Forced move: completes a line for either side, chosen without scoring
	DecisionImmediate DecisionKind = iota
	// Cell with the best score
	DecisionStatistical
	// No cell scored above zero, the first empty cell was chosen
	DecisionFallback
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionImmediate:
		return "immediate"
	case DecisionStatistical:
		return "statistical"
	case DecisionFallback:
		return "fallback"
	}
	return fmt.Sprintf("DecisionKind(%d)", int(k))
}

func (k DecisionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DecisionKind) UnmarshalText(text []byte) error {
	for _, kind := range []DecisionKind{DecisionImmediate, DecisionStatistical, DecisionFallback} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown decision kind %q", text)
}

// Engine's response to the last move
type Decision struct {
	Row    int          `json:"row"`
	Col    int          `json:"col"`
	Marker game.Marker  `json:"marker"`
	Kind   DecisionKind `json:"kind"`
	// Score of the chosen cell, 0 for immediate decisions
	Score float64 `json:"score"`
}

func (d Decision) Move() game.Move {
	return game.NewMove(d.Row, d.Col, d.Marker)
}

func (d Decision) String() string {
	return fmt.Sprintf("%s %s score=%.4f", d.Move(), d.Kind, d.Score)
}
