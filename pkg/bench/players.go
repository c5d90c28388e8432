package bench

import (
	"fmt"

	"github.com/IlikeChooros/go-linemc/pkg/game"
	"github.com/IlikeChooros/go-linemc/pkg/mcts"
	"lukechampine.com/frand"
)

// Participant of the arena games. Every worker gets its own clone,
// so implementations don't need synchronization.
type Player interface {
	Name() string
	// Prepare for a new game, playing with 'marker'
	NewGame(size int, marker game.Marker) error
	// Record a move made by either side
	Observe(move game.Move) error
	// Choose own move, 'last' is the previous move (hasLast is false on an empty board)
	Choose(last game.Move, hasLast bool) (game.Move, error)
	Clone() Player
}

// Player backed by the Monte-Carlo engine
type EnginePlayer struct {
	name   string
	limits mcts.Limits
	opts   []mcts.Option
	engine *mcts.Engine
}

func NewEnginePlayer(name string, limits *mcts.Limits, opts ...mcts.Option) *EnginePlayer {
	if limits == nil {
		limits = mcts.DefaultLimits()
	}
	return &EnginePlayer{name: name, limits: *limits, opts: opts}
}

func (p *EnginePlayer) Name() string {
	return p.name
}

func (p *EnginePlayer) NewGame(size int, marker game.Marker) error {
	limits := p.limits
	opts := append([]mcts.Option{mcts.WithLimits(&limits)}, p.opts...)
	engine, err := mcts.NewEngine(size, marker, opts...)
	if err != nil {
		return err
	}
	p.engine = engine
	return nil
}

func (p *EnginePlayer) Observe(move game.Move) error {
	return p.engine.NotifyMove(move.Row, move.Col, move.Marker)
}

func (p *EnginePlayer) Choose(last game.Move, hasLast bool) (game.Move, error) {
	row, col := 0, 0
	if hasLast {
		row, col = last.Row, last.Col
	}

	d, err := p.engine.RequestDecision(row, col)
	if err != nil {
		return game.Move{}, fmt.Errorf("%s: %w", p.name, err)
	}
	return d.Move(), nil
}

func (p *EnginePlayer) Engine() *mcts.Engine {
	return p.engine
}

func (p *EnginePlayer) Clone() Player {
	return &EnginePlayer{name: p.name, limits: p.limits, opts: p.opts}
}

// Baseline player, picks a random empty cell
type RandomPlayer struct {
	name   string
	marker game.Marker
	state  *game.State
}

func NewRandomPlayer(name string) *RandomPlayer {
	return &RandomPlayer{name: name}
}

func (p *RandomPlayer) Name() string {
	return p.name
}

func (p *RandomPlayer) NewGame(size int, marker game.Marker) error {
	state, err := game.NewState(size)
	if err != nil {
		return err
	}
	p.state = state
	p.marker = marker
	return nil
}

func (p *RandomPlayer) Observe(move game.Move) error {
	return p.state.Apply(move.Row, move.Col, move.Marker, false)
}

func (p *RandomPlayer) Choose(game.Move, bool) (game.Move, error) {
	empty := make([]int, 0, p.state.NumCells())
	for id := range p.state.NumCells() {
		if p.state.Eligible(id) {
			empty = append(empty, id)
		}
	}
	if len(empty) == 0 {
		return game.Move{}, fmt.Errorf("%s: no empty cell", p.name)
	}

	cell := p.state.CellAt(empty[frand.Intn(len(empty))])
	return game.NewMove(cell.Row, cell.Col, p.marker), nil
}

func (p *RandomPlayer) Clone() Player {
	return &RandomPlayer{name: p.name}
}
