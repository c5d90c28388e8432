package mcts

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/IlikeChooros/go-linemc/pkg/game"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrGameOver = errors.New("game is over")

type runCounters struct {
	playouts atomic.Int32
	winsA    atomic.Int32
	winsB    atomic.Int32
	draws    atomic.Int32
	cps      atomic.Uint32
	timeMs   atomic.Int32 // set once the run is finished
}

// Flat Monte-Carlo engine for the line-completion game. Owns the game state and
// the per-cell statistics, the caller only gets values and read-only views.
type Engine struct {
	runCounters
	state             *game.State
	stats             []CellStats
	marker            game.Marker
	limits            *Limits
	listener          *StatsListener
	logger            zerolog.Logger
	multithreadPolicy MultithreadPolicy
	timer             *_Timer
	threads           int

	seed int64
	runs uint64

	lastMove     game.Move
	hasLastMove  bool
	lastDecision Decision
	hasDecision  bool
}

type Option func(*Engine)

func WithLimits(limits *Limits) Option {
	return func(e *Engine) {
		if limits != nil {
			e.limits = limits
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithListener(listener StatsListener) Option {
	return func(e *Engine) {
		*e.listener = listener
	}
}

// Seed of the playouts, by default SeedGeneratorFn is used
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

func WithMultithreadPolicy(policy MultithreadPolicy) Option {
	return func(e *Engine) {
		e.multithreadPolicy = policy
	}
}

// Create new engine playing with 'marker' on a size x size board
func NewEngine(size int, marker game.Marker, opts ...Option) (*Engine, error) {
	if !marker.Valid() {
		return nil, fmt.Errorf("%w: engine marker %d", game.ErrInvalidMarker, marker)
	}

	state, err := game.NewState(size)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		state:             state,
		stats:             make([]CellStats, state.NumCells()),
		marker:            marker,
		limits:            DefaultLimits(),
		listener:          &StatsListener{nPlayouts: 1},
		logger:            log.Logger,
		multithreadPolicy: MultithreadRootParallel,
		timer:             _NewTimer(),
		seed:              SeedGeneratorFn(),
	}

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Record a real move made by either side
func (e *Engine) NotifyMove(row, col int, marker game.Marker) error {
	if e.state.IsTerminalNow() {
		return ErrGameOver
	}
	if err := e.state.Apply(row, col, marker, false); err != nil {
		return err
	}

	e.lastMove = game.NewMove(row, col, marker)
	e.hasLastMove = true
	e.logger.Debug().Str("move", e.lastMove.String()).Int("real-moves", e.state.RealMoves()).Msg("move-recorded")
	return nil
}

// Ask the engine for its move, (row, col) is the coordinate that was just played.
// The decision is not applied, the caller reports it back with NotifyMove.
func (e *Engine) RequestDecision(row, col int) (Decision, error) {
	if e.state.IsTerminalNow() {
		return Decision{}, ErrGameOver
	}

	d := e.Decide(row, col)
	e.lastDecision = d
	e.hasDecision = true

	e.logger.Debug().
		Int("row", d.Row).
		Int("col", d.Col).
		Stringer("kind", d.Kind).
		Float64("score", d.Score).
		Msg("decision")
	return d, nil
}

// Clear the statistics and bring back the empty board
func (e *Engine) ResetGame() {
	e.state.Reset()
	clear(e.stats)
	e.runs = 0
	e.lastMove = game.Move{}
	e.hasLastMove = false
	e.lastDecision = Decision{}
	e.hasDecision = false
	e.logger.Debug().Msg("game-reset")
}

// Read-only view of the game state
func (e *Engine) State() game.View {
	return e.state
}

// Statistics of the cell, zero values for coordinates off the board
func (e *Engine) Stats(row, col int) CellStats {
	if !e.state.InBounds(row, col) {
		return CellStats{}
	}
	return e.stats[e.state.Index(row, col)]
}

// Copy of the statistics of every cell, in row-major order
func (e *Engine) AllStats() []CellStats {
	return append([]CellStats(nil), e.stats...)
}

func (e *Engine) Marker() game.Marker {
	return e.marker
}

func (e *Engine) Size() int {
	return e.state.Size()
}

// Last move reported with NotifyMove
func (e *Engine) LastMove() (game.Move, bool) {
	return e.lastMove, e.hasLastMove
}

func (e *Engine) LastDecision() (Decision, bool) {
	return e.lastDecision, e.hasDecision
}

func (e *Engine) Limits() *Limits {
	return e.limits
}

func (e *Engine) SetLimits(limits *Limits) {
	if limits != nil {
		e.limits = limits
	}
}

func (e *Engine) StatsListener() *StatsListener {
	return e.listener
}

func (e *Engine) SetListener(listener StatsListener) {
	*e.listener = listener
}

func (e *Engine) ResetListener() {
	e.listener.OnPlayout(nil).OnStop(nil)
}

func (e *Engine) SetMultithreadPolicy(policy MultithreadPolicy) {
	e.multithreadPolicy = policy
}

// Statistics of the last run
func (e *Engine) RunStats() RunStats {
	return toRunStats(e)
}

// Get playouts per second statistic of the last run
func (e *Engine) Cps() uint32 {
	return e.cps.Load()
}

func (e *Engine) countOutcome(winner game.Marker) {
	switch winner {
	case game.MarkerA:
		e.winsA.Add(1)
	case game.MarkerB:
		e.winsB.Add(1)
	default:
		e.draws.Add(1)
	}
}

func (e *Engine) String() string {
	return fmt.Sprintf("Engine={Size=%d, Marker=%s, Moves=%d, Limits=%s}",
		e.state.Size(), e.marker, e.state.RealMoves(), e.limits)
}
