package mcts

import (
	"fmt"
	"math/rand/v2"

	"github.com/IlikeChooros/go-linemc/pkg/game"
	"golang.org/x/sync/errgroup"
)

// Single playout runner, owns a game state (the engine's one, or a private copy)
// and the statistics increments it produced
type worker struct {
	id      int
	engine  *Engine
	state   *game.State
	delta   *statsDelta
	src     *rand.PCG
	rng     *rand.Rand
	threats []game.Move
}

func newWorker(e *Engine, id int, state *game.State) *worker {
	src := rand.NewPCG(0, 0)
	return &worker{
		id:      id,
		engine:  e,
		state:   state,
		delta:   newStatsDelta(state.NumCells()),
		src:     src,
		rng:     rand.New(src),
		threats: make([]game.Move, 0, 4),
	}
}

// Run 'playouts' random games from the current position and update the cell
// statistics. 'start' is the move the playouts continue from (its coordinate
// drives the threat checks of the first simulated move), 'startIndex' is the
// index of the first simulated move: even indexes play MarkerA, odd MarkerB.
//
// With the MultithreadRootParallel policy and Limits.NThreads > 1 the playouts
// are split between workers, each on a private copy of the state.
func (e *Engine) Run(playouts int, start game.Move, startIndex int) {
	if playouts <= 0 {
		return
	}
	e.setupRun()

	threads := 1
	if e.multithreadPolicy == MultithreadRootParallel {
		threads = min(max(1, e.limits.NThreads), playouts)
	}
	e.threads = threads

	e.logger.Debug().
		Int("playouts", playouts).
		Int("threads", threads).
		Str("start", start.String()).
		Int("start-index", startIndex).
		Msg("run-started")

	// Private copies must be taken before the main worker touches the state
	workers := make([]*worker, threads)
	for id := range workers {
		state := e.state
		if id != mainThreadId {
			state = e.state.Clone()
		}
		workers[id] = newWorker(e, id, state)
	}

	runSeed := uint64(e.seed) + e.runs
	e.runs++

	g := errgroup.Group{}
	for id, w := range workers {
		// Playouts [from, to) of this worker
		from := id * playouts / threads
		to := (id + 1) * playouts / threads

		if threads == 1 {
			if err := w.run(runSeed, from, to, start, startIndex); err != nil {
				panic(fmt.Sprintf("[mcts] run: %v", err))
			}
			break
		}

		g.Go(func() error {
			return w.run(runSeed, from, to, start, startIndex)
		})
	}
	if err := g.Wait(); err != nil {
		panic(fmt.Sprintf("[mcts] run: %v", err))
	}

	// Merge the results in worker order
	for _, w := range workers {
		mergeDelta(e.stats, w.delta, e.limits.Playouts)
	}

	e.cps.Store(e.timer.PerSecond(int(e.playouts.Load())))
	e.timeMs.Store(int32(e.timer.Deltatime()))
	e.listener.invokeStop(e)

	e.logger.Debug().
		Int32("playouts", e.playouts.Load()).
		Int32("wins-a", e.winsA.Load()).
		Int32("wins-b", e.winsB.Load()).
		Int32("draws", e.draws.Load()).
		Int32("time-ms", e.timeMs.Load()).
		Msg("run-finished")
}

// Reset the counters of the run, doesn't touch the statistics
func (e *Engine) setupRun() {
	e.timer.Reset()
	e.playouts.Store(0)
	e.winsA.Store(0)
	e.winsB.Store(0)
	e.draws.Store(0)
	e.cps.Store(0)
	e.timeMs.Store(0)
}

// Run playouts [from, to), each one seeded with (seed, index), so the outcome
// of a playout doesn't depend on the worker it ran on
func (w *worker) run(seed uint64, from, to int, start game.Move, startIndex int) error {
	w.state.Snapshot()
	defer w.state.DiscardSnapshot()

	for i := from; i < to; i++ {
		w.src.Seed(seed, uint64(i))
		if err := w.playout(start, startIndex); err != nil {
			return fmt.Errorf("playout %d: %w", i, err)
		}

		done := int(w.engine.playouts.Add(1))
		if w.id == mainThreadId {
			w.engine.cps.Store(w.engine.timer.PerSecond(done))
			w.engine.listener.invokePlayout(w.engine, done)
		}
	}
	return nil
}

// Play a single game to the end: forced moves first, then the moves leading
// to an immediate terminal position, otherwise a random empty cell
func (w *worker) playout(start game.Move, startIndex int) error {
	state := w.state
	row, col := start.Row, start.Col
	counter := startIndex

	for !state.IsTerminalNow() {
		next, ok := w.forcedMove(row, col)
		if !ok {
			next, ok = state.LookaheadTerminal(row, col)
		}
		if !ok {
			next = w.randomMove()
		}

		if err := state.Apply(next.Row, next.Col, game.MarkerForMove(counter), true); err != nil {
			return err
		}
		row, col = next.Row, next.Col
		counter++
	}

	w.credit()
	w.engine.countOutcome(state.Winner())

	state.ClearSimulationLayer()
	state.Restore()
	return nil
}

// First threat move whose cell is still empty
func (w *worker) forcedMove(row, col int) (game.Move, bool) {
	w.threats = w.state.AppendThreatsAt(w.threats[:0], row, col)
	for _, move := range w.threats {
		if !w.state.Cell(move.Row, move.Col).Occupied() {
			return move, true
		}
	}
	return game.Move{}, false
}

// Pick uniformly a cell that is neither played nor simulated
func (w *worker) randomMove() game.Move {
	state := w.state
	if state.Moves() >= state.NumCells() {
		panic("[mcts] randomMove: no empty cell left in a non-terminal position")
	}

	id := w.rng.IntN(state.NumCells())
	for !state.Eligible(id) {
		id = w.rng.IntN(state.NumCells())
	}
	cell := state.CellAt(id)
	return game.NewMove(cell.Row, cell.Col, game.MarkerEmpty)
}

// Credit the cells occupied during the playout: on a draw each of them gets
// a visit, on a win only the winner's cells get a visit and a win
func (w *worker) credit() {
	state := w.state
	winner := state.Winner()

	for id := range state.NumCells() {
		cell := state.CellAt(id)
		if !cell.SimOccupied || cell.Played {
			continue
		}

		switch {
		case winner == game.MarkerEmpty:
			w.delta.credit(id, false)
		case cell.Marker == winner:
			w.delta.credit(id, true)
		}
	}
}
