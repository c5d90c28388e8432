package bench

import (
	"context"
	"fmt"

	"github.com/IlikeChooros/go-linemc/pkg/game"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

/*
Arena benchmark subpackage, allows to play a series of games between two
players, like engines with different limits or an engine and a random baseline.
*/

type VersusArena struct {
	VersusArenaStats
	Player1  Player
	Player2  Player
	NGames   int
	NThreads int
	Size     int
	group    errgroup.Group
	ctx      context.Context
}

func NewVersusArena(size int, player1, player2 Player) *VersusArena {
	return &VersusArena{
		Player1:  player1,
		Player2:  player2,
		NGames:   100,
		NThreads: 2,
		Size:     size,
		ctx:      context.Background(),
	}
}

func (va *VersusArena) WithContext(ctx context.Context) *VersusArena {
	va.ctx = ctx
	return va
}

func (va *VersusArena) Setup(nGames int, nThreads int) *VersusArena {
	va.NGames = max(0, nGames)
	va.NThreads = max(1, nThreads)
	return va
}

// Wait for all of the workers, returns the first error a worker ran into
func (va *VersusArena) Wait() error {
	return va.group.Wait()
}

// Start equally distributed work between worker goroutines, doesn't block
func (va *VersusArena) Start(listener ListenerLike) {
	if listener == nil {
		listener = &DefaultListener{}
	}
	listener.OnStart()

	nThreads := max(1, va.NThreads)
	nGames := va.NGames / nThreads
	rest := va.NGames % nThreads

	workers := errgroup.Group{}
	for i := range nThreads {
		delta := 0
		if rest > 0 {
			delta = 1
			rest--
		}

		// Always use a clone, players keep the state of their current game
		p1 := va.Player1.Clone()
		p2 := va.Player2.Clone()
		l := listener.Clone()
		l.SetRow(i + statsRowStart)

		workers.Go(func() error {
			return va.worker(i, nGames+delta, l, p1, p2)
		})
	}

	// Summary is sent once every worker is done
	va.group.Go(func() error {
		err := workers.Wait()
		listener.Summary(va.Summary())
		listener.OnEnd()
		return err
	})
}

// Current totals of the arena
func (va *VersusArena) Summary() VersusSummaryInfo {
	return VersusSummaryInfo{
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          max(1, va.NThreads),
		P1Name:           va.Player1.Name(),
		P2Name:           va.Player2.Name(),
	}
}

func (va *VersusArena) worker(id, nGames int, listener ListenerLike, p1, p2 Player) error {
	localStats := VersusArenaStats{}
	info := func() VersusWorkerInfo {
		return VersusWorkerInfo{
			WorkerID:         id,
			NGames:           nGames,
			FinishedGames:    localStats.Total(),
			P1Wins:           localStats.P1Wins(),
			P2Wins:           localStats.P2Wins(),
			Draws:            localStats.Draws(),
			FirstToMoveWins:  localStats.FirstToMoveWins(),
			SecondToMoveWins: localStats.SecondToMoveWins(),
			P1Name:           p1.Name(),
			P2Name:           p2.Name(),
		}
	}

Loop:
	for range nGames {
		select {
		case <-va.ctx.Done():
			break Loop
		default:
			// continue
		}

		// Random side assignment, the first player always plays MarkerA
		p1WentFirst := frand.Intn(2) == 0
		first, second := p1, p2
		if !p1WentFirst {
			first, second = p2, p1
		}

		outcome, finished, err := playGame(va.ctx, va.Size, first, second, listener, info)
		if err != nil {
			return fmt.Errorf("worker %d: %w", id, err)
		}
		if !finished {
			break Loop
		}

		result := toAgentResult(outcome, p1WentFirst)
		va.add(result, outcome)
		localStats.add(result, outcome)
	}

	listener.OnFinishedWork(info())
	return nil
}

// Play a single game, the referee state decides when it's over. Returns false
// if the game was interrupted by the context.
func playGame(
	ctx context.Context, size int, first, second Player,
	listener ListenerLike, info func() VersusWorkerInfo,
) (GameOutcome, bool, error) {
	state, err := game.NewState(size)
	if err != nil {
		return GameOutcome{}, false, err
	}

	if err := first.NewGame(size, game.MarkerA); err != nil {
		return GameOutcome{}, false, err
	}
	if err := second.NewGame(size, game.MarkerB); err != nil {
		return GameOutcome{}, false, err
	}

	listener.OnGameStart()
	players := [2]Player{first, second}
	moves := make([]game.Move, 0, size*size)
	var last game.Move

	for turn := 0; !state.IsTerminalNow(); turn++ {
		select {
		case <-ctx.Done():
			return GameOutcome{}, false, nil
		default:
			// continue
		}

		mover := players[turn%2]
		m, err := mover.Choose(last, turn > 0)
		if err != nil {
			return GameOutcome{}, false, err
		}

		// The referee owns the markers
		m.Marker = game.MarkerForMove(turn)
		if err := state.Apply(m.Row, m.Col, m.Marker, false); err != nil {
			return GameOutcome{}, false, fmt.Errorf("%s made an illegal move %s: %w", mover.Name(), m, err)
		}
		for _, p := range players {
			if err := p.Observe(m); err != nil {
				return GameOutcome{}, false, fmt.Errorf("%s: %w", p.Name(), err)
			}
		}

		last = m
		moves = append(moves, m)

		stats := info()
		stats.Moves = moves
		stats.GameMoveNum = len(moves)
		listener.OnMoveMade(stats)
	}

	stats := info()
	stats.Moves = moves
	stats.GameMoveNum = len(moves)
	listener.OnFinishedGame(stats)

	return computeOutcome(state), true, nil
}
