package bench

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/IlikeChooros/go-linemc/pkg/game"
	"github.com/IlikeChooros/go-linemc/pkg/mcts"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	mcts.SetSeedGeneratorFn(func() int64 {
		return 42
	})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	fmt.Printf("Using seed %d\n", mcts.SeedGeneratorFn())

	os.Exit(m.Run())
}

// Plays the given cells in order, skipping the occupied ones
type scriptedPlayer struct {
	name   string
	script []game.Move
	state  *game.State
}

func (p *scriptedPlayer) Name() string { return p.name }

func (p *scriptedPlayer) NewGame(size int, marker game.Marker) error {
	state, err := game.NewState(size)
	p.state = state
	return err
}

func (p *scriptedPlayer) Observe(move game.Move) error {
	return p.state.Apply(move.Row, move.Col, move.Marker, false)
}

func (p *scriptedPlayer) Choose(game.Move, bool) (game.Move, error) {
	for _, m := range p.script {
		// Off-board entries go to the referee as they are
		if !p.state.InBounds(m.Row, m.Col) || !p.state.Cell(m.Row, m.Col).Occupied() {
			return m, nil
		}
	}
	return game.Move{}, fmt.Errorf("%s: script exhausted", p.name)
}

func (p *scriptedPlayer) Clone() Player {
	return &scriptedPlayer{name: p.name, script: p.script}
}

// Counts the callbacks, shared between the clones
type countingListener struct {
	DefaultListener
	mu       *sync.Mutex
	games    *int
	works    *int
	summary  *VersusSummaryInfo
	finished *bool
}

func newCountingListener() *countingListener {
	return &countingListener{
		mu:       &sync.Mutex{},
		games:    new(int),
		works:    new(int),
		summary:  &VersusSummaryInfo{},
		finished: new(bool),
	}
}

func (c *countingListener) Clone() ListenerLike {
	clone := *c
	return &clone
}

func (c *countingListener) OnFinishedGame(VersusWorkerInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.games++
}

func (c *countingListener) OnFinishedWork(VersusWorkerInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.works++
}

func (c *countingListener) Summary(s VersusSummaryInfo) {
	*c.summary = s
}

func (c *countingListener) OnEnd() {
	*c.finished = true
}

func TestPlayGameOutcome(t *testing.T) {
	first := &scriptedPlayer{name: "first", script: []game.Move{
		game.NewMove(0, 0, game.MarkerA), game.NewMove(0, 1, game.MarkerA), game.NewMove(0, 2, game.MarkerA),
	}}
	second := &scriptedPlayer{name: "second", script: []game.Move{
		game.NewMove(1, 0, game.MarkerB), game.NewMove(1, 1, game.MarkerB), game.NewMove(2, 2, game.MarkerB),
	}}

	info := func() VersusWorkerInfo { return VersusWorkerInfo{} }
	outcome, finished, err := playGame(context.Background(), 3, first, second, &DefaultListener{}, info)
	require.NoError(t, err)
	require.True(t, finished)
	require.Equal(t, GameOutcome{FirstPlayerWon: true}, outcome)

	require.Equal(t, VersusPl1Win, toAgentResult(outcome, true))
	require.Equal(t, VersusPl2Win, toAgentResult(outcome, false))
	require.Equal(t, VersusDraw, toAgentResult(GameOutcome{IsDraw: true}, true))
}

func TestPlayGameIllegalMove(t *testing.T) {
	first := &scriptedPlayer{name: "first", script: []game.Move{game.NewMove(5, 5, game.MarkerA)}}
	second := NewRandomPlayer("random")

	info := func() VersusWorkerInfo { return VersusWorkerInfo{} }
	_, _, err := playGame(context.Background(), 3, first, second, &DefaultListener{}, info)
	require.ErrorIs(t, err, game.ErrOutOfBounds)
}

func TestEngineVersusRandom(t *testing.T) {
	engine := NewEnginePlayer("engine", mcts.DefaultLimits().SetPlayouts(300))
	random := NewRandomPlayer("random")

	listener := newCountingListener()
	arena := NewVersusArena(3, engine, random).Setup(6, 2)
	arena.Start(listener)
	require.NoError(t, arena.Wait())

	require.Equal(t, 6, arena.Total())
	require.Equal(t, 6, *listener.games)
	require.Equal(t, 2, *listener.works)
	require.True(t, *listener.finished)

	summary := *listener.summary
	require.Equal(t, 6, summary.TotalGames)
	require.Equal(t, "engine", summary.P1Name)
	require.Equal(t, "random", summary.P2Name)
	require.Equal(t, summary.P1Wins+summary.P2Wins, summary.FirstToMoveWins+summary.SecondToMoveWins)
	require.JSONEq(t, summary.String(), arena.Summary().String())
}

func TestArenaCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	arena := NewVersusArena(3, NewRandomPlayer("r1"), NewRandomPlayer("r2")).
		WithContext(ctx).
		Setup(10, 3)
	arena.Start(nil)
	require.NoError(t, arena.Wait())
	require.Equal(t, 0, arena.Total())
}

func TestListeners(t *testing.T) {
	var buf bytes.Buffer
	terminal := NewTerminalListener(&buf, termenv.WithProfile(termenv.Ascii))
	logs := NewLogListener(zerolog.New(&bytes.Buffer{}))
	counting := newCountingListener()

	arena := NewVersusArena(3, NewRandomPlayer("r1"), NewRandomPlayer("r2")).Setup(4, 2)
	arena.Start(NewArenaListener(terminal, logs, counting, nil))
	require.NoError(t, arena.Wait())

	require.Equal(t, 4, *counting.games)
	require.Contains(t, buf.String(), "Versus arena")
	require.Contains(t, buf.String(), "summary 4 games")
}
