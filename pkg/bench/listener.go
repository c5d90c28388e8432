package bench

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

// First terminal row used by the worker progress lines
const statsRowStart = 2

type ListenerLike interface {
	SetRow(row int)
	OnStart()
	OnGameStart()
	OnMoveMade(stats VersusWorkerInfo)
	OnFinishedGame(stats VersusWorkerInfo)
	OnFinishedWork(stats VersusWorkerInfo)
	Summary(summary VersusSummaryInfo)
	OnEnd()
	Clone() ListenerLike
}

// Does nothing, embed it to implement only some of the callbacks
type DefaultListener struct {
	row int
}

func (d *DefaultListener) SetRow(row int) { d.row = row }
func (d *DefaultListener) OnStart() {}
func (d *DefaultListener) OnGameStart() {}
func (d *DefaultListener) OnMoveMade(VersusWorkerInfo) {}
func (d *DefaultListener) OnFinishedGame(VersusWorkerInfo) {}
func (d *DefaultListener) OnFinishedWork(VersusWorkerInfo) {}
func (d *DefaultListener) Summary(VersusSummaryInfo) {}
func (d *DefaultListener) OnEnd() {}
func (d *DefaultListener) Clone() ListenerLike { return &DefaultListener{row: d.row} }

// Live progress of the arena, one terminal line per worker
type TerminalListener struct {
	DefaultListener
	output *termenv.Output
	mu     *sync.Mutex
}

func NewTerminalListener(w io.Writer, opts ...termenv.OutputOption) *TerminalListener {
	return &TerminalListener{
		output: termenv.NewOutput(w, opts...),
		mu:     &sync.Mutex{},
	}
}

func (tl *TerminalListener) Clone() ListenerLike {
	return &TerminalListener{
		DefaultListener: DefaultListener{row: tl.row},
		output:          tl.output,
		mu:              tl.mu,
	}
}

func (tl *TerminalListener) OnStart() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.output.ClearScreen()
	tl.output.HideCursor()
	tl.output.MoveCursor(1, 1)
	fmt.Fprint(tl.output, tl.output.String("Versus arena").Bold())
}

// Rewrite the worker's line
func (tl *TerminalListener) print(stats VersusWorkerInfo, status string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	o := tl.output
	o.MoveCursor(tl.row, 1)
	o.ClearLine()
	fmt.Fprintf(o, "worker %d: %d/%d %s %s %s %s %s %s",
		stats.WorkerID, stats.FinishedGames, stats.NGames,
		o.String(stats.P1Name).Foreground(o.Color("2")),
		o.String(fmt.Sprint(stats.P1Wins)).Bold(),
		o.String(stats.P2Name).Foreground(o.Color("1")),
		o.String(fmt.Sprint(stats.P2Wins)).Bold(),
		o.String(fmt.Sprintf("draws %d", stats.Draws)).Faint(),
		status,
	)
}

func (tl *TerminalListener) OnMoveMade(stats VersusWorkerInfo) {
	tl.print(stats, fmt.Sprintf("move %d", stats.GameMoveNum))
}

func (tl *TerminalListener) OnFinishedWork(stats VersusWorkerInfo) {
	tl.print(stats, "done")
}

func (tl *TerminalListener) Summary(summary VersusSummaryInfo) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	o := tl.output
	o.MoveCursor(statsRowStart+summary.Workers+1, 1)
	o.ClearLine()
	fmt.Fprintf(o, "%s %d games: %s %d, %s %d, draws %d\n",
		o.String("summary").Bold(), summary.TotalGames,
		summary.P1Name, summary.P1Wins, summary.P2Name, summary.P2Wins, summary.Draws)
}

func (tl *TerminalListener) OnEnd() {
	tl.output.ShowCursor()
}

// Reports the arena progress with structured logs
type LogListener struct {
	DefaultListener
	logger zerolog.Logger
}

func NewLogListener(logger zerolog.Logger) *LogListener {
	return &LogListener{logger: logger}
}

func (ll *LogListener) Clone() ListenerLike {
	return &LogListener{DefaultListener: DefaultListener{row: ll.row}, logger: ll.logger}
}

func (ll *LogListener) OnFinishedGame(stats VersusWorkerInfo) {
	ll.logger.Debug().
		Int("worker", stats.WorkerID).
		Int("finished", stats.FinishedGames+1).
		Int("moves", stats.GameMoveNum).
		Msg("game-finished")
}

func (ll *LogListener) OnFinishedWork(stats VersusWorkerInfo) {
	ll.logger.Info().
		Int("worker", stats.WorkerID).
		Int("games", stats.FinishedGames).
		Int("p1-wins", stats.P1Wins).
		Int("p2-wins", stats.P2Wins).
		Int("draws", stats.Draws).
		Msg("worker-finished")
}

func (ll *LogListener) Summary(summary VersusSummaryInfo) {
	ll.logger.Info().
		Int("games", summary.TotalGames).
		Str("p1", summary.P1Name).
		Int("p1-wins", summary.P1Wins).
		Str("p2", summary.P2Name).
		Int("p2-wins", summary.P2Wins).
		Int("draws", summary.Draws).
		Int("first-to-move-wins", summary.FirstToMoveWins).
		Msg("arena-summary")
}
