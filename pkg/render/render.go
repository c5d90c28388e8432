package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/IlikeChooros/go-linemc/pkg/game"
	"github.com/IlikeChooros/go-linemc/pkg/mcts"
	"github.com/muesli/termenv"
)

// Terminal colours of the markers, ANSI codes
const (
	ColorMarkerA = "1"
	ColorMarkerB = "4"
	ColorHint    = "3"
)

// Draws the board and the engine's output on a terminal
type Renderer struct {
	output *termenv.Output
}

func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{output: termenv.NewOutput(w, opts...)}
}

func (r *Renderer) Output() *termenv.Output {
	return r.output
}

func (r *Renderer) marker(m game.Marker) termenv.Style {
	o := r.output
	switch m {
	case game.MarkerA:
		return o.String(m.String()).Foreground(o.Color(ColorMarkerA)).Bold()
	case game.MarkerB:
		return o.String(m.String()).Foreground(o.Color(ColorMarkerB)).Bold()
	}
	return o.String(".").Faint()
}

// Board with row and column numbers, 'highlight' cell is drawn reversed
// (pass nil to skip it)
func (r *Renderer) Board(view game.View, highlight *game.Move) string {
	size := view.Size()
	width := len(fmt.Sprint(size - 1))
	builder := strings.Builder{}

	// Header with column numbers
	builder.WriteString(strings.Repeat(" ", width+1))
	for col := range size {
		fmt.Fprintf(&builder, " %*d", width, col)
	}
	builder.WriteByte('\n')

	for row := range size {
		fmt.Fprintf(&builder, "%*d ", width, row)
		for col := range size {
			cell := view.Cell(row, col)
			style := r.marker(cell.Marker)
			if highlight != nil && highlight.Row == row && highlight.Col == col {
				style = style.Reverse()
			}
			fmt.Fprintf(&builder, " %s%s", strings.Repeat(" ", width-1), style)
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}

// One line summary of the game state
func (r *Renderer) Status(view game.View) string {
	o := r.output
	switch {
	case view.IsLineCompleteNow():
		return fmt.Sprintf("%s wins", r.marker(view.Winner()))
	case view.IsDrawNow():
		return o.String("draw").Bold().String()
	}
	return fmt.Sprintf("move %d, %s to play", view.RealMoves()+1, r.marker(game.MarkerForMove(view.RealMoves())))
}

func (r *Renderer) Decision(d mcts.Decision) string {
	o := r.output
	kind := o.String(d.Kind.String())
	if d.Kind == mcts.DecisionImmediate {
		kind = kind.Foreground(o.Color(ColorHint)).Bold()
	}
	return fmt.Sprintf("%s plays (%d,%d) %s score %.4f", r.marker(d.Marker), d.Row, d.Col, kind, d.Score)
}

// Grid of the cell scores, the played cells show their marker
func (r *Renderer) Scores(view game.View, stats []mcts.CellStats) string {
	size := view.Size()
	builder := strings.Builder{}
	for row := range size {
		for col := range size {
			if col > 0 {
				builder.WriteByte(' ')
			}
			cell := view.Cell(row, col)
			if cell.Played {
				fmt.Fprintf(&builder, "%6s", "")
				fmt.Fprint(&builder, r.marker(cell.Marker))
				continue
			}
			fmt.Fprintf(&builder, "%7.4f", stats[row*size+col].Score)
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}

func (r *Renderer) RunStats(stats mcts.RunStats) string {
	return fmt.Sprintf("%d playouts in %dms (%d/s, %d threads): %s %d, %s %d, draws %d",
		stats.Playouts, stats.TimeMs, stats.Cps, stats.Threads,
		r.marker(game.MarkerA), stats.WinsA, r.marker(game.MarkerB), stats.WinsB, stats.Draws)
}
