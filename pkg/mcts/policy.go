package mcts

import (
	"math"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
)

// softmaxTemperature controls how sharply hand-crafted policy logits are turned into
// move priors; ~25 keeps the distribution soft rather than winner-take-all.
const softmaxTemperature = 25.0

// priorLogit scores one legal move by a handful of hand-crafted policy terms:
// capture MVV/LVA refined by SEE, central-column control, forward advance towards the
// enemy home row, quiet-move history, and Commander-threat/shelter proximity.
func priorLogit(zt *board.ZobristTable, hist *search.Context, pos *board.Position, side board.Side, m board.Move) float64 {
	var logit float64

	if top, ok := pos.TopAt(m.To()); ok && top.Side != side {
		logit += float64(eval.CaptureGain(pos, m)) + float64(search.SEE(zt, pos, m))
	}

	center := float64(board.NumCols-1) / 2
	logit += 8 * (1 - math.Abs(float64(m.ToCol)-center)/center)

	mover, _ := pos.Piece(m.PieceID)
	advance := float64(m.ToRow-mover.Row) * float64(side.Unit())
	logit += 4 * advance

	if enemy, ok := pos.CommanderOf(side.Opponent()); ok {
		d := math.Abs(float64(m.ToCol-enemy.Col)) + math.Abs(float64(m.ToRow-enemy.Row))
		logit += 12 / (1 + d)
	}
	if cmd, ok := pos.CommanderOf(side); ok {
		d := math.Abs(float64(m.ToCol-cmd.Col)) + math.Abs(float64(m.ToRow-cmd.Row))
		if d <= 2 {
			logit += 3 // shelter: stay near the friendly Commander
		}
	}

	if hist != nil {
		logit += float64(hist.HistoryOf(side, mover.Kind, m)) / 256
	}
	return logit
}

// priors converts per-move logits into a softmax probability distribution, the
// temperature-25 policy prior over the legal move set.
func priors(zt *board.ZobristTable, hist *search.Context, pos *board.Position, side board.Side, moves []board.Move) []float64 {
	logits := make([]float64, len(moves))
	maxLogit := math.Inf(-1)
	for i, m := range moves {
		logits[i] = priorLogit(zt, hist, pos, side, m)
		if logits[i] > maxLogit {
			maxLogit = logits[i]
		}
	}
	sum := 0.0
	ps := make([]float64, len(moves))
	for i, l := range logits {
		ps[i] = math.Exp((l - maxLogit) / softmaxTemperature)
		sum += ps[i]
	}
	if sum == 0 {
		for i := range ps {
			ps[i] = 1.0 / float64(len(ps))
		}
		return ps
	}
	for i := range ps {
		ps[i] /= sum
	}
	return ps
}
