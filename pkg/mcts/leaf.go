package mcts

import (
	"context"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
)

// abDepth is the fixed-depth alpha-beta search run at every newly expanded leaf,
// blended with the batched evaluator score.
const abDepth = 3

// EvalBackend selects which evaluator a leaf blends its alpha-beta score against. WebGPU
// is a named stub today: it always resolves to the same CPU evaluator, but the selector
// and its distinct blend weight are wired so a future batched-GPU evaluator has a stable
// hook to plug into.
type EvalBackend int

const (
	CPU EvalBackend = iota
	WebGPU
)

// blendWeight returns the alpha-beta:evaluator weighting, 7:1 for CPU and 3:1 for WebGPU.
func blendWeight(backend EvalBackend) (ab, raw int) {
	if backend == WebGPU {
		return 3, 1
	}
	return 7, 1
}

// leafValue evaluates pos from side's perspective by blending a depth-abDepth alpha-beta
// search with the static evaluator.
func leafValue(ctx context.Context, sctx *search.Context, pos *board.Position, hash board.ZobristHash, side board.Side, backend EvalBackend) eval.Score {
	ab := search.PVS{}.Negamax(ctx, sctx, pos, hash, abDepth, 0, eval.NegInf, eval.Inf, board.NoMove)
	raw := sctx.Eval.Evaluate(ctx, hash, pos, side)

	abW, rawW := blendWeight(backend)
	return (ab*eval.Score(abW) + raw*eval.Score(rawW)) / eval.Score(abW+rawW)
}
