package search

import (
	"context"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
)

// deltaMargin is the quiescence search's delta-pruning margin.
const deltaMargin = eval.Score(200)

// maxQuiescenceDepth is the "Capture-only extension (depth limit 6)".
const maxQuiescenceDepth = 6

// quiescence extends the search along capture sequences only, stand-patting from the
// static evaluator and stopping at maxQuiescenceDepth plies of captures. Delta pruning and
// SEE pruning of clearly losing captures (after the first quiescence ply) bound the work.
func quiescence(ctx context.Context, sctx *Context, pos *board.Position, hash board.ZobristHash, depth, ply int, alpha, beta eval.Score) eval.Score {
	sctx.Nodes++
	if sctx.Nodes%nodeCheckInterval == 0 && sctx.timeUp() {
		return alpha
	}

	if score, over := terminalScore(pos, depth); over {
		return score
	}
	if sctx.Repetition.IsThreefold(hash) {
		return 0
	}

	standPat := sctx.Eval.Evaluate(ctx, hash, pos, pos.Side())
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}
	if depth <= 0 {
		return alpha
	}

	var captures []board.Move
	for _, m := range board.GenerateMoves(pos, pos.Side()) {
		if !IsQuiet(pos, m) {
			captures = append(captures, m)
		}
	}
	board.SortByPriority(captures, func(m board.Move) board.MovePriority {
		return board.MovePriority(SEE(sctx.Zobrist, pos, m))
	})

	for _, m := range captures {
		see := SEE(sctx.Zobrist, pos, m)
		if depth < maxQuiescenceDepth && see < 0 {
			continue // SEE pruning of clearly losing captures after the first ply
		}

		var captured eval.Score
		if top, ok := pos.TopAt(m.To()); ok {
			captured = eval.PieceValue(top)
		}
		if standPat+captured+deltaMargin < alpha {
			continue // delta pruning
		}

		newHash, undo, err := board.MakeMove(pos, sctx.Zobrist, hash, m)
		if err != nil {
			continue
		}
		sctx.Repetition.Push(newHash)
		score := -quiescence(ctx, sctx, pos, newHash, depth-1, ply+1, -beta, -alpha)
		sctx.Repetition.Pop()
		board.UnmakeMove(pos, undo)
		sctx.Eval.Invalidate(newHash)

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	return alpha
}

// terminalScore checks whether the position is decided by the move that was just played
// (lastMover = the side not currently on move; repetition is checked by the callers),
// returning a score from the perspective of the side now to move. Shorter mates are preferred via the
// +depth*100 term -- depth is the *remaining* search depth at this node, so a mate found
// with more depth left to spare (i.e. found in fewer plies from the root) scores strictly
// higher than one found deeper in the tree.
func terminalScore(pos *board.Position, depth int) (eval.Score, bool) {
	result := board.CheckWin(pos, pos.Side().Opponent(), pos.Mode())
	if !result.IsOver() {
		return 0, false
	}
	if result.Outcome == board.DrawOutcome {
		return 0, true
	}
	return -(eval.MateScore + eval.Score(depth)*100), true
}
