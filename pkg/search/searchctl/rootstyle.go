package searchctl

import (
	"context"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
)

// hangPenalty and oneMoveLossPenalty are large enough to dominate ordinary positional
// scores, so the opening risk term only overrides the evaluator's own judgment when a
// candidate is clearly unsound, not merely a little worse positionally. This penalty is
// used only for ranking root moves against each other; it never feeds back into the
// search's own value.
const (
	hangPenalty         = eval.Score(900)
	oneMoveLossPenalty  = eval.Score(1500)
	airForceFlightMalus = eval.Score(40)
)

// RankMove scores a root-move candidate as board_score - opening_risk, from the
// perspective of the side to move in pos: the evaluator's static judgment of the
// resulting position, reduced by a tactical-risk term that exists only to break ties and
// veto outright blunders the evaluator's depth-zero view might otherwise miss. Higher is
// better. Used to rank the tree search's own move against opening-book alternatives; it
// never feeds back into the tree search's own value.
func RankMove(ctx context.Context, evaluator eval.Evaluator, zt *board.ZobristTable, pos *board.Position, m board.Move, plyCount int) eval.Score {
	side := pos.Side()
	clone := pos.Clone()

	newHash, undo, err := board.MakeMove(clone, zt, 0, m)
	if err != nil {
		return -oneMoveLossPenalty
	}
	defer func() {
		board.UnmakeMove(clone, undo)
		evaluator.Invalidate(newHash)
	}()

	boardScore := evaluator.Evaluate(ctx, newHash, clone, side)
	risk := openingRisk(zt, pos, clone, side, m, plyCount)
	return boardScore - risk
}

// openingRisk computes the tactical-risk term of RankMove's ranking key: clone is pos
// after m has already been applied, so the caller need not re-apply it.
//
//   - Heavily penalize any move that hangs our Commander next ply.
//   - Heavy penalty for moves that let the opponent win outright in one reply.
//   - In the early game (few plies played), discourage non-capturing Air Force flights.
func openingRisk(zt *board.ZobristTable, pos, clone *board.Position, side board.Side, m board.Move, plyCount int) eval.Score {
	var penalty eval.Score

	if cmd, ok := clone.CommanderOf(side); ok && board.IsAttacked(clone, side.Opponent(), cmd.Square()) {
		penalty += hangPenalty
	}

	if result := board.CheckWin(clone, side, pos.Mode()); result.IsOver() && result.Outcome == board.WinFor(side.Opponent()) {
		penalty += oneMoveLossPenalty
	} else {
		for _, reply := range board.GenerateMoves(clone, side.Opponent()) {
			replyClone := clone.Clone()
			if _, _, err := board.MakeMove(replyClone, zt, 0, reply); err != nil {
				continue
			}
			if result := board.CheckWin(replyClone, side.Opponent(), pos.Mode()); result.IsOver() && result.Outcome == board.WinFor(side.Opponent()) {
				penalty += oneMoveLossPenalty
				break
			}
		}
	}

	if plyCount < 10 {
		mover, _ := pos.Piece(m.PieceID)
		if mover.Kind == board.AirForce && search.IsQuiet(pos, m) {
			penalty += airForceFlightMalus
		}
	}

	return penalty
}
