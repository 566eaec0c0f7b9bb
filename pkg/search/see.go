package search

import (
	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
)

// SEE performs a static exchange evaluation of a capture on m's destination square: the
// net material result of playing out the capture sequence there with each side using its
// least valuable attacker first. Non-captures return 0.
//
// The exchange is played out for real on a scratch clone via board.MakeMove, alternating
// sides naturally the way the board package already does -- there is no bitboard "remove
// piece" shortcut available from outside the board package, so this is simpler and more
// faithful than hand-rolling occupancy edits.
func SEE(zt *board.ZobristTable, pos *board.Position, m board.Move) eval.Score {
	mover, ok := pos.Piece(m.PieceID)
	if !ok {
		return 0
	}
	target := m.To()
	occupant, hasOccupant := pos.TopAt(target)
	if !hasOccupant {
		return 0
	}

	clone := pos.Clone()
	clone.SetSide(mover.Side)

	gain := []eval.Score{eval.PieceValue(occupant)}
	cur := board.Move{PieceID: m.PieceID, ToCol: m.ToCol, ToRow: m.ToRow}
	attackerValue := eval.PieceValue(mover)
	var hash board.ZobristHash

	for len(gain) < 32 {
		h, _, err := board.MakeMove(clone, zt, hash, cur)
		if err != nil {
			break
		}
		hash = h
		gain = append(gain, attackerValue-gain[len(gain)-1])

		attackers := board.AttackersOf(clone, clone.Side(), target)
		if len(attackers) == 0 {
			break
		}
		next := leastValuable(attackers)
		attackerValue = eval.PieceValue(next)
		cur = board.Move{PieceID: next.ID, ToCol: target.Col, ToRow: target.Row}
	}

	// The last gain entry assumes a recapture by an attacker that was never found, so the
	// backward minimax pass starts one entry before it.
	for i := len(gain) - 3; i >= 0; i-- {
		gain[i] = -eval.Max(-gain[i], gain[i+1])
	}
	return gain[0]
}

func leastValuable(pieces []board.Piece) board.Piece {
	best := pieces[0]
	for _, p := range pieces[1:] {
		if eval.PieceValue(p) < eval.PieceValue(best) {
			best = p
		}
	}
	return best
}
