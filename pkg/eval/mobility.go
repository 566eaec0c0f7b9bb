package eval

import "github.com/commanderchess/engine/pkg/board"

// Mobility approximates the "(my attacked squares) - (opp attacked squares)" using
// the shared AttackCache so it is computed once per position rather than per term.
func Mobility(cache *AttackCache, hash board.ZobristHash, pos *board.Position, side board.Side) Score {
	mine := cache.Get(hash, pos, side)
	theirs := cache.Get(hash, pos, side.Opponent())
	return Score(mine.Count-theirs.Count) * 2
}

// HangingPenalty penalizes a piece standing on a square with more enemy attackers than
// friendly defenders, scaled by the piece's own value -- an overloaded or hanging unit.
func HangingPenalty(cache *AttackCache, hash board.ZobristHash, pos *board.Position, side board.Side) Score {
	enemy := cache.Get(hash, pos, side.Opponent())
	friendly := cache.Get(hash, pos, side)

	var penalty Score
	for _, p := range pos.AllAlive() {
		if p.Side != side || p.IsCarried() {
			continue
		}
		idx := p.Square().Index()
		attackers := enemy.Attackers[idx]
		defenders := friendly.Attackers[idx]
		if attackers > defenders {
			penalty += pieceValue(p) * Score(attackers-defenders) / 8
		}
	}
	return penalty
}

// PiecePairBonus rewards keeping both copies of a kind whose two units are meaningfully
// stronger together than apart: Navy, Air Force and Tank.
func PiecePairBonus(pos *board.Position, side board.Side) Score {
	var score Score
	for _, k := range []board.Kind{board.Navy, board.AirForce, board.Tank} {
		if pos.SideCount(side, k) >= 2 {
			score += 25
		}
	}
	return score
}

// MaterialConversionBonus rewards trades that thin the opponent's roster while side is
// already ahead on material, nudging the engine to simplify into a winning endgame.
func MaterialConversionBonus(pos *board.Position, side board.Side) Score {
	material := Material(pos, side)
	if material <= 0 {
		return 0
	}
	oppPieces := 0
	for _, p := range pos.AllAlive() {
		if p.Side == side.Opponent() {
			oppPieces++
		}
	}
	startingPieces := 22 // the opponent's roster at setup; fewer enemy pieces -> more converted
	return Score(startingPieces-oppPieces) * material / 2000
}
