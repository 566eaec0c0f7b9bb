package eval

import "github.com/commanderchess/engine/pkg/board"

// NominalValue is a piece kind's base material value in centi-units. Headquarters
// is immobile but still blocks capture of the home square, so it carries a small value
// rather than zero.
func NominalValue(k board.Kind) Score {
	switch k {
	case board.Infantry, board.Militia:
		return 100
	case board.Engineer:
		return 130
	case board.AntiAircraft:
		return 260
	case board.Tank:
		return 380
	case board.Artillery:
		return 420
	case board.Missile:
		return 480
	case board.Navy:
		return 550
	case board.AirForce:
		return 560
	case board.Headquarters:
		return 40
	case board.Commander:
		return 100000
	default:
		return 0
	}
}

// heroBonusNum/Den apply the "1.5x for heroic units" as an integer multiplier.
const heroBonusNum, heroBonusDen = 3, 2

// PieceValue returns a piece's material value including the heroic multiplier, exported
// for move-ordering heuristics (MVV/LVA, SEE) in the search package.
func PieceValue(p board.Piece) Score {
	return pieceValue(p)
}

func pieceValue(p board.Piece) Score {
	v := NominalValue(p.Kind)
	if p.Hero {
		v = v * heroBonusNum / heroBonusDen
	}
	return v
}

// Material returns the material balance from side's perspective: sum of side's piece
// values minus the opponent's.
func Material(pos *board.Position, side board.Side) Score {
	var score Score
	for _, p := range pos.AllAlive() {
		v := pieceValue(p)
		if p.Side == side {
			score += v
		} else {
			score -= v
		}
	}
	return score
}

// phaseMax is the total non-Commander, non-Headquarters material present at game start for
// one side; used as the denominator of the opening<->endgame phase scalar.
const phaseMax = Score(5*100 + 2*100 + 2*130 + 2*260 + 2*380 + 2*420 + 1*480 + 2*560 + 2*550)

// Phase returns an opening(256)<->endgame(0) scalar derived from remaining material on the
// board, used to interpolate piece-square tables and king-safety weights.
func Phase(pos *board.Position) int {
	var total Score
	for _, p := range pos.AllAlive() {
		switch p.Kind {
		case board.Commander, board.Headquarters:
			continue
		}
		total += NominalValue(p.Kind)
	}
	full := 2 * phaseMax
	if full == 0 {
		return 0
	}
	phase := int(total) * 256 / int(full)
	if phase > 256 {
		phase = 256
	}
	if phase < 0 {
		phase = 0
	}
	return phase
}

// Interpolate blends an opening and an endgame term value by the phase scalar (256 =
// opening, 0 = endgame).
func Interpolate(phase int, opening, endgame Score) Score {
	return (opening*Score(phase) + endgame*Score(256-phase)) / 256
}
