package eval

import "github.com/commanderchess/engine/pkg/board"

// pstTable holds a per-kind, per-square bonus for one side, opening and endgame weighted
// separately, the same (kind, side, square)-indexed bonus-table idiom the pack's
// zserge-carnatus PST uses -- generated here from two simple per-kind shaping rules
// (central-square pull, advance-towards-the-enemy-home-row pull) rather than hand-authored
// literals, since this board's 11x12x11-kind table has no literature analogue to copy from.
type pstTable struct {
	opening [board.NumKinds][board.NumSquares]Score
	endgame [board.NumKinds][board.NumSquares]Score
}

var pst = buildPST()

// centralBonus rewards squares in the (3..7, 4..7) central zone.
func centralBonus(sq board.Square) Score {
	if sq.Col >= 3 && sq.Col <= 7 && sq.Row >= 4 && sq.Row <= 7 {
		return 12
	}
	return 0
}

// advanceWeight returns, per kind, how much a square's advancement towards the enemy home
// row should be weighted. Static pieces (Headquarters) get none; mobile attackers
// (Tank, Artillery, Missile, AirForce, Navy) get more than foot units.
func advanceWeight(k board.Kind) Score {
	switch k {
	case board.Headquarters, board.Commander:
		return 0
	case board.Infantry, board.Militia, board.AntiAircraft, board.Engineer:
		return 2
	case board.Tank, board.Artillery:
		return 3
	case board.Missile, board.AirForce, board.Navy:
		return 4
	default:
		return 1
	}
}

func buildPST() pstTable {
	var t pstTable
	for k := board.ZeroKind; k < board.NumKinds; k++ {
		w := advanceWeight(k)
		for idx := 0; idx < board.NumSquares; idx++ {
			sq := board.SquareFromIndex(idx)
			advanceFromRed := Score(sq.Row) * w / 4
			center := centralBonus(sq)

			t.opening[k][idx] = center + advanceFromRed/2
			t.endgame[k][idx] = center/2 + advanceFromRed
		}
	}
	return t
}

// pstValue returns a piece's piece-square bonus from its own side's perspective: Blue's
// table mirrors Red's by flipping the row, since Blue advances towards row 0.
func pstValue(phase int, p board.Piece) Score {
	sq := p.Square()
	if p.Side == board.Blue {
		sq = board.Square{Col: sq.Col, Row: board.NumRows - 1 - sq.Row}
	}
	idx := sq.Index()
	return Interpolate(phase, pst.opening[p.Kind][idx], pst.endgame[p.Kind][idx])
}

// PieceSquare returns the piece-square term from side's perspective.
func PieceSquare(pos *board.Position, side board.Side) Score {
	phase := Phase(pos)
	var score Score
	for _, p := range pos.AllAlive() {
		v := pstValue(phase, p)
		if p.Side == side {
			score += v
		} else {
			score -= v
		}
	}
	return score
}
