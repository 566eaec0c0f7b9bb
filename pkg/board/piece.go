package board

import "fmt"

// NoCarrier marks a piece that is not currently carried by another.
const NoCarrier int32 = -1

// Piece represents a single unit on the board. Ids are stable through the game and never
// reused, so that a Piece can be tracked across make/unmake and serialization.
type Piece struct {
	ID        int32
	Side      Side
	Kind      Kind
	Col, Row  int8
	Hero      bool
	CarrierID int32
}

func (p Piece) Square() Square {
	return Square{Col: p.Col, Row: p.Row}
}

func (p Piece) IsCarried() bool {
	return p.CarrierID != NoCarrier
}

func (p Piece) String() string {
	h := ""
	if p.Hero {
		h = "*"
	}
	return fmt.Sprintf("%v%v%v@%v#%v", p.Side, p.Kind, h, p.Square(), p.ID)
}

// zobristState packs the (kind, side, hero, carried) state used to index the Zobrist
// table. There are NumKinds * NumSides * 2 (hero) * 2 (carried) = 88 distinct states.
func zobristState(p Piece) int {
	carried := 0
	if p.IsCarried() {
		carried = 1
	}
	hero := 0
	if p.Hero {
		hero = 1
	}
	return ((int(p.Kind)-int(ZeroKind))*int(NumSides)+int(p.Side))*4 + hero*2 + carried
}

// NumZobristStates is the width of the per-square Zobrist piece-state table (88).
const NumZobristStates = int(NumKinds) * int(NumSides) * 2 * 2
