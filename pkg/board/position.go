package board

import (
	"fmt"
)

// Placement describes a piece to place when constructing a fresh position.
type Placement struct {
	Side Side
	Kind Kind
	Col, Row int8
}

// Position represents a mutable board position: the piece roster and a square-indexed
// occupancy table for top-level (non-carried) pieces, the side to move and the game
// mode. Carried pieces are not recorded in the occupancy table -- they are found by a
// linear scan of the roster for the small piece counts this game uses.
//
// Position is intentionally array-indexed rather than a 64-bit bitboard: the 132-square
// board does not fit one machine word, so occupancy is a [NumSquares]int32 mailbox of
// (id+1), in the spirit of the reference engine's array-indexed piece-square tables.
type Position struct {
	byID  []Piece // index i holds the piece with ID i; zero value if never allocated
	alive []bool  // parallel to byID
	occ   [NumSquares]int32

	side Side
	mode Mode

	nextID int32
}

// NewPosition builds a position from an initial placement list, side to move Red, and mode.
func NewPosition(placements []Placement, mode Mode) *Position {
	p := &Position{mode: mode, side: Red}
	for _, pl := range placements {
		p.addPiece(pl.Side, pl.Kind, pl.Col, pl.Row)
	}
	return p
}

func (p *Position) addPiece(side Side, kind Kind, col, row int8) Piece {
	id := p.nextID
	p.nextID++

	pc := Piece{ID: id, Side: side, Kind: kind, Col: col, Row: row, CarrierID: NoCarrier}
	p.byID = append(p.byID, pc)
	p.alive = append(p.alive, true)
	p.occ[NewSquare(col, row).Index()] = id + 1
	return pc
}

// Clone performs a deep copy suitable for search probes: the caller's position is never
// mutated by search.
func (p *Position) Clone() *Position {
	c := &Position{
		side:   p.side,
		mode:   p.mode,
		nextID: p.nextID,
		occ:    p.occ,
	}
	c.byID = append([]Piece(nil), p.byID...)
	c.alive = append([]bool(nil), p.alive...)
	return c
}

func (p *Position) Side() Side { return p.side }
func (p *Position) Mode() Mode { return p.mode }

func (p *Position) SetSide(s Side) { p.side = s }

// Piece returns the piece with the given id. ok is false if the id was never allocated.
func (p *Position) Piece(id int32) (Piece, bool) {
	if id < 0 || int(id) >= len(p.byID) {
		return Piece{}, false
	}
	return p.byID[id], true
}

// IsAlive returns true iff the piece with the given id is still on the board.
func (p *Position) IsAlive(id int32) bool {
	return id >= 0 && int(id) < len(p.alive) && p.alive[id]
}

// TopAt returns the top-level (non-carried) piece occupying sq, if any.
func (p *Position) TopAt(sq Square) (Piece, bool) {
	if !sq.IsValid() {
		return Piece{}, false
	}
	id := p.occ[sq.Index()] - 1
	if id < 0 {
		return Piece{}, false
	}
	return p.byID[id], true
}

// IsEmpty returns true iff no top-level piece occupies sq.
func (p *Position) IsEmpty(sq Square) bool {
	return sq.IsValid() && p.occ[sq.Index()] == 0
}

// PassengersOf returns the pieces currently carried by the given carrier id.
func (p *Position) PassengersOf(carrierID int32) []Piece {
	var ret []Piece
	for i, alive := range p.alive {
		if !alive {
			continue
		}
		if pc := p.byID[i]; pc.CarrierID == carrierID {
			ret = append(ret, pc)
		}
	}
	return ret
}

// CountPassengers returns the number of pieces currently carried by carrierID.
func (p *Position) CountPassengers(carrierID int32) int {
	return len(p.PassengersOf(carrierID))
}

// AllAlive returns every piece still on the board, top-level and carried alike.
func (p *Position) AllAlive() []Piece {
	ret := make([]Piece, 0, len(p.byID))
	for i, alive := range p.alive {
		if alive {
			ret = append(ret, p.byID[i])
		}
	}
	return ret
}

// SideCount returns the number of alive pieces of the given side and kind.
func (p *Position) SideCount(s Side, k Kind) int {
	n := 0
	for i, alive := range p.alive {
		if alive && p.byID[i].Side == s && p.byID[i].Kind == k {
			n++
		}
	}
	return n
}

// CommanderOf returns the commander piece of the given side, if still present.
func (p *Position) CommanderOf(s Side) (Piece, bool) {
	for i, alive := range p.alive {
		if alive && p.byID[i].Side == s && p.byID[i].Kind == Commander {
			return p.byID[i], true
		}
	}
	return Piece{}, false
}

// CheckInvariants validates the Position invariants listed in the lifecycle contract. It is used by
// tests and as a fatal-engine-invariant guard around make/unmake (the error-handling design item 3).
func (p *Position) CheckInvariants() error {
	seen := map[int32]bool{}
	occCount := map[int]int32{}

	for i, alive := range p.alive {
		if !alive {
			continue
		}
		pc := p.byID[i]
		if pc.ID != int32(i) {
			return fmt.Errorf("piece id mismatch at slot %v: %v", i, pc)
		}
		if seen[pc.ID] {
			return fmt.Errorf("duplicate id: %v", pc.ID)
		}
		seen[pc.ID] = true

		if !pc.Square().IsValid() {
			return fmt.Errorf("piece off board: %v", pc)
		}

		if pc.IsCarried() {
			carrier, ok := p.Piece(pc.CarrierID)
			if !ok || !p.IsAlive(pc.CarrierID) {
				return fmt.Errorf("carrier missing for %v", pc)
			}
			if carrier.Side != pc.Side {
				return fmt.Errorf("carrier side mismatch for %v", pc)
			}
			if !CanCarry(carrier.Kind, pc.Kind) {
				return fmt.Errorf("carrier %v cannot carry %v", carrier.Kind, pc.Kind)
			}
			if carrier.Col != pc.Col || carrier.Row != pc.Row {
				return fmt.Errorf("carried piece not co-located: %v on %v", pc, carrier)
			}
			if p.CountPassengers(carrier.ID) > CarrierCapacity(carrier.Kind) {
				return fmt.Errorf("carrier %v over capacity", carrier)
			}
		} else {
			occCount[pc.Square().Index()]++
		}
	}
	for idx, n := range occCount {
		if n > 1 {
			return fmt.Errorf("square %v has %v top-level pieces", SquareFromIndex(idx), n)
		}
	}
	return nil
}

func (p *Position) String() string {
	return fmt.Sprintf("position{side=%v, mode=%v, pieces=%v}", p.side, p.mode, len(p.AllAlive()))
}
