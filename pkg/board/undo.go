package board

import "fmt"

// pieceDelta records a piece's state immediately before this move first touched it, so
// the incremental undo path can restore it exactly without a whole-roster snapshot.
type pieceDelta struct {
	id          int32
	beforeAlive bool
	before      Piece
}

// Undo is a reversible-move record. Two strategies share one contract: a whole-roster
// Snapshot, used whenever the move touches carrying state (the mover carries passengers,
// or the destination stacks onto a friendly carrier), and an incremental Delta list,
// used otherwise.
type Undo struct {
	snapshot bool

	savedByID  []Piece
	savedAlive []bool

	deltas []pieceDelta

	move      Move
	prevSide  Side
	prevHash  ZobristHash
	capturedSide Side
	wasCapture   bool
	kamikaze     bool
	bombardReturn bool
}

// WasCapture, CapturedSide, Kamikaze and BombardReturn expose the outcome of the move for
// the engine's last-move bookkeeping, without requiring the caller to re-derive it.
func (u Undo) WasCapture() bool      { return u.wasCapture }
func (u Undo) CapturedSide() Side    { return u.capturedSide }
func (u Undo) Kamikaze() bool        { return u.kamikaze }
func (u Undo) BombardReturn() bool   { return u.bombardReturn }
func (u Undo) Move() Move            { return u.move }

func needsSnapshot(pos *Position, mover Piece, m Move) bool {
	if m.Bombard {
		return false
	}
	if pos.CountPassengers(mover.ID) > 0 {
		return true
	}
	if top, ok := pos.TopAt(m.To()); ok && top.Side == mover.Side {
		return true
	}
	return false
}

// MakeMove applies a move to pos, implementing the make/unmake design apply_move steps 1-5 (legality,
// capture, terrain-stay via the generator's Bombard flag, Air Force kamikaze/bombardment-
// return, hero promotion). It does not update win detection, repetition or the last-move
// record -- those are engine.GameState concerns layered above (the make/unmake design steps 6-7).
func MakeMove(pos *Position, zt *ZobristTable, hash ZobristHash, m Move) (ZobristHash, Undo, error) {
	mover, ok := pos.Piece(m.PieceID)
	if !ok || !pos.IsAlive(m.PieceID) {
		return hash, Undo{}, fmt.Errorf("piece not found")
	}
	if mover.Side != pos.Side() {
		return hash, Undo{}, fmt.Errorf("not this piece's turn")
	}
	if mover.IsCarried() {
		return hash, Undo{}, fmt.Errorf("illegal move")
	}

	var matched Move
	matchedOK := false
	for _, cand := range LegalDestinations(pos, mover) {
		if cand.To().Equals(m.To()) {
			matched, matchedOK = cand, true
			break
		}
	}
	if !matchedOK {
		return hash, Undo{}, fmt.Errorf("illegal move")
	}
	m = matched
	origin := mover.Square()

	snap := needsSnapshot(pos, mover, m)
	u := Undo{move: m, prevSide: pos.Side(), prevHash: hash}

	var seen map[int32]bool
	if snap {
		u.snapshot = true
		u.savedByID = append([]Piece(nil), pos.byID...)
		u.savedAlive = append([]bool(nil), pos.alive...)
	} else {
		seen = map[int32]bool{}
	}

	touch := func(id int32) {
		if snap || seen[id] {
			return
		}
		seen[id] = true
		u.deltas = append(u.deltas, pieceDelta{id: id, beforeAlive: pos.alive[id], before: pos.byID[id]})
	}

	touch(mover.ID)

	target, hadTarget := pos.TopAt(m.To())
	if hadTarget && target.Side != mover.Side {
		touch(target.ID)
		pos.alive[target.ID] = false
		u.wasCapture = true
		u.capturedSide = target.Side
	}

	if !m.Bombard {
		moved := mover
		moved.Col, moved.Row = m.To().Col, m.To().Row
		moved.CarrierID = NoCarrier
		if hadTarget && target.Side == mover.Side {
			moved.CarrierID = target.ID
		}
		pos.byID[mover.ID] = moved

		if snap {
			for _, passenger := range pos.PassengersOf(mover.ID) {
				touch(passenger.ID)
				passenger.Col, passenger.Row = m.To().Col, m.To().Row
				pos.byID[passenger.ID] = passenger
			}
		}
	}
	pos.rebuildOcc()

	// Air Force kamikaze / bombardment-return: only a non-heroic, non-bombard land capture.
	if mover.Kind == AirForce && !mover.Hero && !m.Bombard && u.wasCapture && TerrainOf(m.To()) == Land {
		opp := mover.Side.Opponent()
		switch {
		case AntiAirCoverage(pos, opp)[m.To().Index()]:
			cur, _ := pos.Piece(mover.ID)
			pos.alive[cur.ID] = false
			u.kamikaze = true
		case IsAttacked(pos, opp, m.To()):
			cur, _ := pos.Piece(mover.ID)
			cur.Col, cur.Row = origin.Col, origin.Row
			pos.byID[mover.ID] = cur
			u.bombardReturn = true
		}
		pos.rebuildOcc()
	}

	// Hero promotion: any non-hero piece of the side that just moved that now directly
	// threatens the enemy Commander is marked heroic (the board design).
	for _, p := range pos.AllAlive() {
		if p.Side != mover.Side || p.Hero {
			continue
		}
		if ThreatensCommander(pos, p) {
			touch(p.ID)
			p.Hero = true
			pos.byID[p.ID] = p
		}
	}

	pos.SetSide(mover.Side.Opponent())

	if snap {
		return zt.Hash(pos), u, nil
	}

	newHash := hash
	for _, d := range u.deltas {
		if d.beforeAlive {
			newHash = zt.XorPiece(newHash, d.before)
		}
		if pos.IsAlive(d.id) {
			newHash = zt.XorPiece(newHash, pos.byID[d.id])
		}
	}
	newHash = zt.XorTurn(newHash, u.prevSide)
	newHash = zt.XorTurn(newHash, pos.Side())
	return newHash, u, nil
}

// UnmakeMove reverses a MakeMove call exactly, including the piece roster, occupancy,
// side to move and hash; hash is returned as it was before the move.
func UnmakeMove(pos *Position, u Undo) ZobristHash {
	if u.snapshot {
		pos.byID = u.savedByID
		pos.alive = u.savedAlive
	} else {
		for _, d := range u.deltas {
			pos.byID[d.id] = d.before
			pos.alive[d.id] = d.beforeAlive
		}
	}
	pos.rebuildOcc()
	pos.SetSide(u.prevSide)
	return u.prevHash
}

// rebuildOcc recomputes the top-level occupancy table from the piece roster. Called after
// every move instead of patching individual cells: with the handful of pieces this game
// uses, an O(pieces) rebuild is cheap and removes an entire class of occupancy-bookkeeping
// bugs around captures, carrying and the Air Force kamikaze/return special cases.
func (p *Position) rebuildOcc() {
	for i := range p.occ {
		p.occ[i] = 0
	}
	for i, alive := range p.alive {
		if !alive {
			continue
		}
		pc := p.byID[i]
		if !pc.IsCarried() {
			p.occ[pc.Square().Index()] = pc.ID + 1
		}
	}
}
