package board

// LegalDestinations generates the pseudo-legal moves for a single piece, applying the
// capability set named in the board design: step, slide-up-to-k, leap-k-in-8-directions,
// bombard-without-moving, stand-and-strike, board-water-only, board-land-only,
// carry-passenger. Carried pieces never move independently -- they move with their
// carrier -- so this returns nil for them.
func LegalDestinations(pos *Position, p Piece) []Move {
	if p.IsCarried() {
		return nil
	}

	switch p.Kind {
	case Commander:
		return commanderMoves(pos, p)
	case Headquarters:
		return nil
	case Infantry:
		return stepMoves(pos, p, Orthogonal4, onlyLand)
	case Militia:
		return stepMoves(pos, p, All8, onlyLand)
	case Tank:
		return tankMoves(pos, p)
	case Engineer:
		return stepMoves(pos, p, Orthogonal4, landOrReef)
	case Artillery:
		return slideMoves(pos, p, Orthogonal4, artilleryRange(p), landOrReef)
	case AntiAircraft:
		return stepMoves(pos, p, Orthogonal4, onlyLand)
	case Missile:
		return missileMoves(pos, p)
	case AirForce:
		return airForceMoves(pos, p)
	case Navy:
		return navyMoves(pos, p)
	default:
		return nil
	}
}

// -- terrain predicates -------------------------------------------------------------

func onlyLand(sq Square) bool {
	return TerrainOf(sq) == Land
}

func landOrReef(sq Square) bool {
	return TerrainOf(sq) == Land || IsReef(sq)
}

func seaOrRiver(sq Square) bool {
	t := TerrainOf(sq)
	return t == Sea || t == River
}

// -- destination admission ----------------------------------------------------------

// destination classifies the content of sq for the mover: whether the move is admissible
// as a relocate, and if occupied by a friendly piece, whether carrying is permitted.
func destination(pos *Position, mover Piece, sq Square) (admit bool, capture bool) {
	top, ok := pos.TopAt(sq)
	if !ok {
		return true, false
	}
	if top.Side != mover.Side {
		return true, true
	}
	// Friendly occupant: admissible only as a carry.
	if CanCarry(top.Kind, mover.Kind) && pos.CountPassengers(top.ID) < CarrierCapacity(top.Kind) {
		return true, false
	}
	return false, false
}

// boardsCarrier reports whether sq holds a friendly piece that mover would board as a
// passenger: embarking is exempt from the mover's own terrain restriction, since a carried
// piece does not independently occupy the carrier's square's terrain (the board design
// carry-passenger).
func boardsCarrier(pos *Position, mover Piece, sq Square) bool {
	top, ok := pos.TopAt(sq)
	return ok && top.Side == mover.Side
}

func stepMoves(pos *Position, p Piece, dirs []Dir, terrainOK func(Square) bool) []Move {
	var ret []Move
	for _, d := range dirs {
		to := d.Apply(p.Square(), 1)
		if !to.IsValid() {
			continue
		}
		if !boardsCarrier(pos, p, to) && !terrainOK(to) {
			continue
		}
		if admit, _ := destination(pos, p, to); admit {
			ret = append(ret, Move{PieceID: p.ID, ToCol: to.Col, ToRow: to.Row})
		}
	}
	return ret
}

func slideMoves(pos *Position, p Piece, dirs []Dir, maxRange int8, terrainOK func(Square) bool) []Move {
	var ret []Move
	for _, d := range dirs {
		for n := int8(1); n <= maxRange; n++ {
			to := d.Apply(p.Square(), n)
			if !to.IsValid() {
				break
			}
			if !boardsCarrier(pos, p, to) && !terrainOK(to) {
				break
			}
			admit, capture := destination(pos, p, to)
			if !admit {
				break // blocked by a friendly piece that cannot be carried here
			}
			ret = append(ret, Move{PieceID: p.ID, ToCol: to.Col, ToRow: to.Row})
			if !pos.IsEmpty(to) {
				break // captured or carried: slide stops here
			}
			_ = capture
		}
	}
	return ret
}

// quietSlideMoves is slideMoves restricted to empty destinations: it stops at the first
// occupied square (friendly or enemy) without generating a move onto it. Used for the
// Missile's reposition move, which never captures by relocating -- only by striking.
func quietSlideMoves(pos *Position, p Piece, dirs []Dir, maxRange int8, terrainOK func(Square) bool) []Move {
	var ret []Move
	for _, d := range dirs {
		for n := int8(1); n <= maxRange; n++ {
			to := d.Apply(p.Square(), n)
			if !to.IsValid() || !terrainOK(to) || !pos.IsEmpty(to) {
				break
			}
			ret = append(ret, Move{PieceID: p.ID, ToCol: to.Col, ToRow: to.Row})
		}
	}
	return ret
}

// leapMoves generates leaps up to maxRange in the given directions, ignoring blockers
// along the path (Air Force flies over the board).
func leapMoves(pos *Position, p Piece, dirs []Dir, maxRange int8) []Move {
	var ret []Move
	for _, d := range dirs {
		for n := int8(1); n <= maxRange; n++ {
			to := d.Apply(p.Square(), n)
			if !to.IsValid() {
				break
			}
			if admit, _ := destination(pos, p, to); admit {
				ret = append(ret, Move{PieceID: p.ID, ToCol: to.Col, ToRow: to.Row})
			}
		}
	}
	return ret
}

// bombardMoves generates non-relocating strikes: the mover stays put, and the move is
// only legal against an enemy occupant of the target square whose terrain the targeting
// function admits. requireClearRay requires the squares strictly between the mover and
// target along the ray to be empty; pass false to skip the check (adjacent targets).
func bombardMoves(pos *Position, p Piece, targets []Square, requireClearRay bool) []Move {
	var ret []Move
	for _, to := range targets {
		if !to.IsValid() {
			continue
		}
		top, ok := pos.TopAt(to)
		if !ok || top.Side == p.Side {
			continue
		}
		if requireClearRay && !rayClear(pos, p.Square(), to) {
			continue
		}
		ret = append(ret, Move{PieceID: p.ID, ToCol: to.Col, ToRow: to.Row, Bombard: true})
	}
	return ret
}

// rayClear reports whether every square strictly between from and to (which must be
// collinear orthogonally or diagonally) is unoccupied.
func rayClear(pos *Position, from, to Square) bool {
	dc, dr := sign(to.Col-from.Col), sign(to.Row-from.Row)
	cur := Dir{dc, dr}.Apply(from, 1)
	for !cur.Equals(to) {
		if !cur.IsValid() {
			return false
		}
		if !pos.IsEmpty(cur) {
			return false
		}
		cur = Dir{dc, dr}.Apply(cur, 1)
	}
	return true
}

func sign(v int8) int8 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// -- per-kind move generators ---------------------------------------------------------

const commanderRange = int8(10)

func commanderMoves(pos *Position, p Piece) []Move {
	moves := slideMoves(pos, p, Orthogonal4, commanderRange, func(Square) bool { return true })

	enemy, hasEnemy := pos.CommanderOf(p.Side.Opponent())

	ret := moves[:0:0]
	for _, m := range moves {
		if hasEnemy && facesCommander(pos, p, m.To(), enemy.Square()) {
			continue // mutual-line taboo
		}
		ret = append(ret, m)
	}
	return ret
}

// facesCommander reports whether, after moving the commander to `to`, it would share a
// file or rank with the enemy commander with nothing in between (the "flying general"
// taboo named in the board design).
func facesCommander(pos *Position, mover Piece, to, enemy Square) bool {
	if to.Col != enemy.Col && to.Row != enemy.Row {
		return false
	}
	if to.Equals(enemy) {
		return false
	}
	dc, dr := sign(enemy.Col-to.Col), sign(enemy.Row-to.Row)
	cur := Dir{dc, dr}.Apply(to, 1)
	for !cur.Equals(enemy) {
		if pos.IsEmpty(cur) {
			cur = Dir{dc, dr}.Apply(cur, 1)
			continue
		}
		if id := pos.occ[cur.Index()] - 1; id == mover.ID {
			// The moving commander's own origin square may briefly appear occupied in
			// the caller's bookkeeping; no other piece blocks, so the line is open.
			cur = Dir{dc, dr}.Apply(cur, 1)
			continue
		}
		return false // a piece blocks the line: not facing
	}
	return true
}

func tankRange(p Piece) int8 {
	if p.Hero {
		return 3
	}
	return 2
}

func tankMoves(pos *Position, p Piece) []Move {
	dirs := Orthogonal4
	if p.Hero {
		dirs = All8
	}
	moves := slideMoves(pos, p, dirs, tankRange(p), onlyLand)

	bombardRange := tankRange(p)
	var targets []Square
	for _, d := range Orthogonal4 {
		for n := int8(1); n <= bombardRange; n++ {
			to := d.Apply(p.Square(), n)
			if to.IsValid() && TerrainOf(to) == Sea {
				targets = append(targets, to)
			}
		}
	}
	return append(moves, bombardMoves(pos, p, targets, true)...)
}

func artilleryRange(p Piece) int8 {
	if p.Hero {
		return 4
	}
	return 3
}

func missileMoves(pos *Position, p Piece) []Move {
	moves := quietSlideMoves(pos, p, Orthogonal4, 2, onlyLand)

	var targets []Square
	for _, d := range Orthogonal4 {
		for n := int8(1); n <= 2; n++ {
			targets = append(targets, d.Apply(p.Square(), n))
		}
	}
	for _, d := range Diagonal4 {
		targets = append(targets, d.Apply(p.Square(), 1))
	}

	var strikable []Square
	for _, to := range targets {
		if to.IsValid() && TerrainOf(to) != Sea {
			strikable = append(strikable, to)
		}
	}
	strikes := bombardMoves(pos, p, strikable, true)

	// Missile never targets Navy, even ashore on a reef.
	filtered := strikes[:0:0]
	for _, m := range strikes {
		if top, ok := pos.TopAt(m.To()); !ok || top.Kind != Navy {
			filtered = append(filtered, m)
		}
	}
	return append(moves, filtered...)
}

func airForceRange(p Piece) int8 {
	return 4
}

func airForceMoves(pos *Position, p Piece) []Move {
	moves := leapMoves(pos, p, All8, airForceRange(p))
	if p.Hero {
		return moves
	}

	coverage := AntiAirCoverage(pos, p.Side.Opponent())
	ret := moves[:0:0]
	for _, m := range moves {
		if !coverage[m.To().Index()] {
			ret = append(ret, m)
		}
	}
	return ret
}

func navyRange(p Piece) int8 {
	if p.Hero {
		return 5
	}
	return 4
}

func navyMoves(pos *Position, p Piece) []Move {
	moves := slideMoves(pos, p, All8, navyRange(p), seaOrRiver)

	var targets []Square
	for _, d := range All8 {
		for n := int8(1); n <= navyRange(p); n++ {
			to := d.Apply(p.Square(), n)
			if to.IsValid() && TerrainOf(to) == Land {
				targets = append(targets, to)
			}
		}
	}
	return append(moves, bombardMoves(pos, p, targets, true)...)
}

// GenerateMoves returns every pseudo-legal move for the side to move.
func GenerateMoves(pos *Position, side Side) []Move {
	var ret []Move
	for _, p := range pos.AllAlive() {
		if p.Side != side || p.IsCarried() {
			continue
		}
		ret = append(ret, LegalDestinations(pos, p)...)
	}
	return ret
}
