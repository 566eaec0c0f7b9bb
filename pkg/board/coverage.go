package board

// antiAirRadius is the Chebyshev radius of an Anti-Aircraft piece's coverage zone: a 5x5
// block centered on each Aa piece.
const antiAirRadius = 2

// AntiAirCoverage returns the set of squares (indexed by Square.Index) that side's
// Anti-Aircraft pieces cover, intercepting non-heroic enemy Air Force moves that land
// inside it.
func AntiAirCoverage(pos *Position, side Side) map[int]bool {
	zone := map[int]bool{}
	for _, p := range pos.AllAlive() {
		if p.Side != side || p.Kind != AntiAircraft || p.IsCarried() {
			continue
		}
		for dc := int8(-antiAirRadius); dc <= antiAirRadius; dc++ {
			for dr := int8(-antiAirRadius); dr <= antiAirRadius; dr++ {
				sq := Square{Col: p.Col + dc, Row: p.Row + dr}
				if sq.IsValid() {
					zone[sq.Index()] = true
				}
			}
		}
	}
	return zone
}

// AttackersOf returns the pieces of `side` whose capability set lets them capture a
// top-level piece standing on sq right now: the union of each piece's normal relocate
// destinations and bombard/strike targets that coincide with sq. Used for hero promotion
// ("directly threatens the enemy Commander"), the bombardment-return/kamikaze check, the
// search's static exchange evaluation, and the evaluator's Commander-safety terms.
func AttackersOf(pos *Position, side Side, sq Square) []Piece {
	var ret []Piece
	for _, p := range pos.AllAlive() {
		if p.Side != side || p.IsCarried() {
			continue
		}
		for _, m := range LegalDestinations(pos, p) {
			if m.To().Equals(sq) {
				ret = append(ret, p)
				break
			}
		}
	}
	return ret
}

// IsAttacked reports whether any piece of `side` can capture on sq right now.
func IsAttacked(pos *Position, side Side, sq Square) bool {
	return len(AttackersOf(pos, side, sq)) > 0
}

// ThreatensCommander reports whether p (already placed on the board) directly attacks
// the enemy commander square. Used by the hero-promotion rule.
func ThreatensCommander(pos *Position, p Piece) bool {
	enemy, ok := pos.CommanderOf(p.Side.Opponent())
	if !ok {
		return false
	}
	for _, m := range LegalDestinations(pos, p) {
		if m.To().Equals(enemy.Square()) {
			return true
		}
	}
	return false
}
