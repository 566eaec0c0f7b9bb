package eval

import "github.com/commanderchess/engine/pkg/board"

// attackerCountTable maps a raw attacker count (capped at the table length) to a safety
// penalty in centi-units, the {0,40,120,260,450,700,1000} curve.
var attackerCountTable = [...]Score{0, 40, 120, 260, 450, 700, 1000}

func attackerCountPenalty(n int) Score {
	if n >= len(attackerCountTable) {
		n = len(attackerCountTable) - 1
	}
	return attackerCountTable[n]
}

// CommanderSafety scores side's Commander safety: attacker-count penalty scaled by the
// midgame weight, a shelter bonus for adjacent friendlies, and a virtual-mobility penalty
// when the Commander has one or zero escape squares.
func CommanderSafety(pos *board.Position, side board.Side) Score {
	cmd, ok := pos.CommanderOf(side)
	if !ok {
		return -MateScore
	}

	attackers := len(board.AttackersOf(pos, side.Opponent(), cmd.Square()))
	midgameWeight := Score(Phase(pos)) // king safety matters most with material still on the board

	penalty := attackerCountPenalty(attackers) * midgameWeight / 256

	shelter := Score(0)
	for _, d := range board.All8 {
		sq := d.Apply(cmd.Square(), 1)
		if !sq.IsValid() {
			continue
		}
		if top, ok := pos.TopAt(sq); ok && top.Side == side {
			shelter += 8
		}
	}

	escapes := 0
	for _, d := range board.All8 {
		sq := d.Apply(cmd.Square(), 1)
		if !sq.IsValid() {
			continue
		}
		if pos.IsEmpty(sq) {
			escapes++
		}
	}
	mobilityPenalty := Score(0)
	if escapes <= 1 {
		mobilityPenalty = 60
	}

	return shelter - penalty - mobilityPenalty
}

// commanderRing returns the 3x3 block centered on sq (excluding sq itself), the "3x3
// ring" used for attack-pressure scoring.
func commanderRing(sq board.Square) []board.Square {
	var ret []board.Square
	for _, d := range board.All8 {
		s := d.Apply(sq, 1)
		if s.IsValid() {
			ret = append(ret, s)
		}
	}
	return ret
}

// AttackPressure scores pressure on the enemy Commander: direct attackers/defenders of its
// square, and attackers/defenders/escape squares across its 3x3 ring.
func AttackPressure(pos *board.Position, side board.Side) Score {
	enemy, ok := pos.CommanderOf(side.Opponent())
	if !ok {
		return 0
	}

	direct := len(board.AttackersOf(pos, side, enemy.Square()))
	directDefend := len(board.AttackersOf(pos, side.Opponent(), enemy.Square()))

	var ringAttack, ringDefend, ringEscape int
	for _, sq := range commanderRing(enemy.Square()) {
		ringAttack += len(board.AttackersOf(pos, side, sq))
		ringDefend += len(board.AttackersOf(pos, side.Opponent(), sq))
		if pos.IsEmpty(sq) {
			ringEscape++
		}
	}

	score := Score(direct)*50 - Score(directDefend)*20
	score += Score(ringAttack)*15 - Score(ringDefend)*10
	score -= Score(ringEscape) * 5
	return score
}

// CommanderThreatBonus rewards any non-hero piece of side directly attacking the enemy
// Commander square, per the "Commander-threat bonus".
func CommanderThreatBonus(pos *board.Position, side board.Side) Score {
	enemy, ok := pos.CommanderOf(side.Opponent())
	if !ok {
		return 0
	}
	var score Score
	for _, p := range pos.AllAlive() {
		if p.Side != side || p.Hero {
			continue
		}
		for _, m := range board.LegalDestinations(pos, p) {
			if m.To().Equals(enemy.Square()) {
				score += 35
				break
			}
		}
	}
	return score
}

// HeroProximityBonus rewards heroic pieces for standing closer to the enemy Commander.
func HeroProximityBonus(pos *board.Position, side board.Side) Score {
	enemy, ok := pos.CommanderOf(side.Opponent())
	if !ok {
		return 0
	}
	var score Score
	for _, p := range pos.AllAlive() {
		if p.Side != side || !p.Hero {
			continue
		}
		d := chebyshev(p.Square(), enemy.Square())
		score += Score(20-d) / 2
	}
	return score
}

func chebyshev(a, b board.Square) int {
	dc, dr := int(a.Col-b.Col), int(a.Row-b.Row)
	if dc < 0 {
		dc = -dc
	}
	if dr < 0 {
		dr = -dr
	}
	if dc > dr {
		return dc
	}
	return dr
}
