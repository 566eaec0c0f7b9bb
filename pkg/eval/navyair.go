package eval

import "github.com/commanderchess/engine/pkg/board"

// NavySafety scores side's Navy pieces: attackers minus defenders on their square, plus a
// flat bonus for simply standing on open sea (out of land-piece reach).
func NavySafety(cache *AttackCache, hash board.ZobristHash, pos *board.Position, side board.Side) Score {
	enemy := cache.Get(hash, pos, side.Opponent())
	friendly := cache.Get(hash, pos, side)

	var score Score
	for _, p := range pos.AllAlive() {
		if p.Side != side || p.Kind != board.Navy {
			continue
		}
		idx := p.Square().Index()
		score += Score(friendly.Attackers[idx]-enemy.Attackers[idx]) * 10
		if board.TerrainOf(p.Square()) == board.Sea {
			score += 6
		}
	}
	return score
}

// AirForceSafety heavily penalizes an undefended Air Force under attack, since losing one
// counts directly towards the air win objective.
func AirForceSafety(cache *AttackCache, hash board.ZobristHash, pos *board.Position, side board.Side) Score {
	enemy := cache.Get(hash, pos, side.Opponent())
	friendly := cache.Get(hash, pos, side)

	var score Score
	for _, p := range pos.AllAlive() {
		if p.Side != side || p.Kind != board.AirForce {
			continue
		}
		idx := p.Square().Index()
		if enemy.Attackers[idx] > 0 && friendly.Attackers[idx] == 0 {
			score -= 180
		}
	}
	return score
}

// antiAirProximityMax is the outer edge of the "Anti-Aircraft coverage bonus for
// friendly Af within 1-3" band.
const antiAirProximityMax = 3

// AntiAirCoverageBonus rewards friendly Air Force units for staying close to (and thus
// shielded by) a friendly Anti-Aircraft piece.
func AntiAirCoverageBonus(pos *board.Position, side board.Side) Score {
	var score Score
	for _, af := range pos.AllAlive() {
		if af.Side != side || af.Kind != board.AirForce {
			continue
		}
		best := antiAirProximityMax + 1
		for _, aa := range pos.AllAlive() {
			if aa.Side != side || aa.Kind != board.AntiAircraft {
				continue
			}
			d := chebyshev(af.Square(), aa.Square())
			if d >= 1 && d <= antiAirProximityMax && d < best {
				best = d
			}
		}
		if best <= antiAirProximityMax {
			score += Score(antiAirProximityMax+1-best) * 10
		}
	}
	return score
}
