package eval

import "github.com/commanderchess/engine/pkg/board"

// missileAimMin/Max are the "within 2-4 of enemy Commander" band for the aim bonus.
const missileAimMin, missileAimMax = 2, 4

// MissileAimBonus rewards a Missile for standing within striking distance of the enemy
// Commander without needing to actually have it in range this ply.
func MissileAimBonus(pos *board.Position, side board.Side) Score {
	enemy, ok := pos.CommanderOf(side.Opponent())
	if !ok {
		return 0
	}
	var score Score
	for _, p := range pos.AllAlive() {
		if p.Side != side || p.Kind != board.Missile {
			continue
		}
		d := chebyshev(p.Square(), enemy.Square())
		if d >= missileAimMin && d <= missileAimMax {
			score += 18
		}
	}
	return score
}
