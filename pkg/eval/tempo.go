package eval

import "github.com/commanderchess/engine/pkg/board"

// tempoBonus rewards the side to move, the standard nudge to prefer active play.
const tempoBonus Score = 10

// contempt is a constant nudge against accepting a draw, so the engine keeps pressing a
// level position rather than steering for repetition.
const contempt Score = 15

// Tempo returns the tempo + contempt term from side's perspective, given the side actually
// on move in this position.
func Tempo(pos *board.Position, side board.Side) Score {
	if pos.Side() == side {
		return tempoBonus + contempt
	}
	return -contempt
}
