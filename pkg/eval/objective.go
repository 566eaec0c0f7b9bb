package eval

import "github.com/commanderchess/engine/pkg/board"

// ObjectivePressure applies mode-specific pressure reflecting how close each side is to
// its win condition, so the search is steered towards the objective the game is actually
// being played for rather than generic material alone.
func ObjectivePressure(pos *board.Position, side board.Side) Score {
	switch pos.Mode() {
	case board.Marine:
		return navyObjective(pos, side)
	case board.Air:
		return airObjective(pos, side)
	case board.LandOnly:
		return landObjective(pos, side)
	default:
		return 0
	}
}

func navyObjective(pos *board.Position, side board.Side) Score {
	mine := pos.SideCount(side, board.Navy)
	theirs := pos.SideCount(side.Opponent(), board.Navy)
	return Score(mine-theirs) * 150
}

func airObjective(pos *board.Position, side board.Side) Score {
	mine := pos.SideCount(side, board.AirForce)
	theirs := pos.SideCount(side.Opponent(), board.AirForce)
	return Score(mine-theirs) * 150
}

func landObjective(pos *board.Position, side board.Side) Score {
	kinds := []board.Kind{board.Infantry, board.Militia, board.Tank, board.Engineer, board.Artillery, board.AntiAircraft}
	var mine, theirs int
	for _, k := range kinds {
		mine += pos.SideCount(side, k)
		theirs += pos.SideCount(side.Opponent(), k)
	}
	return Score(mine-theirs) * 40
}
