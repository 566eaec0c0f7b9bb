package board

// InitialPlacements returns the 44-piece starting roster (22 per side) for a fresh game,
// mirrored across the two home rows of each side.
//
// Row 0 (Red's home rank) and its mirror row NumRows-1 (Blue's) hold the immobile and
// long-range pieces; row 1 / NumRows-2 hold the forward escort. Navy only ever occupies
// columns 0-2 (the sea columns), matching every row of those columns being sea terrain.
// Three land pieces per side also start on those sea columns: the Tank in column 2 of
// the back rank, and the Engineer and Militia in columns 0 and 2 of the escort rank.
func InitialPlacements(mode Mode) []Placement {
	backRow := []Kind{
		Navy, Navy, Tank, Artillery, AntiAircraft, Commander,
		AntiAircraft, Artillery, Tank, Headquarters, Missile,
	}
	escortRow := []Kind{
		Engineer, AirForce, Militia, Infantry, Infantry, Infantry,
		Infantry, Infantry, Militia, Engineer, AirForce,
	}

	var placements []Placement
	for col, k := range backRow {
		placements = append(placements,
			Placement{Side: Red, Kind: k, Col: int8(col), Row: Red.HomeRow()},
			Placement{Side: Blue, Kind: k, Col: int8(col), Row: Blue.HomeRow()},
		)
	}
	for col, k := range escortRow {
		placements = append(placements,
			Placement{Side: Red, Kind: k, Col: int8(col), Row: Red.HomeRow() + 1},
			Placement{Side: Blue, Kind: k, Col: int8(col), Row: Blue.HomeRow() - 1},
		)
	}
	return placements
}

// NewGamePosition builds the fresh starting position for mode, side to move Red.
func NewGamePosition(mode Mode) *Position {
	return NewPosition(InitialPlacements(mode), mode)
}
