package board_test

import (
	"testing"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestCheckWinFullModeCommanderCaptured(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
	}, board.Full)

	result := board.CheckWin(pos, board.Red, board.Full)
	assert.Equal(t, board.WinFor(board.Red), result.Outcome)
}

func TestCheckWinFullModeUndecided(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
	}, board.Full)

	result := board.CheckWin(pos, board.Red, board.Full)
	assert.False(t, result.IsOver())
}

func TestCheckWinMarineMode(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
	}, board.Marine)

	result := board.CheckWin(pos, board.Red, board.Marine)
	assert.Equal(t, board.WinFor(board.Red), result.Outcome)
}

func TestCheckWinAirMode(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
	}, board.Air)

	result := board.CheckWin(pos, board.Red, board.Air)
	assert.Equal(t, board.WinFor(board.Red), result.Outcome)
}

func TestCheckWinLandMode(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
	}, board.LandOnly)

	result := board.CheckWin(pos, board.Red, board.LandOnly)
	assert.Equal(t, board.WinFor(board.Red), result.Outcome)
}
