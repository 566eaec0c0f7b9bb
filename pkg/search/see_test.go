package search_test

import (
	"testing"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestSEENonCaptureIsZero(t *testing.T) {
	placements := []board.Placement{
		{Side: board.Red, Kind: board.Infantry, Col: 5, Row: 3},
	}
	pos := board.NewPosition(placements, board.Full)
	zt := board.NewZobristTable(0)

	score := search.SEE(zt, pos, board.Move{PieceID: pos.AllAlive()[0].ID, ToCol: 5, ToRow: 4})
	assert.Zero(t, score)
}

func TestSEEUndefendedCaptureGainsFullValue(t *testing.T) {
	placements := []board.Placement{
		{Side: board.Red, Kind: board.Tank, Col: 4, Row: 4},
		{Side: board.Blue, Kind: board.Infantry, Col: 5, Row: 4},
	}
	pos := board.NewPosition(placements, board.Full)
	zt := board.NewZobristTable(0)

	mover := pos.AllAlive()[0]
	victim := pos.AllAlive()[1]

	score := search.SEE(zt, pos, board.Move{PieceID: mover.ID, ToCol: 5, ToRow: 4})
	assert.Equal(t, eval.PieceValue(victim), score)
}

func TestSEELosingCaptureIsNegative(t *testing.T) {
	// Red Tank captures a Blue Infantry defended by a Blue Tank: the exchange ends with
	// Red down the value difference between the Tank it lost and the Infantry it won.
	placements := []board.Placement{
		{Side: board.Red, Kind: board.Tank, Col: 4, Row: 4},
		{Side: board.Blue, Kind: board.Infantry, Col: 5, Row: 4},
		{Side: board.Blue, Kind: board.Tank, Col: 6, Row: 4},
	}
	pos := board.NewPosition(placements, board.Full)
	zt := board.NewZobristTable(0)

	mover := pos.AllAlive()[0]
	score := search.SEE(zt, pos, board.Move{PieceID: mover.ID, ToCol: 5, ToRow: 4})
	assert.Less(t, int(score), int(eval.PieceValue(pos.AllAlive()[1])))
}
