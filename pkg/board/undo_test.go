package board_test

import (
	"testing"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshGame() (*board.Position, *board.ZobristTable, board.ZobristHash) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
		{Side: board.Red, Kind: board.Infantry, Col: 8, Row: 8},
		{Side: board.Blue, Kind: board.Infantry, Col: 8, Row: 9},
	}, board.Full)
	zt := board.NewZobristTable(7)
	return pos, zt, zt.Hash(pos)
}

// TestIncrementalMakeUnmakeRoundTrip exercises the common incremental-undo path (a simple
// non-capturing step): the position, side to move and hash must all return to exactly
// their pre-move values.
func TestIncrementalMakeUnmakeRoundTrip(t *testing.T) {
	pos, zt, hash := freshGame()
	before := zt.Hash(pos)
	beforeSide := pos.Side()

	newHash, u, err := board.MakeMove(pos, zt, hash, board.Move{PieceID: 2, ToCol: 8, ToRow: 7})
	require.NoError(t, err)
	assert.NotEqual(t, before, newHash)
	assert.NotEqual(t, beforeSide, pos.Side())

	restored := board.UnmakeMove(pos, u)
	assert.Equal(t, hash, restored)
	assert.Equal(t, beforeSide, pos.Side())
	assert.Equal(t, before, zt.Hash(pos))
	assert.NoError(t, pos.CheckInvariants())
}

// TestSnapshotMakeUnmakeRoundTrip exercises the snapshot-undo path via a carry cascade
// (the mover has passengers, so needsSnapshot selects the whole-roster strategy).
func TestSnapshotMakeUnmakeRoundTrip(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
		{Side: board.Red, Kind: board.Navy, Col: 2, Row: 8},
		{Side: board.Red, Kind: board.Infantry, Col: 3, Row: 8},
	}, board.Full)
	zt := board.NewZobristTable(9)
	hash := zt.Hash(pos)

	var navyID, infantryID int32
	for _, p := range pos.AllAlive() {
		if p.Kind == board.Navy {
			navyID = p.ID
		}
		if p.Kind == board.Infantry {
			infantryID = p.ID
		}
	}

	hash, _, err := board.MakeMove(pos, zt, hash, board.Move{PieceID: infantryID, ToCol: 2, ToRow: 8})
	require.NoError(t, err)
	before := zt.Hash(pos)

	newHash, u, err := board.MakeMove(pos, zt, hash, board.Move{PieceID: navyID, ToCol: 1, ToRow: 8})
	require.NoError(t, err)
	assert.Equal(t, zt.Hash(pos), newHash, "snapshot path must match a from-scratch recompute")

	restored := board.UnmakeMove(pos, u)
	assert.Equal(t, before, restored)
	assert.Equal(t, before, zt.Hash(pos))

	passenger, ok := pos.Piece(infantryID)
	require.True(t, ok)
	assert.Equal(t, int8(2), passenger.Col)
	assert.Equal(t, int8(8), passenger.Row)
	assert.NoError(t, pos.CheckInvariants())
}

// TestCaptureUnmakeRestoresCapturedPiece checks that a captured piece comes back alive,
// on its original square, after UnmakeMove.
func TestCaptureUnmakeRestoresCapturedPiece(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
		{Side: board.Red, Kind: board.Infantry, Col: 8, Row: 8},
		{Side: board.Blue, Kind: board.Infantry, Col: 8, Row: 9},
	}, board.Full)
	zt := board.NewZobristTable(3)
	hash := zt.Hash(pos)

	var attackerID, victimID int32
	for _, p := range pos.AllAlive() {
		if p.Side == board.Red && p.Kind == board.Infantry {
			attackerID = p.ID
		}
		if p.Side == board.Blue && p.Kind == board.Infantry {
			victimID = p.ID
		}
	}

	_, u, err := board.MakeMove(pos, zt, hash, board.Move{PieceID: attackerID, ToCol: 8, ToRow: 9})
	require.NoError(t, err)
	assert.False(t, pos.IsAlive(victimID))
	assert.True(t, u.WasCapture())
	assert.Equal(t, board.Blue, u.CapturedSide())

	board.UnmakeMove(pos, u)
	assert.True(t, pos.IsAlive(victimID))
	victim, _ := pos.Piece(victimID)
	assert.Equal(t, int8(9), victim.Row)
	assert.NoError(t, pos.CheckInvariants())
}

func TestIllegalMoveRejected(t *testing.T) {
	pos, zt, hash := freshGame()
	_, _, err := board.MakeMove(pos, zt, hash, board.Move{PieceID: 2, ToCol: 0, ToRow: 0})
	assert.Error(t, err)
}
