package board_test

import (
	"testing"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMissileRelocateAndStrikeDoNotOverlap guards the fix for an ambiguity where a
// Missile's slide and its stand-and-strike could both target the same enemy-occupied
// square: relocation must only ever reach empty squares, and capturing is exclusively a
// strike that leaves the Missile in place.
func TestMissileRelocateAndStrikeDoNotOverlap(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
		{Side: board.Red, Kind: board.Missile, Col: 8, Row: 8},
		{Side: board.Blue, Kind: board.Infantry, Col: 8, Row: 9},
	}, board.Full)

	var missile board.Piece
	for _, p := range pos.AllAlive() {
		if p.Kind == board.Missile {
			missile = p
		}
	}

	moves := board.LegalDestinations(pos, missile)
	var toEnemy []board.Move
	for _, m := range moves {
		if m.ToCol == 8 && m.ToRow == 9 {
			toEnemy = append(toEnemy, m)
		}
	}
	require.Len(t, toEnemy, 1, "exactly one move onto the enemy square: a strike")
	assert.True(t, toEnemy[0].Bombard)
}

// TestAirForceCannotGenerateIntoAntiAirCoverage checks spec's "rejected by apply_move with
// error=illegal move" rule is enforced at generation time for a non-heroic Air Force.
func TestAirForceCannotGenerateIntoAntiAirCoverage(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
		{Side: board.Red, Kind: board.AirForce, Col: 8, Row: 4},
		{Side: board.Blue, Kind: board.AntiAircraft, Col: 8, Row: 9},
	}, board.Full)

	var af board.Piece
	for _, p := range pos.AllAlive() {
		if p.Kind == board.AirForce {
			af = p
		}
	}

	for _, m := range board.LegalDestinations(pos, af) {
		assert.False(t, m.ToCol == 8 && m.ToRow == 8, "covered square must not be a legal destination")
	}

	zt := board.NewZobristTable(11)
	_, _, err := board.MakeMove(pos, zt, zt.Hash(pos), board.Move{PieceID: af.ID, ToCol: 8, ToRow: 8})
	assert.Error(t, err)
}

// TestAirForceBombardmentReturn checks the case the anti-air filter cannot pre-empt: a
// non-heroic Air Force captures a land piece whose square is covered by an ordinary enemy
// recapture threat (not anti-air), and is relocated back to its origin.
func TestAirForceBombardmentReturn(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
		{Side: board.Red, Kind: board.AirForce, Col: 8, Row: 4},
		{Side: board.Blue, Kind: board.Infantry, Col: 8, Row: 8},
		{Side: board.Blue, Kind: board.Militia, Col: 8, Row: 9},
	}, board.Full)

	var af, target board.Piece
	for _, p := range pos.AllAlive() {
		if p.Kind == board.AirForce {
			af = p
		}
		if p.Side == board.Blue && p.Kind == board.Infantry {
			target = p
		}
	}

	zt := board.NewZobristTable(13)
	_, u, err := board.MakeMove(pos, zt, zt.Hash(pos), board.Move{PieceID: af.ID, ToCol: 8, ToRow: 8})
	require.NoError(t, err)
	assert.True(t, u.BombardReturn())
	assert.False(t, u.Kamikaze())
	assert.False(t, pos.IsAlive(target.ID))

	back, ok := pos.Piece(af.ID)
	require.True(t, ok)
	assert.Equal(t, int8(8), back.Col)
	assert.Equal(t, int8(4), back.Row)
	_, occupied := pos.TopAt(board.Square{Col: 8, Row: 8})
	assert.False(t, occupied)
}

// TestHeroPromotionOnThreateningCommander checks that a non-hero Infantry which moves to
// directly threaten the enemy Commander is promoted to hero.
func TestHeroPromotionOnThreateningCommander(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 8, Row: 10},
		{Side: board.Red, Kind: board.Infantry, Col: 8, Row: 8},
	}, board.Full)

	var infantry board.Piece
	for _, p := range pos.AllAlive() {
		if p.Kind == board.Infantry {
			infantry = p
		}
	}

	zt := board.NewZobristTable(17)
	_, _, err := board.MakeMove(pos, zt, zt.Hash(pos), board.Move{PieceID: infantry.ID, ToCol: 8, ToRow: 9})
	require.NoError(t, err)

	after, ok := pos.Piece(infantry.ID)
	require.True(t, ok)
	assert.True(t, after.Hero)
}

// TestCommanderFlyingGeneralTaboo checks that a Commander may not end its move facing the
// enemy Commander on an open file or rank.
func TestCommanderFlyingGeneralTaboo(t *testing.T) {
	pos := board.NewPosition([]board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 8, Row: 10},
	}, board.Full)

	var red board.Piece
	for _, p := range pos.AllAlive() {
		if p.Side == board.Red {
			red = p
		}
	}

	for _, m := range board.LegalDestinations(pos, red) {
		assert.False(t, m.ToCol == 8 && m.ToRow == 0, "sliding onto the enemy's open file must be excluded by the flying-general taboo")
	}
}
