package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/engine"
	"github.com/commanderchess/engine/pkg/engine/enginecfg"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameStartsUndecidedWithRedToMove(t *testing.T) {
	ctx := context.Background()
	g := engine.NewGame(ctx, board.Full, enginecfg.Easy)

	assert.Equal(t, board.Undecided, g.Outcome())
	assert.Equal(t, board.Full, g.Mode())
	assert.Equal(t, board.Red, g.Position().Side())
}

func TestApplyMoveRejectsIllegalMove(t *testing.T) {
	ctx := context.Background()
	g := engine.NewGame(ctx, board.Full, enginecfg.Easy)

	// PieceID -1 can never belong to a piece on the board.
	status := g.ApplyMove(ctx, board.Move{PieceID: -1, ToCol: 0, ToRow: 0})
	assert.False(t, status.OK)
	assert.NotEmpty(t, status.Error)
}

func TestApplyMoveAppliesALegalMoveAndAdvancesTheTurn(t *testing.T) {
	ctx := context.Background()
	g := engine.NewGame(ctx, board.Full, enginecfg.Easy)

	side := g.Position().Side()
	moves := board.GenerateMoves(g.Position(), side)
	require.NotEmpty(t, moves)

	status := g.ApplyMove(ctx, moves[0])
	require.True(t, status.OK, status.Error)
	assert.False(t, status.GameOver)
	assert.NotEqual(t, side, g.Position().Side(), "turn should pass to the opponent after a legal move")
}

func TestApplyMoveRejectsOutOfTurnMove(t *testing.T) {
	ctx := context.Background()
	g := engine.NewGame(ctx, board.Full, enginecfg.Easy)

	side := g.Position().Side()
	moves := board.GenerateMoves(g.Position(), side)
	require.NotEmpty(t, moves)
	require.True(t, g.ApplyMove(ctx, moves[0]).OK)

	// Moving the same piece again right after it moved is an out-of-turn move for the
	// side that just moved, and must be rejected.
	stalePiece, ok := g.Position().Piece(moves[0].PieceID)
	require.True(t, ok)
	status := g.ApplyMove(ctx, board.Move{PieceID: stalePiece.ID, ToCol: moves[0].ToCol, ToRow: moves[0].ToRow})
	assert.False(t, status.OK)
}

func TestBotMoveAppliesALegalMoveUnderEasyDifficulty(t *testing.T) {
	ctx := context.Background()
	g := engine.NewGame(ctx, board.Full, enginecfg.Easy, engine.WithBudget(enginecfg.Budget{MaxDepth: 2, TimeLimit: 500 * time.Millisecond}))

	side := g.Position().Side()
	move := g.BotMove(ctx)

	require.False(t, move.IsNoMove())
	assert.NotEqual(t, side, g.Position().Side(), "the bot's move should have advanced the turn")
}

func TestBotMoveUsesMCTSUnderHardDifficulty(t *testing.T) {
	ctx := context.Background()
	g := engine.NewGame(ctx, board.Full, enginecfg.Hard, engine.WithBudget(enginecfg.Budget{MaxDepth: 2, TimeLimit: 300 * time.Millisecond}))

	side := g.Position().Side()
	move := g.BotMove(ctx)

	require.False(t, move.IsNoMove())
	assert.NotEqual(t, side, g.Position().Side())
}

func TestSerializeStateReflectsPiecesAndLegalMoves(t *testing.T) {
	ctx := context.Background()
	g := engine.NewGame(ctx, board.Full, enginecfg.Medium)

	state := g.SerializeState()
	assert.NotEmpty(t, state.Pieces)
	assert.Equal(t, "red", state.SideToMove)
	assert.False(t, state.GameOver)
	assert.NotEmpty(t, state.LegalMoves)
	assert.Equal(t, 0, state.PlyCount)
}

func TestSerializeStateHasNoLegalMovesOnceGameIsOver(t *testing.T) {
	ctx := context.Background()
	g := engine.NewGame(ctx, board.Full, enginecfg.Easy,
		engine.WithBudget(enginecfg.Budget{MaxDepth: 2, TimeLimit: 200 * time.Millisecond}),
		engine.WithOverrides(enginecfg.Overrides{SingleThread: lang.Some(true)}))

	// Drive the game to completion by repeatedly letting the bot move both sides; cap
	// the iterations generously so a stalled search can't hang the test.
	for i := 0; i < 60 && g.Outcome() == board.Undecided; i++ {
		if g.BotMove(ctx).IsNoMove() {
			break
		}
	}

	state := g.SerializeState()
	if state.GameOver {
		assert.Empty(t, state.LegalMoves)
		assert.NotEmpty(t, state.Result)
	}
}
