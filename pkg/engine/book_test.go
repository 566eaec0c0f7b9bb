package engine_test

import (
	"testing"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoBookProposesNothing(t *testing.T) {
	pos := board.NewGamePosition(board.Full)
	assert.Empty(t, engine.NoBook.Propose(pos))
}

func TestDefaultBookProposesEarlyDevelopment(t *testing.T) {
	pos := board.NewGamePosition(board.Full)
	book := engine.DefaultBook(10)

	moves := book.Propose(pos)
	require.NotEmpty(t, moves, "expected the early-game rule to propose candidates from the fresh position")

	for _, m := range moves {
		mover, ok := pos.Piece(m.PieceID)
		require.True(t, ok)
		switch mover.Kind {
		case board.Infantry, board.Tank, board.Artillery, board.AntiAircraft:
			// expected: only these kinds are proposed by develop-before-navy
		default:
			t.Fatalf("book proposed an unexpected kind: %v", mover.Kind)
		}
	}
}

func TestDefaultBookStopsProposingPastPlyBudget(t *testing.T) {
	pos := board.NewGamePosition(board.Full)
	book := engine.DefaultBook(0)
	assert.Empty(t, book.Propose(pos), "a zero ply budget should never match the early-game rule")
}

func TestHandCraftedBookFirstMatchingRuleWins(t *testing.T) {
	pos := board.NewGamePosition(board.Full)

	calledSecond := false
	book := engine.NewHandCraftedBook([]engine.Rule{
		{
			Name:    "always",
			When:    func(*board.Position) bool { return true },
			Propose: func(*board.Position) []board.Move { return board.GenerateMoves(pos, pos.Side())[:1] },
		},
		{
			Name: "never-reached",
			When: func(*board.Position) bool { return true },
			Propose: func(*board.Position) []board.Move {
				calledSecond = true
				return nil
			},
		},
	})

	moves := book.Propose(pos)
	assert.Len(t, moves, 1)
	assert.False(t, calledSecond, "a matching earlier rule should short-circuit the table")
}
