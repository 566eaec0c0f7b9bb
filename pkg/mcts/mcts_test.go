package mcts_test

import (
	"context"
	"testing"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/mcts"
	"github.com/commanderchess/engine/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectMoveReturnsNoMoveWithoutLegalMoves(t *testing.T) {
	ctx := context.Background()
	zt := board.NewZobristTable(0)

	// The Red Commander is boxed in by its own immobile Headquarters, so Red has no legal
	// move at all.
	placements := []board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Red, Kind: board.Headquarters, Col: 4, Row: 0},
		{Side: board.Red, Kind: board.Headquarters, Col: 6, Row: 0},
		{Side: board.Red, Kind: board.Headquarters, Col: 5, Row: 1},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
	}
	pos := board.NewPosition(placements, board.Full)
	rep := board.NewRepetitionHistory()
	rep.Push(zt.Hash(pos))
	tt := search.NewTranspositionTable(ctx, 1<<20)

	move, stats := mcts.SelectMove(ctx, zt, pos, rep, tt, eval.NewRandom(0, 0), mcts.Options{
		Deadline: time.Now().Add(100 * time.Millisecond),
		Workers:  1,
	})

	assert.True(t, move.Equals(board.NoMove))
	assert.Equal(t, mcts.Stats{}, stats)
}

func TestSelectMovePrefersFreeCapture(t *testing.T) {
	ctx := context.Background()
	zt := board.NewZobristTable(0)

	// Same shape as the alpha-beta favorable-capture case: Red can win an undefended
	// Infantry for free, Blue has nothing comparable.
	placements := []board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Red, Kind: board.Artillery, Col: 5, Row: 3},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
		{Side: board.Blue, Kind: board.Infantry, Col: 5, Row: 5},
	}
	pos := board.NewPosition(placements, board.Full)
	rep := board.NewRepetitionHistory()
	rep.Push(zt.Hash(pos))
	tt := search.NewTranspositionTable(ctx, 1<<20)

	move, stats := mcts.SelectMove(ctx, zt, pos, rep, tt, eval.NewRandom(0, 0), mcts.Options{
		Deadline: time.Now().Add(300 * time.Millisecond),
		Workers:  2,
	})

	require.False(t, move.Equals(board.NoMove))
	assert.EqualValues(t, 5, move.ToCol)
	assert.EqualValues(t, 5, move.ToRow)
	assert.Greater(t, stats.Simulations, 0)
}

func TestSelectMoveRespectsDeadline(t *testing.T) {
	ctx := context.Background()
	pos := board.NewGamePosition(board.Full)
	zt := board.NewZobristTable(0)
	rep := board.NewRepetitionHistory()
	rep.Push(zt.Hash(pos))
	tt := search.NewTranspositionTable(ctx, 1<<20)

	start := time.Now()
	move, _ := mcts.SelectMove(ctx, zt, pos, rep, tt, eval.NewRandom(0, 0), mcts.Options{
		Deadline: time.Now().Add(150 * time.Millisecond),
		Workers:  2,
	})
	elapsed := time.Since(start)

	require.False(t, move.Equals(board.NoMove))
	assert.Less(t, elapsed, 2*time.Second, "SelectMove should return shortly after its deadline")
}
