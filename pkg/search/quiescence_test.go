package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
)

// Negamax called with depth 0 drops straight into quiescence, so this exercises the
// capture-search path without needing an exported entry point of its own.
func TestQuiescenceResolvesHangingCapture(t *testing.T) {
	ctx := context.Background()

	// Both Commanders are on the board: in Full mode a side without one has already lost.
	placements := []board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 6, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 4, Row: 11},
		{Side: board.Red, Kind: board.Infantry, Col: 4, Row: 4},
		{Side: board.Blue, Kind: board.Infantry, Col: 5, Row: 4},
	}
	pos := board.NewPosition(placements, board.Full)

	zt := board.NewZobristTable(0)
	hash := zt.Hash(pos)
	tt := search.NewTranspositionTable(ctx, 1<<16)
	rep := board.NewRepetitionHistory()
	rep.Push(hash)
	sctx := search.NewContext(zt, tt, eval.NewRandom(0, 0), rep, time.Now().Add(time.Second), atomic.NewBool(false))

	score := search.PVS{}.Negamax(ctx, sctx, pos, hash, 0, 0, eval.NegInf, eval.Inf, board.NoMove)
	assert.Greater(t, int(score), 0, "quiescence should find the free capture, got %v", score)
}

func TestQuiescenceStandsPatWhenNoCapturesHelp(t *testing.T) {
	ctx := context.Background()

	placements := []board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
	}
	pos := board.NewPosition(placements, board.Full)

	zt := board.NewZobristTable(0)
	hash := zt.Hash(pos)
	tt := search.NewTranspositionTable(ctx, 1<<16)
	rep := board.NewRepetitionHistory()
	rep.Push(hash)
	sctx := search.NewContext(zt, tt, eval.NewRandom(0, 0), rep, time.Now().Add(time.Second), atomic.NewBool(false))

	score := search.PVS{}.Negamax(ctx, sctx, pos, hash, 0, 0, eval.NegInf, eval.Inf, board.NoMove)
	assert.Less(t, int(eval.Abs(score)), 100, "mirrored position with no captures should be close to even, got %v", score)
}
