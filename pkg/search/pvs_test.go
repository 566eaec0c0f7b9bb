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

func newSearchContext(pos *board.Position) (*search.Context, *board.ZobristTable, board.ZobristHash) {
	zt := board.NewZobristTable(0)
	hash := zt.Hash(pos)
	tt := search.NewTranspositionTable(context.Background(), 1<<20)
	rep := board.NewRepetitionHistory()
	rep.Push(hash)
	stop := atomic.NewBool(false)
	return search.NewContext(zt, tt, eval.NewRandom(0, 0), rep, time.Now().Add(5*time.Second), stop), zt, hash
}

func TestNegamaxInitialPositionIsRoughlySymmetric(t *testing.T) {
	ctx := context.Background()
	pos := board.NewGamePosition(board.Full)
	sctx, _, hash := newSearchContext(pos)

	score := search.PVS{}.Negamax(ctx, sctx, pos, hash, 2, 0, eval.NegInf, eval.Inf, board.NoMove)

	assert.Less(t, int(eval.Abs(score)), 300, "initial position should be close to balanced, got %v", score)
}

func TestNegamaxPrefersFreeCapture(t *testing.T) {
	ctx := context.Background()

	// Red Artillery can capture an undefended Blue Infantry sitting two squares away;
	// Blue has no reply anywhere near as good.
	placements := []board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Red, Kind: board.Artillery, Col: 5, Row: 3},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
		{Side: board.Blue, Kind: board.Infantry, Col: 5, Row: 5},
	}
	pos := board.NewPosition(placements, board.Full)
	sctx, _, hash := newSearchContext(pos)

	score := search.PVS{}.Negamax(ctx, sctx, pos, hash, 3, 0, eval.NegInf, eval.Inf, board.NoMove)
	assert.Greater(t, int(score), 0, "Red should find the favorable capture, got %v", score)
}

func TestNegamaxRespectsHardDeadline(t *testing.T) {
	ctx := context.Background()
	pos := board.NewGamePosition(board.Full)

	zt := board.NewZobristTable(0)
	hash := zt.Hash(pos)
	tt := search.NewTranspositionTable(ctx, 1<<20)
	rep := board.NewRepetitionHistory()
	rep.Push(hash)
	stop := atomic.NewBool(false)
	sctx := search.NewContext(zt, tt, eval.NewRandom(0, 0), rep, time.Now().Add(-time.Second), stop)

	// Deadline already elapsed: search should bail out quickly rather than run to depth.
	done := make(chan struct{})
	go func() {
		search.PVS{}.Negamax(ctx, sctx, pos, hash, 6, 0, eval.NegInf, eval.Inf, board.NoMove)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Negamax did not return promptly after its deadline elapsed")
	}
}
