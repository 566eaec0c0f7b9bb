package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
	"github.com/commanderchess/engine/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterativeLaunchStopsAtDepthLimit(t *testing.T) {
	ctx := context.Background()
	pos := board.NewGamePosition(board.Full)
	zt := board.NewZobristTable(0)
	rep := board.NewRepetitionHistory()
	rep.Push(zt.Hash(pos))
	tt := search.NewTranspositionTable(ctx, 1<<20)

	opt := searchctl.Options{DepthLimit: lang.Some(uint(2))}
	handle, out := searchctl.Iterative{}.Launch(ctx, zt, pos, rep, tt, eval.NewRandom(0, 0), opt)

	var last search.PV
	for pv := range out {
		last = pv
		assert.LessOrEqual(t, pv.Depth, 2)
	}
	handle.Halt()

	require.NotEmpty(t, last.Moves)
	assert.Equal(t, 2, last.Depth)
}

func TestIterativeHandleHaltReturnsLastCompletedPV(t *testing.T) {
	ctx := context.Background()
	pos := board.NewGamePosition(board.Full)
	zt := board.NewZobristTable(0)
	rep := board.NewRepetitionHistory()
	rep.Push(zt.Hash(pos))
	tt := search.NewTranspositionTable(ctx, 1<<20)

	opt := searchctl.Options{TimeControl: lang.Some(searchctl.TimeControl{Soft: 50 * time.Millisecond, Hard: 2 * time.Second})}
	handle, out := searchctl.Iterative{}.Launch(ctx, zt, pos, rep, tt, eval.NewRandom(0, 0), opt)

	<-out // wait for the first completed iteration

	pv := handle.Halt()
	assert.NotEmpty(t, pv.Moves)

	// Halt is idempotent.
	pv2 := handle.Halt()
	assert.Equal(t, pv, pv2)
}
