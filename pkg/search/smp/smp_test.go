package smp_test

import (
	"context"
	"testing"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
	"github.com/commanderchess/engine/pkg/search/searchctl"
	"github.com/commanderchess/engine/pkg/search/smp"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLauncherProducesAPVWithinDepthLimit(t *testing.T) {
	ctx := context.Background()
	pos := board.NewGamePosition(board.Full)
	zt := board.NewZobristTable(0)
	rep := board.NewRepetitionHistory()
	rep.Push(zt.Hash(pos))
	tt := search.NewTranspositionTable(ctx, 1<<20)

	opt := searchctl.Options{DepthLimit: lang.Some(uint(2)), Threads: 2}
	handle, out := smp.Launcher{}.Launch(ctx, zt, pos, rep, tt, eval.NewRandom(0, 0), opt)

	var last search.PV
	for pv := range out {
		last = pv
	}
	require.NotEmpty(t, last.Moves)
	assert.LessOrEqual(t, last.Depth, 2)

	// Halt after natural completion should still return the same PV without blocking.
	assert.Equal(t, last, handle.Halt())
}

func TestLauncherHaltStopsWorkersPromptly(t *testing.T) {
	ctx := context.Background()
	pos := board.NewGamePosition(board.Full)
	zt := board.NewZobristTable(0)
	rep := board.NewRepetitionHistory()
	rep.Push(zt.Hash(pos))
	tt := search.NewTranspositionTable(ctx, 1<<20)

	opt := searchctl.Options{Threads: 2}
	handle, out := smp.Launcher{}.Launch(ctx, zt, pos, rep, tt, eval.NewRandom(0, 0), opt)

	time.Sleep(20 * time.Millisecond) // let depth 1 complete on at least one worker

	// Halt signals every worker to stop; the launcher goroutine then posts whatever PV it
	// last had to out before closing it, so Halt's own return is the reliable read.
	pv := handle.Halt()
	assert.NotEmpty(t, pv.Moves)

	for range out {
	}
}
