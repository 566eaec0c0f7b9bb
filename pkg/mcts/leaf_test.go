package mcts

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

func TestBlendWeightFavorsAlphaBetaOverRawEval(t *testing.T) {
	cpuAB, cpuRaw := blendWeight(CPU)
	assert.Equal(t, 7, cpuAB)
	assert.Equal(t, 1, cpuRaw)

	gpuAB, gpuRaw := blendWeight(WebGPU)
	assert.Equal(t, 3, gpuAB)
	assert.Equal(t, 1, gpuRaw)
}

func TestLeafValueFavorsSideWithFreeCapture(t *testing.T) {
	ctx := context.Background()
	placements := []board.Placement{
		{Side: board.Red, Kind: board.Commander, Col: 5, Row: 0},
		{Side: board.Red, Kind: board.Artillery, Col: 5, Row: 3},
		{Side: board.Blue, Kind: board.Commander, Col: 5, Row: 11},
		{Side: board.Blue, Kind: board.Infantry, Col: 5, Row: 5},
	}
	pos := board.NewPosition(placements, board.Full)
	zt := board.NewZobristTable(0)
	hash := zt.Hash(pos)
	tt := search.NewTranspositionTable(ctx, 1<<20)
	rep := board.NewRepetitionHistory()
	rep.Push(hash)
	sctx := search.NewContext(zt, tt, eval.NewRandom(0, 0), rep, time.Now().Add(2*time.Second), atomic.NewBool(false))

	v := leafValue(ctx, sctx, pos, hash, board.Red, CPU)
	assert.Greater(t, int(v), 0, "Red holds a free capture, its leaf value should favor Red")
}
