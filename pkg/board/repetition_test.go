package board_test

import (
	"testing"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestRepetitionHistoryThreefold(t *testing.T) {
	h := board.NewRepetitionHistory()
	hash := board.ZobristHash(0xabc)

	h.Push(hash)
	assert.False(t, h.IsThreefold(hash))
	h.Push(hash)
	assert.False(t, h.IsThreefold(hash))
	h.Push(hash)
	assert.True(t, h.IsThreefold(hash))
}

func TestRepetitionHistoryPopReversesPush(t *testing.T) {
	h := board.NewRepetitionHistory()
	hash := board.ZobristHash(1)

	h.Push(hash)
	h.Push(hash)
	assert.Equal(t, 2, h.Count(hash))

	h.Pop()
	assert.Equal(t, 1, h.Count(hash))
}

func TestRepetitionHistoryBoundedWindow(t *testing.T) {
	h := board.NewRepetitionHistory()
	first := board.ZobristHash(42)
	h.Push(first)

	for i := 0; i < 2000; i++ {
		h.Push(board.ZobristHash(i + 1000))
	}

	assert.Equal(t, 0, h.Count(first), "entries older than the tracked window must be evicted")
}
