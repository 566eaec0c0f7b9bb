package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score, the
// Exact/Lower/Upper transposition-table flag.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// packedMove is the TT's compact move encoding: (pid, dc, dr, bombard) in 8 bytes.
type packedMove struct {
	pieceID int32
	toCol   int8
	toRow   int8
	bombard bool
}

func pack(m board.Move) packedMove {
	return packedMove{pieceID: m.PieceID, toCol: m.ToCol, toRow: m.ToRow, bombard: m.Bombard}
}

func (p packedMove) unpack() board.Move {
	return board.Move{PieceID: p.pieceID, ToCol: p.toCol, ToRow: p.toRow, Bombard: p.bombard}
}

// entry is one transposition-table slot: 64bit key, depth, clamped score, bound, generation
// and a packed best move, matching the lifecycle contract's TT entry layout.
type entry struct {
	key        uint64
	score      int32
	move       packedMove
	depth      int16
	generation uint8
	bound      Bound
}

func (e *entry) empty() bool { return e.key == 0 }

// TranspositionTable caches sub-searches keyed by Zobrist hash, organized in two-slot
// buckets: slot 0 is depth-preferred (replaced on equal/greater depth,
// empty, staleness, or an exact-bound store), slot 1 is always-replace. Reads are deliberately racy:
// a probe either sees a fully-written prior entry or a torn one, which at worst looks like
// a miss, because every store writes key=0 before the payload and the real key last.
type TranspositionTable interface {
	Probe(hash board.ZobristHash) (entry Entry, ok bool)
	Store(hash board.ZobristHash, depth int, score eval.Score, bound Bound, move board.Move)

	// NewGeneration ages the table: depth-preferred slots from a prior generation become
	// eligible for replacement regardless of their stored depth.
	NewGeneration()

	Size() uint64
	Used() float64
}

// Entry is the read-side view of a stored search result.
type Entry struct {
	Depth int
	Score eval.Score
	Bound Bound
	Move  board.Move
}

type bucket struct {
	preferred entry // slot 0: depth-preferred
	always    entry // slot 1: always-replace
}

type table struct {
	slots      []bucket
	mask       uint64
	used       uint64
	generation uint32
}

// NewTranspositionTable allocates the largest power-of-two number of buckets that fits
// sizeBytes. A sizeBytes smaller than one bucket selects 2048MiB, the top entry of the
// {2048,1024,...,8}MiB ladder. Allocation failure is not caught: no smaller size is tried.
func NewTranspositionTable(ctx context.Context, sizeBytes uint64) TranspositionTable {
	const bucketSize = 64 // two ~32-byte entries, rounded to a cache line

	fallbacks := []uint64{2048, 1024, 512, 256, 128, 64, 32, 8}
	n := sizeBytes / bucketSize
	if n == 0 {
		for _, mib := range fallbacks {
			if cand := (mib << 20) / bucketSize; cand > 0 {
				n = cand
				break
			}
		}
	}
	n = uint64(1) << (63 - bits.LeadingZeros64(n|1))

	logw.Infof(ctx, "Allocating %vMB TT with %v buckets", sizeBytes>>20, n)

	return &table{
		slots: make([]bucket, n),
		mask:  n - 1,
	}
}

func (t *table) Probe(hash board.ZobristHash) (Entry, bool) {
	idx := uint64(hash) & t.mask
	b := &t.slots[idx]

	if key := atomic.LoadUint64(&b.preferred.key); key == uint64(hash) {
		e := b.preferred // racy snapshot: at worst a torn read looks like a miss below
		if e.key == key {
			return Entry{Depth: int(e.depth), Score: eval.Score(e.score), Bound: e.bound, Move: e.move.unpack()}, true
		}
	}
	if key := atomic.LoadUint64(&b.always.key); key == uint64(hash) {
		e := b.always
		if e.key == key {
			return Entry{Depth: int(e.depth), Score: eval.Score(e.score), Bound: e.bound, Move: e.move.unpack()}, true
		}
	}
	return Entry{}, false
}

func (t *table) Store(hash board.ZobristHash, depth int, score eval.Score, bound Bound, move board.Move) {
	idx := uint64(hash) & t.mask
	b := &t.slots[idx]
	gen := uint8(t.generation)

	fresh := entry{key: uint64(hash), score: int32(clampScore(score)), move: pack(move), depth: int16(depth), generation: gen, bound: bound}

	p := &b.preferred
	if p.empty() || p.generation != gen || depth >= int(p.depth) || bound == ExactBound {
		if p.empty() {
			atomic.AddUint64(&t.used, 1)
		}
		writeEntry(p, fresh)
		return
	}
	if b.always.empty() {
		atomic.AddUint64(&t.used, 1)
	}
	writeEntry(&b.always, fresh)
}

// writeEntry stores the payload before the key, then the key last, so a concurrent racy
// read can never observe a payload that doesn't belong to the key it just read.
func writeEntry(dst *entry, fresh entry) {
	atomic.StoreUint64(&dst.key, 0)
	dst.score, dst.move, dst.depth, dst.generation, dst.bound = fresh.score, fresh.move, fresh.depth, fresh.generation, fresh.bound
	atomic.StoreUint64(&dst.key, fresh.key)
}

func clampScore(s eval.Score) eval.Score {
	switch {
	case s > 32000:
		return 32000
	case s < -32000:
		return -32000
	default:
		return s
	}
}

func (t *table) NewGeneration() {
	t.generation++
}

func (t *table) Size() uint64 {
	return uint64(len(t.slots)) * 64
}

func (t *table) Used() float64 {
	if len(t.slots) == 0 {
		return 0
	}
	return float64(atomic.LoadUint64(&t.used)) / float64(2*len(t.slots))
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%vMB @ %v%%]", t.Size()>>20, int(100*t.Used()))
}

// NoTranspositionTable is a no-op implementation: Store keeps nothing and every Probe misses.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Probe(board.ZobristHash) (Entry, bool)                       { return Entry{}, false }
func (NoTranspositionTable) Store(board.ZobristHash, int, eval.Score, Bound, board.Move) {}
func (NoTranspositionTable) NewGeneration()                                             {}
func (NoTranspositionTable) Size() uint64                                               { return 0 }
func (NoTranspositionTable) Used() float64                                              { return 0 }

// TranspositionTableFactory builds a table of the requested size.
type TranspositionTableFactory func(ctx context.Context, sizeBytes uint64) TranspositionTable
