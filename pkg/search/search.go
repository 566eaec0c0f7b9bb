// Package search implements the alpha-beta/PVS tree search: the transposition table,
// move ordering, pruning and quiescence. The iterative-deepening root drivers live in the
// subpackages searchctl (single-thread) and smp (Lazy SMP).
package search

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"go.uber.org/atomic"
)

// ErrHalted indicates the search was stopped before completing its current iteration.
var ErrHalted = errors.New("search halted")

// PV is the principal variation produced by one completed iterative-deepening iteration.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // TT utilization [0;1]
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v",
		p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), board.FormatMoves(p.Moves, func(m board.Move) string { return m.String() }))
}

// BestMove returns the PV's first move, or the no-move sentinel if the PV is empty.
func (p PV) BestMove() board.Move {
	if len(p.Moves) == 0 {
		return board.NoMove
	}
	return p.Moves[0]
}

// maxPly bounds the per-ply tables (killers, eval stack):
// no legal game tree approaches this depth, so a fixed array is simpler than a growable one.
const maxPly = 128

// nodeCheckInterval is how often (in nodes) a search thread polls the deadline and stop
// flag.
const nodeCheckInterval = 256

// killerSlots is the number of killer moves remembered per ply.
const killerSlots = 2

// contKey indexes the continuation-history table by the previous move's destination and
// this move's (kind, destination).
type contKey struct {
	prevCol, prevRow int8
	kind             board.Kind
	col, row         int8
}

// Context is the per-search-thread state used in place of thread-local globals:
// killers, history, continuation history, counter-moves, the
// deadline, the shared stop flag and the search-path repetition stack. One Context is
// created per Lazy SMP worker; nothing here is shared except via the pointers to
// the transposition table and StopFlag. There is no PV table: the PV is rebuilt from the
// transposition table after each iteration (ReconstructPV).
type Context struct {
	Zobrist *board.ZobristTable
	TT      TranspositionTable
	Noise   eval.Random
	Eval    *eval.HandCrafted

	// Deadline is the hard wall-clock cutoff; StopFlag is shared across Lazy SMP workers.
	Deadline time.Time
	StopFlag *atomic.Bool

	// Repetition is seeded with the game's own hash history and pushed/popped alongside
	// make/unmake for the duration of the search (the search design "Repetition in search").
	Repetition *board.RepetitionHistory

	Nodes uint64

	killers  [maxPly][killerSlots]board.Move
	evalAt   [maxPly]eval.Score
	evalSet  [maxPly]bool
	history  [board.NumSides][board.NumKinds][board.NumCols][board.NumRows]int32
	contHist map[contKey]int32
	counter  map[board.Move]board.Move // keyed by the previous move (id+destination)
}

// NewContext constructs a fresh, per-thread search context sharing the given TT and stop
// flag (nil StopFlag means single-threaded: a private flag is allocated).
func NewContext(zt *board.ZobristTable, tt TranspositionTable, noise eval.Random, rep *board.RepetitionHistory, deadline time.Time, stop *atomic.Bool) *Context {
	if stop == nil {
		stop = atomic.NewBool(false)
	}
	return &Context{
		Zobrist:    zt,
		TT:         tt,
		Noise:      noise,
		Eval:       eval.NewHandCrafted(),
		Deadline:   deadline,
		StopFlag:   stop,
		Repetition: rep,
		contHist:   map[contKey]int32{},
		counter:    map[board.Move]board.Move{},
	}
}

// timeUp reports whether the hard deadline has passed or the shared stop flag is set.
// Called every nodeCheckInterval nodes.
func (c *Context) timeUp() bool {
	if c.StopFlag.Load() {
		return true
	}
	if !c.Deadline.IsZero() && time.Now().After(c.Deadline) {
		c.StopFlag.Store(true)
		return true
	}
	return false
}

func (c *Context) recordKiller(ply int, m board.Move) {
	if ply >= maxPly {
		return
	}
	if c.killers[ply][0].Equals(m) {
		return
	}
	c.killers[ply][1] = c.killers[ply][0]
	c.killers[ply][0] = m
}

func (c *Context) isKiller(ply int, m board.Move) bool {
	if ply >= maxPly {
		return false
	}
	return c.killers[ply][0].Equals(m) || c.killers[ply][1].Equals(m)
}

func (c *Context) addHistory(side board.Side, k board.Kind, m board.Move, bonus int32) {
	h := &c.history[side][k][m.ToCol][m.ToRow]
	*h += bonus
	if *h > 1<<20 {
		c.agedDownHistory()
	}
}

// agedDownHistory halves every history entry, preventing unbounded growth across a long
// search without losing relative ordering.
func (c *Context) agedDownHistory() {
	for s := range c.history {
		for k := range c.history[s] {
			for dc := range c.history[s][k] {
				for dr := range c.history[s][k][dc] {
					c.history[s][k][dc][dr] /= 2
				}
			}
		}
	}
}

func (c *Context) historyOf(side board.Side, k board.Kind, m board.Move) int32 {
	return c.history[side][k][m.ToCol][m.ToRow]
}

// HistoryOf exposes the butterfly history score for (side, k, m), for callers outside the
// package that want to factor search history into their own move ordering -- namely the
// MCTS policy prior's history term.
func (c *Context) HistoryOf(side board.Side, k board.Kind, m board.Move) int32 {
	return c.historyOf(side, k, m)
}

// SeedRootNoise perturbs side's history table with small random deltas, giving a Lazy SMP
// worker (id > 0) a root move order that differs from worker 0's without touching the
// actual legality/ordering logic -- the diversification the root-driver design calls "shuffling the
// first few root moves for thread id > 0", applied via the existing history-ordering
// channel instead of a second, root-only ordering path.
func (c *Context) SeedRootNoise(rnd *rand.Rand, side board.Side) {
	for k := board.Kind(0); k < board.NumKinds; k++ {
		for col := int8(0); col < board.NumCols; col++ {
			for row := int8(0); row < board.NumRows; row++ {
				c.history[side][k][col][row] += int32(rnd.Intn(41) - 20)
			}
		}
	}
}

func contKeyOf(prev, m board.Move, k board.Kind) contKey {
	return contKey{prevCol: prev.ToCol, prevRow: prev.ToRow, kind: k, col: m.ToCol, row: m.ToRow}
}

func (c *Context) addContinuation(prev, m board.Move, k board.Kind, bonus int32) {
	if prev.IsNoMove() {
		return
	}
	c.contHist[contKeyOf(prev, m, k)] += bonus
}

func (c *Context) continuationOf(prev, m board.Move, k board.Kind) int32 {
	if prev.IsNoMove() {
		return 0
	}
	return c.contHist[contKeyOf(prev, m, k)]
}

func (c *Context) setCounter(prev, m board.Move) {
	if prev.IsNoMove() {
		return
	}
	c.counter[prev] = m
}

func (c *Context) counterOf(prev board.Move) (board.Move, bool) {
	m, ok := c.counter[prev]
	return m, ok
}

func (c *Context) setEval(ply int, s eval.Score) {
	if ply < maxPly {
		c.evalAt[ply], c.evalSet[ply] = s, true
	}
}

// improving reports whether the static eval at ply is at least as good as two plies ago,
// the definition; resets to true at the root (ply 0/1, nothing to compare against).
func (c *Context) improving(ply int, s eval.Score) bool {
	if ply < 2 || !c.evalSet[ply-2] {
		return true
	}
	return s >= c.evalAt[ply-2]
}
