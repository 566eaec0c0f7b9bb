// Package smp implements the Lazy SMP multi-threaded root driver: N
// worker goroutines share the transposition table and a deadline/stop flag, but each owns
// its own killer/history tables (one search.Context per worker), diversifying by
// staggered starting depths and, for worker id > 0, random noise added to the root side's
// history table, which perturbs root move ordering. No worker keeps a PV table; each PV is
// rebuilt from the shared transposition table.
package smp

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
	"github.com/commanderchess/engine/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// sharedBest is the mutex-guarded best-so-far result posted by whichever worker's
// completed iteration first improves on it.
type sharedBest struct {
	mu    sync.Mutex
	depth int
	score eval.Score
	pv    search.PV
	set   bool
}

func (s *sharedBest) offer(depth int, score eval.Score, pv search.PV) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set || depth > s.depth || (depth == s.depth && score > s.score) {
		s.depth, s.score, s.pv, s.set = depth, score, pv, true
	}
}

func (s *sharedBest) get() (search.PV, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pv, s.set
}

// Launcher runs the Lazy SMP driver: its own iterative-deepening loop (runWorker) per
// worker, fanned out over Threads goroutines (runtime.GOMAXPROCS(0) when Options.Threads
// is zero or one). It posts a single PV, the best one any worker offered, to the channel
// once every worker has stopped.
type Launcher struct{}

func (Launcher) Launch(ctx context.Context, zt *board.ZobristTable, pos *board.Position, rep *board.RepetitionHistory, tt search.TranspositionTable, noise eval.Random, opt searchctl.Options) (searchctl.Handle, <-chan search.PV) {
	threads := int(opt.Threads)
	if threads <= 1 {
		threads = runtime.GOMAXPROCS(0)
	}

	out := make(chan search.PV, 1)
	stop := atomic.NewBool(false)
	best := &sharedBest{}

	var deadline time.Time
	var soft time.Duration
	useSoft := false
	if tc, ok := opt.TimeControl.V(); ok {
		s, hard := tc.Limits()
		soft = s
		deadline = time.Now().Add(hard)
		useSoft = true
		time.AfterFunc(hard, func() { stop.Store(true) })
	}

	h := &handle{stop: stop, best: best, done: make(chan struct{})}

	var wg sync.WaitGroup
	for id := 0; id < threads; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, id, zt, pos, rep.Clone(), tt, noise, opt, stop, deadline, soft, useSoft, best)
		}(id)
	}

	go func() {
		wg.Wait()
		if pv, ok := best.get(); ok {
			out <- pv
		}
		close(out)
		close(h.done)
	}()

	logw.Debugf(ctx, "Launched Lazy SMP search: threads=%v opt=%v", threads, opt)
	return h, out
}

// runWorker runs one Lazy SMP thread's iterative-deepening loop. Worker 0 starts at depth
// 1 like the single-thread driver and owns move-stability-based early stopping; workers
// id>0 start at a staggered depth (never above Options.DepthLimit) and carry random history
// noise that reorders their root moves, so they do not retread worker 0's exact path.
func runWorker(ctx context.Context, id int, zt *board.ZobristTable, pos *board.Position, rep *board.RepetitionHistory, tt search.TranspositionTable, noise eval.Random, opt searchctl.Options, stop *atomic.Bool, deadline time.Time, soft time.Duration, useSoft bool, best *sharedBest) {
	sctx := search.NewContext(zt, tt, noise, rep, deadline, stop)
	local := pos.Clone()

	rnd := rand.New(rand.NewSource(int64(id) + 1))
	prevScore := eval.Score(0)
	stableCount := 0
	stableMove := board.NoMove
	searchStart := time.Now()

	if id > 0 {
		sctx.SeedRootNoise(rnd, local.Side())
	}

	depth := 1 + id%3 // stagger starting depth across workers
	if limit, ok := opt.DepthLimit.V(); ok && limit > 0 && uint(depth) > limit {
		depth = int(limit)
	}
	for !stop.Load() {
		hash := zt.Hash(local)
		start := time.Now()

		score := searchOneDepth(ctx, sctx, local, hash, depth, prevScore)
		if stop.Load() {
			return
		}

		pv := search.PV{Depth: depth, Nodes: sctx.Nodes, Score: score, Moves: search.ReconstructPV(zt, tt, local, hash), Time: time.Since(start)}
		if tt != nil {
			pv.Hash = tt.Used()
		}
		best.offer(depth, score, pv)
		prevScore = score

		bm := pv.BestMove()
		if bm.Equals(stableMove) {
			stableCount++
		} else {
			stableMove, stableCount = bm, 1
		}

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) >= limit {
			return
		}
		if md, ok := score.MateDistance(); ok && md <= depth {
			stop.Store(true)
			return
		}
		if id == 0 && useSoft && time.Since(searchStart) > soft && depth > 4 && stableCount >= 3 {
			stop.Store(true)
			return
		}
		depth++
	}
}

// searchOneDepth runs one negamax iteration at depth. From depth 2 its aspiration window
// works the same way as the single-thread driver's: delta 40 (12 from depth 5) around
// prevScore, widened ~x1.44+5 on the failing side, and a full-width search once delta
// exceeds 800. Lazy SMP's diversification instead comes from each worker's staggered
// starting depth and (for id>0) the root history noise seeded once in runWorker, which
// perturbs move ordering without touching legality.
func searchOneDepth(ctx context.Context, sctx *search.Context, pos *board.Position, hash board.ZobristHash, depth int, prevScore eval.Score) eval.Score {
	if depth < 2 {
		return search.PVS{}.Negamax(ctx, sctx, pos, hash, depth, 0, eval.NegInf, eval.Inf, board.NoMove)
	}
	delta := eval.Score(40)
	if depth >= 5 {
		delta = 12
	}
	alpha, beta := prevScore-delta, prevScore+delta
	for {
		score := search.PVS{}.Negamax(ctx, sctx, pos, hash, depth, 0, alpha, beta, board.NoMove)
		if sctx.StopFlag.Load() || (score > alpha && score < beta) {
			return score
		}
		if delta > 800 {
			return search.PVS{}.Negamax(ctx, sctx, pos, hash, depth, 0, eval.NegInf, eval.Inf, board.NoMove)
		}
		delta = delta*144/100 + 5
		if score <= alpha {
			alpha = prevScore - delta
		} else {
			beta = prevScore + delta
		}
	}
}

type handle struct {
	stop *atomic.Bool
	best *sharedBest
	done chan struct{}
}

func (h *handle) Halt() search.PV {
	h.stop.Store(true)
	<-h.done
	pv, _ := h.best.get()
	return pv
}
