package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

// stabilityThreshold is how many consecutive iterations (past depth 4) the best root move
// must stay unchanged before the soft deadline is allowed to stop the search early.
const stabilityThreshold = 3

// Iterative is a single-thread iterative-deepening launcher: each depth is a fresh call
// into search.PVS{}.Negamax with an aspiration window re-centered on the previous score,
// run on a goroutine behind a PV channel and an AsyncCloser handle. Negamax itself
// returns only a score; the PV is rebuilt afterward by walking the transposition table's
// best-move chain rather than threading a PV list back through every return.
type Iterative struct{}

func (Iterative) Launch(ctx context.Context, zt *board.ZobristTable, pos *board.Position, rep *board.RepetitionHistory, tt search.TranspositionTable, noise eval.Random, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, zt, pos, rep, tt, noise, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, zt *board.ZobristTable, pos *board.Position, rep *board.RepetitionHistory, tt search.TranspositionTable, noise eval.Random, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	stop := atomic.NewBool(false)
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

	sctx := search.NewContext(zt, tt, noise, rep, deadline, stop)

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var prevScore eval.Score
	stableMove := board.NoMove
	stableCount := 0
	searchStart := time.Now()

	depth := 1
	for !h.quit.IsClosed() && !stop.Load() {
		start := time.Now()
		hash := zt.Hash(pos)

		score, err := searchDepth(wctx, sctx, pos, hash, depth, prevScore)
		if err == search.ErrHalted {
			return
		}
		if contextx.IsCancelled(wctx) {
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: sctx.Nodes,
			Score: score,
			Moves: search.ReconstructPV(zt, tt, pos, hash),
			Time:  time.Since(start),
		}
		if tt != nil {
			pv.Hash = tt.Used()
		}

		logw.Debugf(ctx, "Searched depth=%v: %v", depth, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		prevScore = score

		best := pv.BestMove()
		if best.Equals(stableMove) {
			stableCount++
		} else {
			stableMove = best
			stableCount = 1
		}

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return
		}
		if md, ok := score.MateDistance(); ok && md <= depth {
			return
		}
		if useSoft && time.Since(searchStart) > soft && depth > 4 && stableCount >= stabilityThreshold {
			return // soft deadline passed and the best move has settled
		}
		depth++
	}
}

// searchDepth runs one iteration at depth with an aspiration window re-centered on
// prevScore: depth>=2 opens a delta-12 window at depth>=5, delta-40 earlier,
// expanding asymmetrically ~x1.44+5 on the failing side, giving up and running full-width
// once delta exceeds 800.
func searchDepth(ctx context.Context, sctx *search.Context, pos *board.Position, hash board.ZobristHash, depth int, prevScore eval.Score) (eval.Score, error) {
	if depth < 2 {
		return search.PVS{}.Negamax(ctx, sctx, pos, hash, depth, 0, eval.NegInf, eval.Inf, board.NoMove), checkHalt(sctx)
	}

	delta := eval.Score(40)
	if depth >= 5 {
		delta = 12
	}
	alpha := prevScore - delta
	beta := prevScore + delta

	for {
		score := search.PVS{}.Negamax(ctx, sctx, pos, hash, depth, 0, alpha, beta, board.NoMove)
		if err := checkHalt(sctx); err != nil {
			return score, err
		}

		if score <= alpha {
			if delta > 800 {
				return search.PVS{}.Negamax(ctx, sctx, pos, hash, depth, 0, eval.NegInf, eval.Inf, board.NoMove), checkHalt(sctx)
			}
			delta = delta*144/100 + 5
			alpha = prevScore - delta
			continue
		}
		if score >= beta {
			if delta > 800 {
				return search.PVS{}.Negamax(ctx, sctx, pos, hash, depth, 0, eval.NegInf, eval.Inf, board.NoMove), checkHalt(sctx)
			}
			delta = delta*144/100 + 5
			beta = prevScore + delta
			continue
		}
		return score, nil
	}
}

func checkHalt(sctx *search.Context) error {
	if sctx.StopFlag.Load() {
		return search.ErrHalted
	}
	return nil
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}
