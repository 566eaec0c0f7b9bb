// Package mcts implements the Hard-difficulty root driver: a two-level PUCT
// tree over the legal root moves and, for each, the opponent's replies, with hand-crafted
// policy priors, alpha-beta/evaluator-blended leaf values and virtual-loss parallelism.
package mcts

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
)

// puctC is the exploration constant c=1.8 in PUCT = q + c*pi*sqrt(N_parent)/(1+N).
const puctC = 1.8

// virtualLoss is the per-in-flight-visit virtual loss (0.35), discouraging other
// concurrent workers from re-selecting a node already being explored.
const virtualLoss = 0.35

// maxWorkers is the parallel worker cap (<=8).
const maxWorkers = 8

// node is one PUCT tree node: root, a root-move child, or one of that child's
// opponent-reply grandchildren (the tree is exactly two plies deep per the root-driver design).
type node struct {
	move   board.Move // move leading into this node from its parent; NoMove for the root
	prior  float64
	side   board.Side // side to move AT this node (i.e. the side that chose `move` into this node is the opponent)
	visits float64
	valueW float64 // accumulated value from this node's own perspective
	inFlight float64

	children []*node
	expanded bool
	terminal bool
	leafSet  bool
	leaf     eval.Score

	mu sync.Mutex
}

func (n *node) q() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	denom := n.visits + n.inFlight
	if denom == 0 {
		return 0
	}
	return (n.valueW - n.inFlight) / denom
}

func (n *node) visitCount() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visits
}

// Options configures one MCTS root search.
type Options struct {
	Deadline time.Time
	Workers  int
	Backend  EvalBackend
}

// Stats reports diagnostic counters about the completed search, analogous to search.PV
// for the alpha-beta drivers.
type Stats struct {
	Simulations int
	BestVisits  float64
	BestValue   float64
}

// SelectMove runs the PUCT root search from pos until opts.Deadline and returns the move
// with the most visits, ties broken by mean value. Returns board.NoMove if there are no
// legal moves.
func SelectMove(ctx context.Context, zt *board.ZobristTable, pos *board.Position, rep *board.RepetitionHistory, tt search.TranspositionTable, noise eval.Random, opts Options) (board.Move, Stats) {
	side := pos.Side()
	moves := board.GenerateMoves(pos, side)
	if len(moves) == 0 {
		return board.NoMove, Stats{}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}

	root := &node{side: side}
	ps := priors(zt, nil, pos, side, moves)
	root.children = make([]*node, len(moves))
	for i, m := range moves {
		root.children[i] = &node{move: m, prior: ps[i], side: side.Opponent()}
	}
	root.expanded = true

	rootHash := zt.Hash(pos)

	var sims int32
	var wg sync.WaitGroup
	var mu sync.Mutex
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sctx := search.NewContext(zt, tt, noise, rep.Clone(), time.Time{}, nil)
			for time.Now().Before(opts.Deadline) {
				simulate(ctx, zt, sctx, pos.Clone(), rootHash, root, opts.Backend)
				mu.Lock()
				sims++
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	best := bestChild(root)
	if best == nil {
		return board.NoMove, Stats{}
	}
	return best.move, Stats{Simulations: int(sims), BestVisits: best.visitCount(), BestValue: -best.q()}
}

// bestChild returns the root child with the most visits, ties broken by mean value from
// the ROOT's perspective (i.e. -child.q(), since a child's q() is stored from its own side
// to move's perspective), per the root-driver design.
func bestChild(root *node) *node {
	var best *node
	bestVisits, bestValue := -1.0, math.Inf(-1)
	for _, c := range root.children {
		v, val := c.visitCount(), -c.q()
		if v > bestVisits || (v == bestVisits && val > bestValue) {
			best, bestVisits, bestValue = c, v, val
		}
	}
	return best
}

// simulate runs one PUCT trajectory: select a root child, then (expanding lazily) one of
// its opponent replies, evaluate the resulting leaf, and back the value up both levels.
func simulate(ctx context.Context, zt *board.ZobristTable, sctx *search.Context, pos *board.Position, rootHash board.ZobristHash, root *node, backend EvalBackend) {
	child := selectPUCT(root.children, root.visitCount())
	if child == nil {
		return
	}
	addVirtualLoss(child)

	hash, undo, err := board.MakeMove(pos, zt, rootHash, child.move)
	if err != nil {
		removeVirtualLoss(child, virtualLoss)
		return
	}
	defer board.UnmakeMove(pos, undo)

	child.mu.Lock()
	needsExpand := !child.expanded
	child.mu.Unlock()

	if needsExpand {
		expand(ctx, zt, sctx, pos, hash, child, backend)
	}

	var value eval.Score
	child.mu.Lock()
	if child.terminal || len(child.children) == 0 {
		value = child.leaf
		child.mu.Unlock()
	} else {
		child.mu.Unlock()
		grandchild := selectPUCT(child.children, child.visitCount())
		if grandchild == nil {
			child.mu.Lock()
			value = child.leaf
			child.mu.Unlock()
		} else {
			addVirtualLoss(grandchild)
			gHash, gUndo, gErr := board.MakeMove(pos, zt, hash, grandchild.move)
			if gErr == nil {
				if !grandchild.leafSet {
					v := leafValue(ctx, sctx, pos, gHash, grandchild.side, backend)
					grandchild.mu.Lock()
					grandchild.leaf, grandchild.leafSet = v, true
					grandchild.mu.Unlock()
				}
				board.UnmakeMove(pos, gUndo)
			}
			backpropagate(grandchild, float64(grandchild.leaf))
			removeVirtualLoss(grandchild, virtualLoss)
			value = -grandchild.leaf // from child's perspective, one ply up
		}
	}

	backpropagate(child, float64(value))
	removeVirtualLoss(child, virtualLoss)
	backpropagate(root, 0) // root's own visit count feeds selectPUCT's parent-N term only
}

// expand computes child's own leaf value (so a worker that never reaches a grandchild
// still has something to back up) and, if the position isn't terminal, generates the
// opponent's replies as grandchildren with their own policy priors.
func expand(ctx context.Context, zt *board.ZobristTable, sctx *search.Context, pos *board.Position, hash board.ZobristHash, child *node, backend EvalBackend) {
	child.mu.Lock()
	if child.expanded {
		child.mu.Unlock()
		return
	}
	child.mu.Unlock()

	result := board.CheckWin(pos, child.side.Opponent(), pos.Mode())
	v := leafValue(ctx, sctx, pos, hash, child.side, backend)

	child.mu.Lock()
	child.leaf, child.leafSet = v, true
	if result.IsOver() {
		child.terminal = true
		child.expanded = true
		child.mu.Unlock()
		return
	}
	child.mu.Unlock()

	replies := board.GenerateMoves(pos, child.side)
	ps := priors(zt, sctx, pos, child.side, replies)
	children := make([]*node, len(replies))
	for i, m := range replies {
		children[i] = &node{move: m, prior: ps[i], side: child.side.Opponent()}
	}

	child.mu.Lock()
	child.children = children
	child.expanded = true
	child.mu.Unlock()
}

func addVirtualLoss(n *node) {
	n.mu.Lock()
	n.inFlight += virtualLoss
	n.mu.Unlock()
}

func removeVirtualLoss(n *node, amount float64) {
	n.mu.Lock()
	n.inFlight -= amount
	if n.inFlight < 0 {
		n.inFlight = 0
	}
	n.mu.Unlock()
}

func backpropagate(n *node, value float64) {
	n.mu.Lock()
	n.visits++
	n.valueW += value
	n.mu.Unlock()
}

// selectPUCT picks the child maximizing -q + c*prior*sqrt(parentVisits+1)/(1+visits).
// Each node's q() is stored from that node's OWN side-to-move
// perspective (the negamax convention the rest of the package follows), so from the
// parent's point of view a child's contribution is -q(): a high value for the side about
// to move at the child is bad for the side that just moved there.
func selectPUCT(children []*node, parentVisits float64) *node {
	if len(children) == 0 {
		return nil
	}
	var best *node
	bestScore := math.Inf(-1)
	sqrtParent := math.Sqrt(parentVisits + 1)
	for _, c := range children {
		v := c.visitCount()
		score := -c.q() + puctC*c.prior*sqrtParent/(1+v)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
