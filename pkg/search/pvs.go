package search

import (
	"context"
	"math"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
)

// PVS implements principal variation search over a board.Position,
// wiring together TT probing/storing, internal
// iterative reduction, reverse futility, razoring, null-move pruning, late-move
// reductions/pruning, futility and SEE pruning, extensions, killers/history/continuation
// history move ordering and quiescence at the leaves. It does not itself drive iterative
// deepening or aspiration windows -- see searchctl.Iterative for that -- this type is the
// single fixed-depth negamax call one iteration makes.
type PVS struct{}

// Negamax runs a single fixed-depth search from pos, returning the score from the
// perspective of the side to move. The principal variation is not threaded back through
// the call stack (most of the pruning mechanisms below return early without one); callers
// reconstruct it after the fact by following best moves stored in the transposition table.
func (PVS) Negamax(ctx context.Context, sctx *Context, pos *board.Position, hash board.ZobristHash, depth, ply int, alpha, beta eval.Score, prevMove board.Move) eval.Score {
	pvNode := beta-alpha > 1

	sctx.Nodes++
	if sctx.Nodes%nodeCheckInterval == 0 && sctx.timeUp() {
		return alpha
	}

	if ply > 0 {
		if score, over := terminalScore(pos, depth); over {
			return score
		}
		if sctx.Repetition.IsThreefold(hash) {
			return 0
		}
	}
	if depth <= 0 {
		return quiescence(ctx, sctx, pos, hash, maxQuiescenceDepth, ply, alpha, beta)
	}

	alphaOrig := alpha

	ttMove := board.NoMove
	var ttScore eval.Score
	ttDepth := 0
	hasTT := false
	if e, ok := sctx.TT.Probe(hash); ok {
		ttMove = e.Move
		ttScore = e.Score
		ttDepth = e.Depth
		hasTT = true
		if e.Depth >= depth && !pvNode {
			switch e.Bound {
			case ExactBound:
				return e.Score
			case LowerBound:
				if e.Score >= beta {
					return e.Score
				}
			case UpperBound:
				if e.Score <= alpha {
					return e.Score
				}
			}
		}
	}

	side := pos.Side()
	cmd, hasCmd := pos.CommanderOf(side)
	enemy, hasEnemy := pos.CommanderOf(side.Opponent())
	commandersSafe := true
	if hasCmd && board.IsAttacked(pos, side.Opponent(), cmd.Square()) {
		commandersSafe = false
	}
	if hasEnemy && board.IsAttacked(pos, side, enemy.Square()) {
		commandersSafe = false
	}

	staticEval := sctx.Eval.Evaluate(ctx, hash, pos, side) + sctx.Noise.Sample()
	sctx.setEval(ply, staticEval)
	improving := sctx.improving(ply, staticEval)

	if !pvNode && commandersSafe {
		// Reverse futility pruning (depth<=3): the static eval already clears beta by a
		// comfortable, depth-scaled margin.
		if depth <= 3 {
			margin := reverseFutilityMargin(improving, depth)
			if staticEval-margin >= beta {
				return staticEval
			}
		}

		// Razoring (depth<=3): static eval is far below alpha; fall through to quiescence
		// and accept its verdict if it still fails low.
		if depth <= 3 {
			margin := razorMargin(depth)
			if staticEval+margin < alpha {
				if q := quiescence(ctx, sctx, pos, hash, maxQuiescenceDepth, ply, alpha, beta); q < alpha {
					return q
				}
			}
		}

		// Null-move pruning: side has more than bare Commander/Headquarters material and
		// the static eval doesn't already look lost.
		if depth >= 3 && hasNonTrivialMaterial(pos, side) && staticEval >= beta-64 {
			r := nullMoveReduction(depth, staticEval-beta)
			if !commandersSafe {
				r = 2
			}
			pos.SetSide(side.Opponent())
			nullHash := sctx.Zobrist.XorTurn(sctx.Zobrist.XorTurn(hash, side), side.Opponent())
			score := -sctx.runNegamax(ctx, sctx, pos, nullHash, depth-1-r, ply+1, -beta, -beta+1, board.NoMove)
			pos.SetSide(side)

			if score >= beta {
				if depth >= 8 {
					// Verification search at the full reduced depth, non-null, to guard
					// against null-move zugzwang-like traps at deep nodes.
					verify := sctx.runNegamax(ctx, sctx, pos, hash, depth-1-r, ply+1, beta-1, beta, prevMove)
					if verify >= beta {
						return score
					}
				} else {
					return score
				}
			}
		}
	}

	// Probcut: a shallow verification search at beta+200 can prove a fail-high early,
	// skipping the much more expensive full-depth search.
	if !pvNode && commandersSafe && depth >= 5 {
		probBeta := beta + 200
		probDepth := depth - 4
		captures := board.GenerateMoves(pos, side)
		for _, m := range captures {
			if IsQuiet(pos, m) || SEE(sctx.Zobrist, pos, m) < probBeta-staticEval {
				continue
			}
			newHash, undo, err := board.MakeMove(pos, sctx.Zobrist, hash, m)
			if err != nil {
				continue
			}
			sctx.Repetition.Push(newHash)
			score := -sctx.runNegamax(ctx, sctx, pos, newHash, probDepth, ply+1, -probBeta, -probBeta+1, m)
			sctx.Repetition.Pop()
			board.UnmakeMove(pos, undo)
			sctx.Eval.Invalidate(newHash)
			if score >= probBeta {
				return score
			}
		}
	}

	// Internal iterative reduction: no hash move at a sufficiently deep non-PV node.
	if ttMove.IsNoMove() && !pvNode && depth >= 6 {
		depth--
	}

	moves := board.GenerateMoves(pos, side)
	if len(moves) == 0 {
		return 0 // no legal move for the side to move: not modeled as loss by , treat as draw
	}

	singularExt := singularExtension(ctx, sctx, pos, hash, moves, ttMove, ttScore, ttDepth, hasTT, depth, ply, pvNode)

	order := board.First(ttMove, sctx.OrderMoves(sctx.Zobrist, pos, ply, prevMove))
	list := board.NewMoveList(moves, order)

	bestScore := eval.NegInf
	bestMove := board.NoMove
	bound := UpperBound
	moveIndex := 0
	var quietsTried []board.Move

	for {
		m, ok := list.Next()
		if !ok {
			break
		}
		quiet := IsQuiet(pos, m)
		moveIndex++

		if !pvNode && commandersSafe && quiet {
			// Late-move pruning: skip late quiets entirely at shallow depth.
			if depth <= 4 && moveIndex > lateMoveThreshold(improving, depth) {
				continue
			}
			// History-based pruning.
			mover, _ := pos.Piece(m.PieceID)
			if depth <= 6 && moveIndex > 1 && sctx.historyOf(side, mover.Kind, m) < -55*int32(depth*depth) {
				continue
			}
			// Futility pruning.
			if depth <= 3 {
				margin := futilityMargin(improving, depth)
				if staticEval+margin <= alpha {
					continue
				}
			}
		}
		if !pvNode && !quiet && depth <= 4 {
			// SEE pruning of clearly losing, non-critical captures.
			if SEE(sctx.Zobrist, pos, m) < eval.Score(-80*depth) {
				continue
			}
		}

		ext := extension(pos, m, commandersSafe, prevMove)
		if m.Equals(ttMove) {
			ext += singularExt
		}

		newHash, undo, err := board.MakeMove(pos, sctx.Zobrist, hash, m)
		if err != nil {
			continue
		}
		if enemy, ok := pos.CommanderOf(side.Opponent()); ok && board.IsAttacked(pos, side, enemy.Square()) {
			ext++ // giving check
		}
		if ext > 2 {
			ext = 2
		}
		if ext == 0 && quiet && moveIndex > 1 && !m.Equals(ttMove) {
			ext = -1 // negative extension: thin out late, otherwise-unremarkable quiet moves
		}
		sctx.Repetition.Push(newHash)

		newDepth := depth - 1 + ext
		var score eval.Score
		if moveIndex == 1 {
			score = -sctx.runNegamax(ctx, sctx, pos, newHash, newDepth, ply+1, -beta, -alpha, m)
		} else {
			r := 0
			if quiet && depth >= 3 && moveIndex > 1 {
				r = lateMoveReduction(depth, moveIndex, pvNode, improving)
			}
			score = -sctx.runNegamax(ctx, sctx, pos, newHash, newDepth-r, ply+1, -alpha-1, -alpha, m)
			if score > alpha && r > 0 {
				score = -sctx.runNegamax(ctx, sctx, pos, newHash, newDepth, ply+1, -alpha-1, -alpha, m)
			}
			if score > alpha && score < beta {
				score = -sctx.runNegamax(ctx, sctx, pos, newHash, newDepth, ply+1, -beta, -alpha, m)
			}
		}

		sctx.Repetition.Pop()
		board.UnmakeMove(pos, undo)
		sctx.Eval.Invalidate(newHash)

		if quiet {
			quietsTried = append(quietsTried, m)
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			bound = ExactBound
		}
		if alpha >= beta {
			bound = LowerBound
			if quiet {
				sctx.onCutoff(pos, ply, side, m, prevMove, depth, quietsTried)
			}
			break
		}
	}

	_ = alphaOrig
	sctx.TT.Store(hash, depth, bestScore, bound, bestMove)
	return bestScore
}

// runNegamax is a thin indirection so the Negamax method can recurse without repeating the
// PVS{} receiver at every call site.
func (c *Context) runNegamax(ctx context.Context, sctx *Context, pos *board.Position, hash board.ZobristHash, depth, ply int, alpha, beta eval.Score, prevMove board.Move) eval.Score {
	return PVS{}.Negamax(ctx, sctx, pos, hash, depth, ply, alpha, beta, prevMove)
}

// onCutoff installs m as a killer, credits history/continuation history by depth^2 and
// applies a quadratic malus to the other quiet moves already tried at this node, per
// the search design "Killers & history update". pos has already had m and every other tried
// move unmade by the time this runs, but piece identity survives unmake, so looking up
// each move's mover by PieceID is still valid.
func (c *Context) onCutoff(pos *board.Position, ply int, side board.Side, m, prevMove board.Move, depth int, quietsTried []board.Move) {
	c.recordKiller(ply, m)
	c.setCounter(prevMove, m)

	bonus := int32(depth * depth)
	mover, _ := pos.Piece(m.PieceID)
	c.addHistory(side, mover.Kind, m, bonus)
	c.addContinuation(prevMove, m, mover.Kind, bonus)

	for _, other := range quietsTried {
		if other.Equals(m) {
			continue
		}
		k, _ := pos.Piece(other.PieceID)
		c.addHistory(side, k.Kind, other, -bonus)
		c.addContinuation(prevMove, other, k.Kind, -bonus)
	}
}

func reverseFutilityMargin(improving bool, depth int) eval.Score {
	if improving {
		return eval.Score(150*depth + 100)
	}
	return eval.Score(200*depth + 100)
}

func razorMargin(depth int) eval.Score {
	return eval.Score(300 * depth)
}

func futilityMargin(improving bool, depth int) eval.Score {
	if improving {
		return eval.Score(130*depth + 80)
	}
	return eval.Score(170*depth + 80)
}

func lateMoveThreshold(improving bool, depth int) int {
	base := 3
	if improving {
		base = 5
	}
	return base + depth*depth
}

func nullMoveReduction(depth int, margin eval.Score) int {
	r := 2
	if depth >= 6 && margin >= 200 {
		r = 4
	} else if depth >= 4 {
		r = 3
	}
	return r
}

func lateMoveReduction(depth, moveIndex int, pvNode, improving bool) int {
	r := int(math.Round(0.75 + math.Log(float64(depth))*math.Log(float64(moveIndex))/2.25))
	if pvNode {
		r--
	}
	if improving {
		r--
	} else if depth >= 6 {
		r++
	}
	if r < 0 {
		r = 0
	}
	return r
}

// extension applies the pre-move additive search extensions: check evasion, capturing
// Navy, recapture on the same square as the previous move, and preserving a side's sole
// remaining Navy by moving it out of attack. The caller adds the giving-check extension
// (which needs the position after the move) and the singular/double-singular and negative
// extensions (which need node-level context) on top of this, then clamps the total to
// [-1, 2].
func extension(pos *board.Position, m board.Move, commandersSafe bool, prevMove board.Move) int {
	ext := 0
	if !commandersSafe {
		ext++
	}
	if top, ok := pos.TopAt(m.To()); ok && top.Kind == board.Navy {
		ext++
	}
	if !prevMove.IsNoMove() && prevMove.To().Equals(m.To()) {
		ext++
	}
	if mover, ok := pos.Piece(m.PieceID); ok && mover.Kind == board.Navy &&
		soleRemainingNavy(pos, mover.Side) && board.IsAttacked(pos, mover.Side.Opponent(), mover.Square()) {
		ext++ // preserving the sole remaining Navy by moving it out of attack
	}
	return ext
}

// soleRemainingNavy reports whether side has exactly one living Navy piece.
func soleRemainingNavy(pos *board.Position, side board.Side) bool {
	n := 0
	for _, p := range pos.AllAlive() {
		if p.Side == side && p.Kind == board.Navy {
			n++
		}
	}
	return n == 1
}

// singularMargin is the verification window half-width (tt_val-margin) a non-TT move
// must fail to reach for the TT move to be judged singular.
func singularMargin(depth int) eval.Score {
	return eval.Score(depth * 2)
}

// doubleSingularMargin is how far below the singular window every other move must also
// fail for the TT move to earn the double-singular +2 instead of +1.
const doubleSingularMargin = eval.Score(200)

// singularExtension runs the standard singular-extension verification search: with a
// sufficiently deep, sufficiently trustworthy TT entry, search every move OTHER than the
// TT move at reduced depth against a narrow window just under tt_val. If none of them can
// reach it, the TT move is singular (no other move comes close) and is extended; if none
// of them come close even against a much lower bar, it is extended twice.
func singularExtension(ctx context.Context, sctx *Context, pos *board.Position, hash board.ZobristHash, moves []board.Move, ttMove board.Move, ttScore eval.Score, ttDepth int, hasTT bool, depth, ply int, pvNode bool) int {
	if !hasTT || ttMove.IsNoMove() || pvNode || ply == 0 {
		return 0
	}
	if depth < 6 || ttDepth < depth-3 {
		return 0
	}
	if eval.Abs(ttScore) >= eval.MateScore-100 {
		return 0
	}

	singularBeta := ttScore - singularMargin(depth)
	searchDepth := (depth - 1) / 2

	bestOther := eval.NegInf
	for _, m := range moves {
		if m.Equals(ttMove) {
			continue
		}
		newHash, undo, err := board.MakeMove(pos, sctx.Zobrist, hash, m)
		if err != nil {
			continue
		}
		sctx.Repetition.Push(newHash)
		score := -sctx.runNegamax(ctx, sctx, pos, newHash, searchDepth, ply+1, -singularBeta, -singularBeta+1, ttMove)
		sctx.Repetition.Pop()
		board.UnmakeMove(pos, undo)
		sctx.Eval.Invalidate(newHash)

		if score > bestOther {
			bestOther = score
		}
		if score >= singularBeta {
			break // a non-TT move matches or beats it: not singular
		}
	}

	if bestOther >= singularBeta {
		return 0
	}
	if bestOther < singularBeta-doubleSingularMargin {
		return 2
	}
	return 1
}

// hasNonTrivialMaterial reports whether side has more than two pieces besides its
// Commander/Headquarters, the "more than 2 pieces" null-move guard.
func hasNonTrivialMaterial(pos *board.Position, side board.Side) bool {
	n := 0
	for _, p := range pos.AllAlive() {
		if p.Side != side {
			continue
		}
		switch p.Kind {
		case board.Commander, board.Headquarters:
			continue
		}
		n++
	}
	return n > 2
}
