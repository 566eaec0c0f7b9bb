// Package engine exposes the engine surface the engine surface names: new_game / apply_move /
// bot_move / serialize_state / piece_sprites, implemented here as methods on GameState.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/engine/enginecfg"
	"github.com/commanderchess/engine/pkg/engine/wire"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/mcts"
	"github.com/commanderchess/engine/pkg/search"
	"github.com/commanderchess/engine/pkg/search/searchctl"
	"github.com/commanderchess/engine/pkg/search/smp"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

// ActionStatus reports the outcome of apply_move, matching the engine surface's
// `{ok, error?, game_over?, result?}` shape.
type ActionStatus struct {
	OK       bool
	Error    string
	GameOver bool
	Result   string
}

// GameState is a single in-progress game: the position, its Zobrist hash and
// repetition history, the mode/difficulty configuration, and the search machinery
// (transposition table, noise, opening book) the bot side uses to pick its own moves.
// Its exported methods may be called from multiple goroutines: each one holds mu for the
// duration of the call, so concurrent ApplyMove/BotMove calls run one at a time.
type GameState struct {
	zt   *board.ZobristTable
	seed int64

	mode       board.Mode
	difficulty enginecfg.Difficulty
	budget     enginecfg.Budget
	overrides  enginecfg.Overrides

	pos  *board.Position
	hash board.ZobristHash
	rep  *board.RepetitionHistory

	plyCount int
	over     bool
	result   board.Result

	launcher searchctl.Launcher
	tt       search.TranspositionTable
	noise    eval.Random
	book     Book

	active searchctl.Handle
	mu     sync.Mutex
}

// Option configures a GameState at construction time.
type Option func(*GameState)

// WithZobristSeed sets a specific Zobrist table seed instead of the default of zero.
func WithZobristSeed(seed int64) Option {
	return func(g *GameState) { g.seed = seed }
}

// WithOverrides applies the environment-driven override points (TT size, forced
// single-thread, evaluator backend) that would otherwise come from enginecfg.OverridesFromEnv.
func WithOverrides(o enginecfg.Overrides) Option {
	return func(g *GameState) { g.overrides = o }
}

// WithBudget overrides the search budget the difficulty tier would otherwise derive,
// for callers (the simulator CLI) that want an exact depth/time pair instead of one of
// the three named difficulty presets.
func WithBudget(b enginecfg.Budget) Option {
	return func(g *GameState) { g.budget = b }
}

// NewGame builds a fresh GameState: initial piece layout, side-to-move Red, empty
// history, per the engine surface's new_game(mode, difficulty) contract.
func NewGame(ctx context.Context, mode board.Mode, difficulty enginecfg.Difficulty, opts ...Option) *GameState {
	g := &GameState{
		mode:       mode,
		difficulty: difficulty,
		budget:     enginecfg.BudgetFor(difficulty),
		launcher:   searchctl.Iterative{},
		book:       DefaultBook(10),
	}
	for _, fn := range opts {
		fn(g)
	}
	g.zt = board.NewZobristTable(g.seed)

	g.pos = board.NewGamePosition(mode)
	g.hash = g.zt.Hash(g.pos)
	g.rep = board.NewRepetitionHistory()
	g.rep.Push(g.hash)

	g.tt = search.NewTranspositionTable(ctx, 32<<20)
	if mib, ok := g.overrides.TableSizeMiB.V(); ok && mib > 0 {
		g.tt = search.NewTranspositionTable(ctx, uint64(mib)<<20)
	}
	g.noise = eval.NewRandom(10, g.seed)

	forcedSingleThread, _ := g.overrides.SingleThread.V()
	if difficulty != enginecfg.Hard && !forcedSingleThread {
		g.launcher = smp.Launcher{}
	}

	logw.Infof(ctx, "New game: mode=%v difficulty=%v budget=%+v", mode, difficulty, g.budget)
	return g
}

// Name returns the engine name and version.
func (g *GameState) Name() string {
	return fmt.Sprintf("commanderchess %v", version)
}

// Author returns the engine author.
func (g *GameState) Author() string {
	return "commanderchess"
}

// Position returns the current position. Callers must not mutate the returned value;
// use Clone if a scratch copy is needed.
func (g *GameState) Position() *board.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pos
}

// Mode returns the configured win-condition mode.
func (g *GameState) Mode() board.Mode {
	return g.mode
}

// Outcome reports the decided game outcome, or board.Undecided if the game is still
// in progress.
func (g *GameState) Outcome() board.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result.Outcome
}

// ApplyMove validates and applies m, updating state in place. A user-move error
// (piece not found, wrong side, illegal move, game already over) leaves state
// unchanged and is surfaced as ActionStatus.Error rather than a Go error, since none
// of these are programmer mistakes -- they are expected, recoverable client input.
func (g *GameState) ApplyMove(ctx context.Context, m board.Move) ActionStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.over {
		return ActionStatus{Error: "game is already over"}
	}

	mover, ok := g.pos.Piece(m.PieceID)
	if !ok || !g.pos.IsAlive(m.PieceID) {
		return ActionStatus{Error: "piece not found"}
	}
	if mover.Side != g.pos.Side() {
		return ActionStatus{Error: "not this piece's turn"}
	}

	legal := false
	for _, candidate := range board.GenerateMoves(g.pos, g.pos.Side()) {
		if candidate.Equals(m) {
			legal = true
			break
		}
	}
	if !legal {
		return ActionStatus{Error: "illegal move"}
	}

	g.commit(ctx, m)
	status := ActionStatus{OK: true}
	if g.over {
		status.GameOver = true
		status.Result = g.result.Reason
	}
	return status
}

// commit applies m (already validated) and updates hash, repetition and win status.
// Caller must hold g.mu.
func (g *GameState) commit(ctx context.Context, m board.Move) {
	mover := g.pos.Side()
	newHash, _, err := board.MakeMove(g.pos, g.zt, g.hash, m)
	if err != nil {
		logw.Errorf(ctx, "MakeMove failed for validated move %v: %v", m, err)
		return
	}
	g.hash = newHash
	g.plyCount++
	g.rep.Push(g.hash)

	if g.rep.IsThreefold(g.hash) {
		g.over = true
		g.result = board.Result{Outcome: board.DrawOutcome, Reason: "draw by threefold repetition"}
		return
	}
	if result := board.CheckWin(g.pos, mover, g.mode); result.IsOver() {
		g.over = true
		g.result = result
	}
}

// TakeBack is a console/debugging entry point, not part of the core engine surface. It
// always returns an error: GameState keeps no history from which to undo a move.
func (g *GameState) TakeBack(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Errorf("takeback is not supported: GameState keeps no undo history past the repetition stack")
}

// BotMove chooses and applies a move for the side to move, returning it, or
// board.NoMove on search-budget exhaustion (the engine surface "sentinel (-1,-1,-1) on failure").
func (g *GameState) BotMove(ctx context.Context) board.Move {
	g.mu.Lock()
	if g.over {
		g.mu.Unlock()
		return board.NoMove
	}
	pos, hash, mode, difficulty, budget := g.pos.Clone(), g.hash, g.mode, g.difficulty, g.budget
	zt, rep, tt, noise, book := g.zt, g.rep.Clone(), g.tt, g.noise, g.book
	launcher := g.launcher
	g.mu.Unlock()

	side := pos.Side()
	moves := board.GenerateMoves(pos, side)
	if len(moves) == 0 {
		return board.NoMove
	}

	var best board.Move
	if difficulty.UsesMCTS() {
		best, _ = mcts.SelectMove(ctx, zt, pos, rep, tt, noise, mcts.Options{
			Deadline: time.Now().Add(budget.TimeLimit),
			Workers:  8,
			Backend:  mcts.CPU,
		})
	} else {
		handle, out := launcher.Launch(ctx, zt, pos, rep, tt, noise, budget.SearchOptions(0))
		var last search.PV
		for pv := range out {
			last = pv
		}
		handle.Halt()
		best = last.BestMove()
	}

	if best.IsNoMove() {
		return board.NoMove
	}
	best = g.rerank(ctx, pos, zt, moves, best, book)

	status := g.ApplyMove(ctx, best)
	if !status.OK {
		logw.Errorf(ctx, "Bot move %v rejected by ApplyMove: %v", best, status.Error)
		return board.NoMove
	}
	return best
}

// rerank re-ranks the tree search's chosen move against the opening book's candidates
// (once past the opening, against its own root moves) by board_score - opening_risk, so a
// book or alternative move only displaces the search's own pick when it is genuinely
// better, not merely less risky. Uses a throwaway evaluator rather than the search's own,
// so its candidate-scratch evaluations never pollute the long-lived search evaluator's
// attack cache with hashes computed from this function's zero-based incremental hashing.
func (g *GameState) rerank(ctx context.Context, pos *board.Position, zt *board.ZobristTable, moves []board.Move, searchBest board.Move, book Book) board.Move {
	candidates := moves
	if proposed := book.Propose(pos); len(proposed) > 0 {
		candidates = proposed
	}

	rankEval := eval.NewHandCrafted()
	best := searchBest
	bestRank := searchctl.RankMove(ctx, rankEval, zt, pos, searchBest, g.plyCount)
	for _, m := range candidates {
		if m.Equals(searchBest) {
			continue
		}
		if r := searchctl.RankMove(ctx, rankEval, zt, pos, m, g.plyCount); r > bestRank {
			best, bestRank = m, r
		}
	}
	return best
}

// SerializeState returns a deep-copy snapshot of the current game, including the
// side-to-move's legal moves, per the engine surface's serialize_state contract.
func (g *GameState) SerializeState() wire.SerializedState {
	g.mu.Lock()
	defer g.mu.Unlock()

	var pieces []wire.Piece
	for _, p := range g.pos.AllAlive() {
		pieces = append(pieces, wire.Piece{
			ID:        p.ID,
			Side:      p.Side.String(),
			Kind:      kindName(p.Kind),
			Col:       p.Col,
			Row:       p.Row,
			Hero:      p.Hero,
			CarrierID: p.CarrierID,
		})
	}

	var legal []wire.Move
	if !g.over {
		for _, m := range board.GenerateMoves(g.pos, g.pos.Side()) {
			legal = append(legal, wire.FromMove(m))
		}
	}

	return wire.SerializedState{
		Pieces:     pieces,
		SideToMove: g.pos.Side().String(),
		Mode:       g.mode.String(),
		PlyCount:   g.plyCount,
		GameOver:   g.over,
		Result:     g.result.Reason,
		LegalMoves: legal,
	}
}

// PieceSprites returns the sprite payload map, out of core scope for this engine; kept
// as an empty-map stub for interface completeness, so callers always get something back
// rather than having to nil-check.
func PieceSprites() map[string]string {
	return map[string]string{}
}

func kindName(k board.Kind) string {
	names := [board.NumKinds + 1]string{
		board.NoKind:       "?",
		board.Commander:    "C",
		board.Headquarters: "H",
		board.Infantry:     "In",
		board.Militia:      "M",
		board.Tank:         "T",
		board.Engineer:     "E",
		board.Artillery:    "A",
		board.AntiAircraft: "Aa",
		board.Missile:      "Ms",
		board.AirForce:     "Af",
		board.Navy:         "N",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "?"
}
