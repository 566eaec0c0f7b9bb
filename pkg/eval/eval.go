package eval

import (
	"context"

	"github.com/commanderchess/engine/pkg/board"
)

// Evaluator is a static position evaluator, combining material, piece-square tables,
// mobility, king safety and the domain-specific terrain/missile/navy-air terms into a
// single side-relative score.
type Evaluator interface {
	// Evaluate returns the position score from side's perspective.
	Evaluate(ctx context.Context, hash board.ZobristHash, pos *board.Position, side board.Side) Score

	// Invalidate drops any cached data keyed on hash. Callers unmaking a move back out of
	// hash should call this once the position is abandoned, so a later search reaching the
	// same Zobrist hash by a different path recomputes rather than reuses a stale entry.
	Invalidate(hash board.ZobristHash)
}

// HandCrafted is the hand-written evaluator: material, piece-square tables, Commander
// safety and threat terms, mobility, Navy/Air-Force/Anti-Aircraft/Missile terms, the
// mode-objective pressure term and tempo, each phase-interpolated where applicable and
// computed once per position via a shared AttackCache.
type HandCrafted struct {
	cache *AttackCache
}

func NewHandCrafted() *HandCrafted {
	return &HandCrafted{cache: NewAttackCache()}
}

func (h *HandCrafted) Evaluate(ctx context.Context, hash board.ZobristHash, pos *board.Position, side board.Side) Score {
	score := Material(pos, side)
	score += PieceSquare(pos, side)
	score += CommanderThreatBonus(pos, side)
	score += HeroProximityBonus(pos, side)
	score += CommanderSafety(pos, side) - CommanderSafety(pos, side.Opponent())
	score += AttackPressure(pos, side)
	score += Mobility(h.cache, hash, pos, side)
	score += HangingPenalty(h.cache, hash, pos, side.Opponent()) - HangingPenalty(h.cache, hash, pos, side)
	score += NavySafety(h.cache, hash, pos, side)
	score += AirForceSafety(h.cache, hash, pos, side)
	score += AntiAirCoverageBonus(pos, side)
	score += MissileAimBonus(pos, side)
	score += PiecePairBonus(pos, side) - PiecePairBonus(pos, side.Opponent())
	score += ObjectivePressure(pos, side)
	score += Tempo(pos, side)
	score += MaterialConversionBonus(pos, side)
	return Crop(score)
}

// Invalidate drops the evaluator's cached attack data for hash. The search package calls
// this once it unmakes the move that produced hash, so a later search reaching the same
// Zobrist hash by a different move order recomputes the snapshot against the board state
// at that time rather than reusing one left over from this abandoned line.
func (h *HandCrafted) Invalidate(hash board.ZobristHash) {
	h.cache.Invalidate(hash)
}

// CaptureGain is the nominal material gain of a capturing move, used by MVV/LVA move
// ordering: the captured piece's value, refined by SEE in the search package.
func CaptureGain(pos *board.Position, m board.Move) Score {
	top, ok := pos.TopAt(m.To())
	if !ok {
		return 0
	}
	return pieceValue(top)
}
