package eval

import "github.com/commanderchess/engine/pkg/board"

// AttackSnapshot is one side's attacked-square table for a position: per-square attacker
// counts and their total, a 132-square popcount over attacked squares rather than
// occupied ones.
type AttackSnapshot struct {
	Attackers [board.NumSquares]int
	Count     int
}

type cacheKey struct {
	hash board.ZobristHash
	side board.Side
}

// AttackCache memoises, per position hash and side, the attacked-square snapshot: it is
// computed once per (position, side) pair and reused across every evaluator term that
// needs it. Entries are never evicted wholesale; only Invalidate removes them.
type AttackCache struct {
	entries map[cacheKey]AttackSnapshot
}

func NewAttackCache() *AttackCache {
	return &AttackCache{entries: map[cacheKey]AttackSnapshot{}}
}

// Get returns the attack snapshot for side at the position identified by hash, computing
// and storing it on first use.
func (c *AttackCache) Get(hash board.ZobristHash, pos *board.Position, side board.Side) AttackSnapshot {
	key := cacheKey{hash: hash, side: side}
	if snap, ok := c.entries[key]; ok {
		return snap
	}
	snap := computeAttackSnapshot(pos, side)
	c.entries[key] = snap
	return snap
}

func computeAttackSnapshot(pos *board.Position, side board.Side) AttackSnapshot {
	var snap AttackSnapshot
	for _, p := range pos.AllAlive() {
		if p.Side != side || p.IsCarried() {
			continue
		}
		for _, m := range board.LegalDestinations(pos, p) {
			idx := m.To().Index()
			if snap.Attackers[idx] == 0 {
				snap.Count++
			}
			snap.Attackers[idx]++
		}
	}
	return snap
}

// Invalidate drops every entry for the given hash (both sides). The search calls it after
// unmaking each move, which keeps the map from growing with every position visited.
func (c *AttackCache) Invalidate(hash board.ZobristHash) {
	delete(c.entries, cacheKey{hash: hash, side: board.Red})
	delete(c.entries, cacheKey{hash: hash, side: board.Blue})
}
