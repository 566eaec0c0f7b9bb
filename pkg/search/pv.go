package search

import "github.com/commanderchess/engine/pkg/board"

// maxPVLength bounds how far ReconstructPV follows the TT's best-move chain, guarding
// against a cycle of stored moves (possible on a racy/stale probe) looping forever.
const maxPVLength = 64

// ReconstructPV walks tt's stored best-move chain from hash, replaying each move on a
// scratch clone of pos to derive the next hash, and returns the resulting move sequence.
// Negamax itself returns only a score (see pvs.go); PV display is reconstructed this way
// afterward rather than threaded through every pruning return path, which would otherwise
// have to be plumbed through reverse futility, razoring, null-move, probcut and every other
// early return below.
func ReconstructPV(zt *board.ZobristTable, tt TranspositionTable, pos *board.Position, hash board.ZobristHash) []board.Move {
	clone := pos.Clone()
	h := hash
	var pv []board.Move
	seen := map[board.ZobristHash]bool{}

	for len(pv) < maxPVLength {
		e, ok := tt.Probe(h)
		if !ok || e.Move.IsNoMove() || seen[h] {
			break
		}
		seen[h] = true

		if _, hasMover := clone.Piece(e.Move.PieceID); !hasMover {
			break
		}
		newHash, _, err := board.MakeMove(clone, zt, h, e.Move)
		if err != nil {
			break
		}
		pv = append(pv, e.Move)
		h = newHash
	}
	return pv
}
