package board

import "math/rand"

// ZobristHash is a position hash over piece-state-squares. Intended for threefold
// repetition detection and transposition table indexing. See the lifecycle contract Zobrist scheme.
//
// See also: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristHash uint64

// ZobristTable is a pseudo-randomized table for computing a position hash: 88
// piece-states (kind x side x hero x carried) x 132 squares, plus two side-to-move keys.
// Initialized exactly once with a fixed seed, per the resource policy Resource policy.
type ZobristTable struct {
	pieces [NumZobristStates][NumSquares]ZobristHash
	turn   [NumSides]ZobristHash
}

func NewZobristTable(seed int64) *ZobristTable {
	ret := &ZobristTable{}
	r := rand.New(rand.NewSource(seed))

	for s := 0; s < NumZobristStates; s++ {
		for sq := 0; sq < NumSquares; sq++ {
			ret.pieces[s][sq] = ZobristHash(r.Uint64())
		}
	}
	for s := ZeroSide; s < NumSides; s++ {
		ret.turn[s] = ZobristHash(r.Uint64())
	}
	return ret
}

// Hash computes the Zobrist hash for the given position from scratch. Incremental
// updates are applied via XorPiece/XorTurn below, each an O(1) operation.
func (z *ZobristTable) Hash(pos *Position) ZobristHash {
	var hash ZobristHash
	for _, p := range pos.AllAlive() {
		hash ^= z.pieces[zobristState(p)][p.Square().Index()]
	}
	hash ^= z.turn[pos.Side()]
	return hash
}

// XorPiece XORs the key for p's current (kind, side, hero, carried) state and square into
// the hash. Calling it twice for the same piece-state-square cancels out, so make/unmake
// XORs the same key on the way out that it XORed in on the way in.
func (z *ZobristTable) XorPiece(hash ZobristHash, p Piece) ZobristHash {
	return hash ^ z.pieces[zobristState(p)][p.Square().Index()]
}

// XorTurn XORs the side-to-move key.
func (z *ZobristTable) XorTurn(hash ZobristHash, side Side) ZobristHash {
	return hash ^ z.turn[side]
}
