package engine

import (
	"github.com/commanderchess/engine/pkg/board"
)

// Rule is one hand-coded opening guideline: When reports whether the rule applies to pos,
// Propose returns its ranked candidate moves (best first) when it does. A small table of
// (predicate on position) -> (ranked candidate moves) stands in for what a conventional
// chess engine would do with a literal square-to-square opening line table -- Commander
// Chess has no recorded opening theory to encode, only a handful of early-game heuristics.
type Rule struct {
	Name    string
	When    func(pos *board.Position) bool
	Propose func(pos *board.Position) []board.Move
}

// Book proposes a handful of candidate moves for the side to move, to be re-ranked by the
// caller's root style scorer alongside the tree search result (the root-driver design: "may consult
// a tiny hand-coded opening book for Blue that proposes a handful of moves, each scored by
// board_score - opening_risk"). An empty return means the book has nothing to add and the
// caller should rely on search alone.
type Book interface {
	Propose(pos *board.Position) []board.Move
}

// NoBook never proposes anything.
var NoBook Book = emptyBook{}

type emptyBook struct{}

func (emptyBook) Propose(*board.Position) []board.Move { return nil }

// handCraftedBook is a small, fixed rule table evaluated in order; the first matching
// rule's proposal is returned.
type handCraftedBook struct {
	rules []Rule
}

// NewHandCraftedBook builds a book from rules, evaluated in order; only the first
// matching rule proposes moves.
func NewHandCraftedBook(rules []Rule) Book {
	return &handCraftedBook{rules: rules}
}

func (b *handCraftedBook) Propose(pos *board.Position) []board.Move {
	for _, r := range b.rules {
		if r.When(pos) {
			if moves := r.Propose(pos); len(moves) > 0 {
				return moves
			}
		}
	}
	return nil
}

// DefaultBook is the engine's small early-game heuristic book: advance the Commander's
// escort before committing the Navy, and keep the Air Force grounded until the board has
// opened up, matching the early-game Air Force discouragement the root reranking already
// applies.
func DefaultBook(plyBudget int) Book {
	return NewHandCraftedBook([]Rule{
		{
			Name: "develop-before-navy",
			When: func(pos *board.Position) bool {
				return countMoved(pos) < plyBudget
			},
			Propose: func(pos *board.Position) []board.Move {
				side := pos.Side()
				var candidates []board.Move
				for _, m := range board.GenerateMoves(pos, side) {
					mover, ok := pos.Piece(m.PieceID)
					if !ok {
						continue
					}
					switch mover.Kind {
					case board.Infantry, board.Tank, board.Artillery, board.AntiAircraft:
						candidates = append(candidates, m)
					}
				}
				return candidates
			},
		},
	})
}

// countMoved approximates how early the game is by counting pieces off their starting
// row -- the book has no move-history access, only the current position, so this is the
// cheapest proxy for "early game" available to it.
func countMoved(pos *board.Position) int {
	n := 0
	for _, p := range pos.AllAlive() {
		if p.Row != p.Side.HomeRow() && p.Row != homeEscort(p.Side) {
			n++
		}
	}
	return n
}

// homeEscort is the row just in front of a side's home row, where most non-Headquarters
// units start.
func homeEscort(s board.Side) int8 {
	if s == board.Red {
		return 1
	}
	return board.NumRows - 2
}
