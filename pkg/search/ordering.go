package search

import "github.com/commanderchess/engine/pkg/board"

// Priority bands for move ordering: TT/PV moves are placed first by
// the caller via board.First, so these only need to separate everything after that.
const (
	captureBase  board.MovePriority = 1_000_000
	counterScore board.MovePriority = 400_000
	killerScore0 board.MovePriority = 390_000
	killerScore1 board.MovePriority = 380_000
	quietBase    board.MovePriority = 0
)

// OrderMoves returns a priority function for the given node: captures are scored by
// MVV/LVA refined by SEE (winning captures rank above quiets, losing captures below),
// then the counter-move to prevMove, then the two killers at ply, then quiet history plus
// continuation history. Combine with board.First(ttMove, ...) at the call site to put the
// transposition-table/PV move first.
func (c *Context) OrderMoves(zt *board.ZobristTable, pos *board.Position, ply int, prevMove board.Move) board.MovePriorityFn {
	side := pos.Side()
	p := minPly(ply)

	return func(m board.Move) board.MovePriority {
		top, hasTop := pos.TopAt(m.To())
		if (hasTop && top.Side != side) || m.Bombard {
			see := board.MovePriority(SEE(zt, pos, m))
			if see < 0 {
				return quietBase - captureBase + see // losing captures go after the quiet moves
			}
			return captureBase + see
		}
		if cm, ok := c.counterOf(prevMove); ok && cm.Equals(m) {
			return counterScore
		}
		if c.killers[p][0].Equals(m) {
			return killerScore0
		}
		if c.killers[p][1].Equals(m) {
			return killerScore1
		}
		mover, _ := pos.Piece(m.PieceID)
		h := c.historyOf(side, mover.Kind, m) + c.continuationOf(prevMove, m, mover.Kind)
		return quietBase + board.MovePriority(h)
	}
}

// IsQuiet reports whether m is a quiet move (no capture, no bombard strike) against pos.
func IsQuiet(pos *board.Position, m board.Move) bool {
	top, hasTop := pos.TopAt(m.To())
	if m.Bombard {
		return false
	}
	return !(hasTop && top.Side != pos.Side())
}

func minPly(ply int) int {
	if ply >= maxPly {
		return maxPly - 1
	}
	return ply
}
