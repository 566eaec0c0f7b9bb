package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/eval"
	"github.com/commanderchess/engine/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold the dynamic search parameters for a single launch. A zero Options runs
// depth-unbounded under no time control, which callers should not normally do outside
// tests -- production callers always set at least TimeControl from the difficulty tier.
type Options struct {
	// DepthLimit, if set, caps the search at the given ply depth.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, bounds the search by wall-clock soft/hard deadlines.
	TimeControl lang.Optional[TimeControl]
	// Threads selects the Lazy SMP worker count. Zero or one means single-threaded.
	Threads uint
}

func (o Options) String() string {
	var parts []string
	if v, ok := o.DepthLimit.V(); ok {
		parts = append(parts, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		parts = append(parts, fmt.Sprintf("time=%v", v))
	}
	if o.Threads > 1 {
		parts = append(parts, fmt.Sprintf("threads=%v", o.Threads))
	}
	return fmt.Sprintf("[%v]", strings.Join(parts, ", "))
}

// Launcher manages searches from a root position: launch a search against a forked,
// exclusively-owned position and a PV channel for each deepened iteration, closed once
// the search is exhausted or halted.
type Launcher interface {
	Launch(ctx context.Context, zt *board.ZobristTable, pos *board.Position, rep *board.RepetitionHistory, tt search.TranspositionTable, noise eval.Random, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the caller halt an in-flight search and retrieve the last completed PV.
// Halt is idempotent and safe to call more than once or after the search is already done.
type Handle interface {
	Halt() search.PV
}
