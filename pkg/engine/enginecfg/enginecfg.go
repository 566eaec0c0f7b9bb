// Package enginecfg parses the engine's configuration surface -- mode, difficulty and
// the environment override points -- and derives the search budget each difficulty runs
// under, using case-insensitive option parsing throughout (searchctl.Options,
// engine.Option) rather than a single fixed depth/hash/noise trio.
package enginecfg

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/commanderchess/engine/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Difficulty selects the bot's search strength tier.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// ParseDifficulty parses a difficulty name, case-insensitively. "beginner" aliases Easy
// and "expert" aliases Hard. Defaults to Medium for unrecognized input.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "beginner":
		return Easy
	case "hard", "expert":
		return Hard
	default:
		return Medium
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

// UsesMCTS reports whether this difficulty's root driver is the MCTS+alphabeta tree
// instead of a plain alpha-beta launcher.
func (d Difficulty) UsesMCTS() bool {
	return d == Hard
}

// Budget is the (max depth, time limit) pair a difficulty tier runs its search under.
type Budget struct {
	MaxDepth  uint
	TimeLimit time.Duration
}

// BudgetFor returns the fixed per-difficulty search budget: (4, 2.5s) for Easy, (6, 3.0s)
// for Medium, (8, 8.0s) for Hard.
func BudgetFor(d Difficulty) Budget {
	switch d {
	case Easy:
		return Budget{MaxDepth: 4, TimeLimit: 2500 * time.Millisecond}
	case Hard:
		return Budget{MaxDepth: 8, TimeLimit: 8000 * time.Millisecond}
	default:
		return Budget{MaxDepth: 6, TimeLimit: 3000 * time.Millisecond}
	}
}

// TimeControl derives the soft/hard wall-clock budget a non-MCTS launcher uses: the soft
// deadline leaves headroom for one more iteration, the hard deadline is the full budget.
func (b Budget) TimeControl() searchctl.TimeControl {
	return searchctl.TimeControl{Soft: b.TimeLimit * 7 / 10, Hard: b.TimeLimit}
}

func (b Budget) SearchOptions(threads uint) searchctl.Options {
	return searchctl.Options{
		DepthLimit:  lang.Some(b.MaxDepth),
		TimeControl: lang.Some(b.TimeControl()),
		Threads:     threads,
	}
}

// EvalBackend selects which evaluator a leaf node blends against in the MCTS root
// driver; see pkg/mcts.EvalBackend. "auto" currently resolves to CPU; WebGPU is wired
// as a selectable backend today so a future batched-GPU evaluator has a stable hook.
type EvalBackend int

const (
	CPU EvalBackend = iota
	WebGPU
)

// ParseEvalBackend parses the evaluator backend selector, case-insensitively. Unknown
// values (including "auto") resolve to CPU.
func ParseEvalBackend(s string) EvalBackend {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "webgpu":
		return WebGPU
	default:
		return CPU
	}
}

// Overrides are the environment-driven override points: TT size, forced single-thread,
// and the evaluator backend selector. Each is lang.Optional so a caller can tell "not
// set" apart from "explicitly set to zero".
type Overrides struct {
	TableSizeMiB  lang.Optional[uint]
	SingleThread  lang.Optional[bool]
	EvalBackend   lang.Optional[EvalBackend]
}

const (
	envTableSize    = "COMMANDERCHESS_TT_MIB"
	envSingleThread = "COMMANDERCHESS_SINGLE_THREAD"
	envEvalBackend  = "COMMANDERCHESS_EVAL_BACKEND"
)

// OverridesFromEnv reads the three environment override points, leaving any unset or
// unparsable variable as None.
func OverridesFromEnv() Overrides {
	var o Overrides
	if v, ok := os.LookupEnv(envTableSize); ok {
		if mib, err := strconv.Atoi(v); err == nil && mib >= 0 {
			o.TableSizeMiB = lang.Some(uint(mib))
		}
	}
	if v, ok := os.LookupEnv(envSingleThread); ok {
		o.SingleThread = lang.Some(v == "1" || strings.EqualFold(v, "true"))
	}
	if v, ok := os.LookupEnv(envEvalBackend); ok {
		o.EvalBackend = lang.Some(ParseEvalBackend(v))
	}
	return o
}
