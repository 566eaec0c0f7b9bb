// Package searchctl drives iterative-deepening search over a fixed position: time control,
// aspiration windows, move-stability early exit and the single-thread launcher (the Lazy
// SMP launcher is in package smp).
package searchctl

import (
	"fmt"
	"time"
)

// TimeControl is a fixed soft/hard wall-clock budget for one search, derived from
// difficulty rather than a remaining chess clock (the engine surface has no clock concept, only a
// per-move (max_depth, time_limit) pair per difficulty).
type TimeControl struct {
	Soft, Hard time.Duration
}

func (t TimeControl) String() string {
	return fmt.Sprintf("%.1fs<>%.1fs", t.Soft.Seconds(), t.Hard.Seconds())
}

// Limits returns the soft and hard deadlines. Once the soft limit has passed, the drivers
// stop before the next iteration as soon as the best root move has held for
// stabilityThreshold iterations past depth 4; the hard limit is enforced mid-iteration via
// the node-count poll.
func (t TimeControl) Limits() (time.Duration, time.Duration) {
	return t.Soft, t.Hard
}
