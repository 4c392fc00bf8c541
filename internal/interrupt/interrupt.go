// Package interrupt provides the single piece of externally-mutated state an
// in-progress evaluation reads: an atomic cancellation flag plus an optional
// monotonic deadline (spec.md §4.7, §5).
package interrupt

import (
	"sync/atomic"
	"time"

	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
)

// Signal is safe to read from another goroutine while an evaluation using it
// is in progress; it is never shared between concurrent evaluations (spec.md
// §5 — callers intending parallelism serialise Context state instead).
type Signal struct {
	flag     atomic.Bool
	deadline time.Time // zero value means "no deadline"
}

// New builds a Signal with an optional timeout. timeout <= 0 means no
// deadline.
func New(timeout time.Duration) *Signal {
	s := &Signal{}
	if timeout > 0 {
		s.deadline = time.Now().Add(timeout)
	}
	return s
}

// Trigger requests cancellation from another goroutine.
func (s *Signal) Trigger() { s.flag.Store(true) }

// Check reports interrupted/timed-out, to be called at every recursion point
// and tight loop per spec.md §4.7.
func (s *Signal) Check() error {
	if s == nil {
		return nil
	}
	if s.flag.Load() {
		return ferr.New(kind.Interrupted, "interrupted")
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return ferr.New(kind.TimedOut, "timed out")
	}
	return nil
}
