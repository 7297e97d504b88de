// Package statuscb defines the status-callback contract shared by the
// composite-key strengthening loop and the public API (spec §6): a
// function of (progress 0-100, text) returning Continue or Cancel, plus a
// rate-limited wrapper so a slow caller-supplied callback can't turn a
// CPU-bound strengthening loop into an I/O-bound one.
package statuscb

import (
	"time"

	"golang.org/x/time/rate"
)

// Signal is the caller's verdict after observing a progress report.
type Signal int

const (
	// Continue lets the operation proceed.
	Continue Signal = iota
	// Cancel aborts the operation at the next sampling point.
	Cancel
)

// Callback reports progress as a percentage (0-100) plus a short
// human-readable description, and returns whether to keep going.
type Callback func(progress int, text string) Signal

// SampleRounds is the number of strengthening rounds between two sampling
// points, at each of which the loop offers a report to a Throttled.
const SampleRounds = 8192

// Throttled wraps cb so it is invoked at most once per the given interval,
// always invoking it for the final (100%) report regardless of timing.
// A Cancel from cb is seen only on calls that pass the limiter: a
// non-final report that finds no token is dropped and returns Continue,
// so when sampling points come faster than the limit, more than
// SampleRounds rounds pass between two Cancel checks.
type Throttled struct {
	cb      Callback
	limiter *rate.Limiter
}

// NewThrottled wraps cb with a token-bucket limiter allowing roughly
// maxPerSecond calls per second, bursting by one.
func NewThrottled(cb Callback, maxPerSecond float64) *Throttled {
	if cb == nil {
		return nil
	}
	return &Throttled{cb: cb, limiter: rate.NewLimiter(rate.Limit(maxPerSecond), 1)}
}

// Report invokes the wrapped callback if the limiter currently has a token
// available, or unconditionally when final is true. It never blocks.
func (t *Throttled) Report(progress int, text string, final bool) Signal {
	if t == nil || t.cb == nil {
		return Continue
	}
	if !final && !t.limiter.AllowN(time.Now(), 1) {
		return Continue
	}
	return t.cb(progress, text)
}
