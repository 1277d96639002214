package prefilter

import "sync/atomic"

// Tracker wraps a Prefilter with effectiveness tracking.
//
// The tracker monitors how often the prefilter actually rejects an input.
// A prefilter whose literals occur in nearly every input only adds a scan in
// front of the VM, so when the rejection rate drops below a threshold the
// prefilter is retired and Reject always answers false.
//
// A Tracker is safe for concurrent use; its counters are atomic and shared
// by every search of one compiled pattern.
//
// Example usage:
//
//	tracker := prefilter.NewTracker(pf)
//	if tracker.Reject(haystack, start) {
//	    return nil // no match possible
//	}
//	return runVM(haystack, start)
type Tracker struct {
	inner  Prefilter
	config TrackerConfig

	checks   atomic.Uint64 // inputs examined
	rejects  atomic.Uint64 // inputs rejected
	disabled atomic.Bool
}

// TrackerConfig holds configuration for the effectiveness tracker.
type TrackerConfig struct {
	// CheckInterval is how often to check effectiveness (in inputs).
	// Default: 64
	CheckInterval uint64

	// MinRejectRate is the minimum acceptable ratio of rejects/checks.
	// If the rate drops below this, the prefilter is retired.
	// Default: 0.1 (10%)
	MinRejectRate float64

	// WarmupPeriod is the minimum number of inputs before checking effectiveness.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinRejectRate: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker creates a new tracker for the given prefilter with default config.
//
// Returns nil if the inner prefilter is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig creates a new tracker with custom configuration.
//
// Returns nil if the inner prefilter is nil.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}
	if config.CheckInterval == 0 {
		config.CheckInterval = 1
	}
	return &Tracker{inner: inner, config: config}
}

// Reject reports whether no match can start at or after start in haystack.
// A nil or retired tracker never rejects.
func (t *Tracker) Reject(haystack []byte, start int) bool {
	if t == nil || t.disabled.Load() {
		return false
	}

	rejected := t.inner.Find(haystack, start) < 0
	if rejected {
		t.rejects.Add(1)
	}
	n := t.checks.Add(1)
	if n >= t.config.WarmupPeriod && n%t.config.CheckInterval == 0 {
		rate := float64(t.rejects.Load()) / float64(n)
		if rate < t.config.MinRejectRate {
			t.disabled.Store(true)
		}
	}
	return rejected
}

// IsActive returns true if the prefilter is still being used.
func (t *Tracker) IsActive() bool {
	return t != nil && !t.disabled.Load()
}

// Stats returns the current tracking statistics.
//
// Returns (checks, rejects, rate, active).
func (t *Tracker) Stats() (checks, rejects uint64, rate float64, active bool) {
	if t == nil {
		return 0, 0, 0, false
	}
	checks = t.checks.Load()
	rejects = t.rejects.Load()
	if checks > 0 {
		rate = float64(rejects) / float64(checks)
	}
	return checks, rejects, rate, t.IsActive()
}

// Reset clears statistics and re-enables the prefilter.
func (t *Tracker) Reset() {
	t.checks.Store(0)
	t.rejects.Store(0)
	t.disabled.Store(false)
}

// Inner returns the underlying prefilter.
func (t *Tracker) Inner() Prefilter {
	if t == nil {
		return nil
	}
	return t.inner
}
