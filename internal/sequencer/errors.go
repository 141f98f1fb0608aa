// File: internal/sequencer/errors.go

package sequencer

import "errors"

// Failure classes for a run. Callers match with errors.Is; every terminal
// failure a run can report wraps exactly one of these.
var (
	// ErrConfiguration covers anything detectable before input starts: a
	// broken profile, an unknown browser, a config with no usable selector.
	ErrConfiguration = errors.New("configuration error")

	// ErrInputDriver covers OS-level mouse, keyboard or clipboard failures.
	ErrInputDriver = errors.New("input driver error")

	// ErrExtraction means no acceptable response text was recovered after
	// the fallback attempt.
	ErrExtraction = errors.New("extraction failed")

	// ErrInstrumentationLeak means the recovered text was our own tooling
	// (script fragments, console commands) rather than a response.
	ErrInstrumentationLeak = errors.New("instrumentation leaked into extracted text")

	// ErrStopped is the outcome of an operator force stop.
	ErrStopped = errors.New("stopped by user")

	// ErrRunActive is returned by Start while another run holds the lease.
	ErrRunActive = errors.New("a run is already active")
)
