// File: internal/sequencer/state.go

package sequencer

import "time"

// State is a step in the automation sequence. States advance strictly
// forward; the three terminal states never transition out.
type State int

const (
	StateIdle State = iota
	StateFocusingBrowser
	StateClickingField
	StateClearingField
	StateTypingText
	StateSubmitting
	StateWaitingResponse
	StateExtractingResponse
	StateCompleted
	StateFailed
	StateStopped
)

var stateNames = map[State]string{
	StateIdle:               "idle",
	StateFocusingBrowser:    "focusing_browser",
	StateClickingField:      "clicking_field",
	StateClearingField:      "clearing_field",
	StateTypingText:         "typing_text",
	StateSubmitting:         "submitting",
	StateWaitingResponse:    "waiting_response",
	StateExtractingResponse: "extracting_response",
	StateCompleted:          "completed",
	StateFailed:             "failed",
	StateStopped:            "stopped",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the run is over in this state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateStopped
}

// Event is one observable state change, delivered on the run's event
// channel.
type Event struct {
	State   State
	Message string
	At      time.Time
}

// Result is the single outcome of a run.
type Result struct {
	// Success means response text was recovered and validated.
	Success bool
	// Text is the cleaned response, empty unless Success.
	Text string
	// Degraded marks a success reached after the completion detector timed
	// out and extraction went ahead anyway.
	Degraded bool
	// Err classifies the failure; nil when Success.
	Err error
	// Duration covers the whole sequence including cleanup.
	Duration time.Duration
}
