// File: internal/sequencer/waithint.go

package sequencer

import (
	"strings"
	"time"
)

// WaitHint estimates, from the prompt's length, how long the engine listens
// for the detector's verdict. Longer prompts tend to produce longer
// generations. An early verdict ends the wait sooner; exhausting it
// degrades the run into extraction. The estimate is 2s base plus 0.05s per
// character and 0.15s per word, clamped to [min, max] seconds.
func WaitHint(prompt string, min, max float64) time.Duration {
	chars := float64(len(prompt))
	words := float64(len(strings.Fields(prompt)))
	secs := 2.0 + chars*0.05 + words*0.15
	if secs < min {
		secs = min
	}
	if secs > max {
		secs = max
	}
	return time.Duration(secs * float64(time.Second))
}
