// File: internal/sequencer/validate.go

package sequencer

import (
	"fmt"
	"strings"

	"github.com/lirislabs/liris-cli/internal/selector"
)

// validateResponse accepts or rejects extracted text. The leak list is
// shared with the generated extraction scripts so both sides reject the
// same tooling fragments. Rejections classify as either an instrumentation
// leak or a plain extraction failure so the caller can decide whether a
// fallback attempt is worth it.
func validateResponse(text string, minLen int) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("%w: clipboard was empty", ErrExtraction)
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range selector.LeakMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: found %q", ErrInstrumentationLeak, marker)
		}
	}
	if len(trimmed) < minLen {
		return fmt.Errorf("%w: %d chars is below the %d minimum", ErrExtraction, len(trimmed), minLen)
	}
	return nil
}
