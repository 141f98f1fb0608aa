// File: internal/sequencer/validate_test.go
package sequencer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResponse(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"clean response", "The capital of France is Paris.", nil},
		{"clean response with padding", "  A perfectly fine answer here.  ", nil},
		{"empty", "", ErrExtraction},
		{"whitespace only", "   \n\t ", ErrExtraction},
		{"too short", "Short reply", ErrExtraction},
		{"leftover clear command", "console.clear();", ErrInstrumentationLeak},
		{"script fragment", "const result = document.body.innerText;", ErrInstrumentationLeak},
		{"logging fragment", "here is some text with console.log('x') inside it", ErrInstrumentationLeak},
		{"query fragment", "document.querySelector('.answer') returned nothing", ErrInstrumentationLeak},
		{"let declaration", "let x = 5 is how you declare a variable", ErrInstrumentationLeak},
		{"anonymous function", "an IIFE looks like function() { ... }", ErrInstrumentationLeak},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateResponse(tc.text, 15)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v, want %v", err, tc.wantErr)
		})
	}
}

// Leak detection outranks the length check: a short leak is still a leak.
func TestValidateResponseLeakBeatsLength(t *testing.T) {
	err := validateResponse("let x=1", 15)
	assert.True(t, errors.Is(err, ErrInstrumentationLeak))
}

func TestValidateResponseMinLengthBoundary(t *testing.T) {
	exactly := strings.Repeat("a", 15)
	assert.NoError(t, validateResponse(exactly, 15))
	assert.Error(t, validateResponse(exactly[:14], 15))
}
