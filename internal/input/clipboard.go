// File: internal/input/clipboard.go
package input

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard is the production Clipboard backed by the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Copy(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("%w: clipboard write: %v", ErrDriver, err)
	}
	return nil
}

func (SystemClipboard) Paste() (string, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: clipboard read: %v", ErrDriver, err)
	}
	return s, nil
}
