// File: internal/input/drivers.go

// Package input defines the OS-level mouse, keyboard, and clipboard
// primitives the automation engine drives. The devices are OS singletons;
// callers must serialize access, there is no internal locking here.
package input

import (
	"errors"
	"fmt"
)

// ErrDriver marks a failed OS-level input action. Every adapter error wraps
// it so callers can classify failures with errors.Is.
var ErrDriver = errors.New("input driver failure")

// Mouse performs positional clicks in screen coordinates.
type Mouse interface {
	Click(x, y int) error
}

// Keyboard sends keystrokes to whatever currently owns the OS input focus.
type Keyboard interface {
	// Hotkey presses the chord, e.g. Hotkey("ctrl", "shift", "j").
	Hotkey(keys ...string) error
	// PressKey taps a single key, e.g. "enter", "f12", "delete".
	PressKey(key string) error
	// TypeText types the string character by character.
	TypeText(s string) error
}

// Clipboard reads and writes the OS clipboard.
type Clipboard interface {
	Copy(s string) error
	Paste() (string, error)
}

// Drivers aggregates the three device capabilities for injection.
type Drivers struct {
	Mouse     Mouse
	Keyboard  Keyboard
	Clipboard Clipboard
}

// Validate returns an error if any capability is missing.
func (d Drivers) Validate() error {
	if d.Mouse == nil || d.Keyboard == nil || d.Clipboard == nil {
		return fmt.Errorf("%w: mouse, keyboard, and clipboard drivers are all required", ErrDriver)
	}
	return nil
}
