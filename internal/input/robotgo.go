// File: internal/input/robotgo.go
package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// RobotMouse drives the OS cursor through robotgo.
type RobotMouse struct{}

func (RobotMouse) Click(x, y int) error {
	if x < 0 || y < 0 {
		return fmt.Errorf("%w: click position (%d,%d) out of range", ErrDriver, x, y)
	}
	robotgo.Move(x, y)
	robotgo.Click("left", false)
	return nil
}

// RobotKeyboard drives the OS keyboard through robotgo.
type RobotKeyboard struct{}

func (RobotKeyboard) Hotkey(keys ...string) error {
	if len(keys) == 0 {
		return fmt.Errorf("%w: hotkey requires at least one key", ErrDriver)
	}
	// robotgo takes the tapped key first and modifiers after; the callers
	// pass chords modifier-first ("ctrl", "shift", "j").
	tap := keys[len(keys)-1]
	mods := make([]interface{}, 0, len(keys)-1)
	for _, m := range keys[:len(keys)-1] {
		mods = append(mods, m)
	}
	if err := robotgo.KeyTap(tap, mods...); err != nil {
		return fmt.Errorf("%w: hotkey %v: %v", ErrDriver, keys, err)
	}
	return nil
}

func (RobotKeyboard) PressKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrDriver)
	}
	if err := robotgo.KeyTap(key); err != nil {
		return fmt.Errorf("%w: press %q: %v", ErrDriver, key, err)
	}
	return nil
}

func (RobotKeyboard) TypeText(s string) error {
	robotgo.TypeStr(s)
	return nil
}

// NewSystemDrivers returns the production driver set: robotgo for mouse and
// keyboard, the system clipboard for text transfer.
func NewSystemDrivers() Drivers {
	return Drivers{
		Mouse:     RobotMouse{},
		Keyboard:  RobotKeyboard{},
		Clipboard: SystemClipboard{},
	}
}
