// File: internal/input/drivers_test.go
package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriversValidate(t *testing.T) {
	full := NewSystemDrivers()
	assert.NoError(t, full.Validate())

	testCases := []struct {
		name string
		d    Drivers
	}{
		{"missing mouse", Drivers{Keyboard: RobotKeyboard{}, Clipboard: SystemClipboard{}}},
		{"missing keyboard", Drivers{Mouse: RobotMouse{}, Clipboard: SystemClipboard{}}},
		{"missing clipboard", Drivers{Mouse: RobotMouse{}, Keyboard: RobotKeyboard{}}},
		{"empty", Drivers{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.d.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDriver))
		})
	}
}

// Argument guards run before any OS call, so they are testable headless.
func TestDriverArgumentGuards(t *testing.T) {
	err := RobotMouse{}.Click(-1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDriver))

	err = RobotKeyboard{}.Hotkey()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDriver))

	err = RobotKeyboard{}.PressKey("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDriver))
}
