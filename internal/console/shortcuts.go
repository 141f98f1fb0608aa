// File: internal/console/shortcuts.go

// Package console opens a browser devtools console with real keystrokes,
// pastes a script into it, harvests what the script announced, and closes
// it again. It knows nothing about what the scripts do.
package console

import (
	"fmt"
	"strings"
)

// Chord is one hotkey, modifiers first, final key last.
type Chord []string

// Shortcut is the ordered key plan for opening a console on one
// browser/OS pair.
type Shortcut struct {
	// Open holds the chords to try in order. The first is the canonical
	// devtools shortcut, later entries are fallbacks.
	Open []Chord
	// TabNav, when set, is sent after opening to move devtools from
	// whatever panel it remembers onto the console tab.
	TabNav Chord
	// Note carries operator guidance for browsers that need manual setup.
	Note string
}

var browserAliases = map[string]string{
	"chromium": "chrome",
	"mozilla":  "firefox",
}

// shortcuts is keyed by normalized browser, then by GOOS value. Edge opens
// with F12 first, devtools-panel chord second. Opera never gets F12: its
// F12 binding is user-assignable and can trigger arbitrary actions, so its
// fallback is the devtools-panel chord instead.
var shortcuts = map[string]map[string]Shortcut{
	"chrome": {
		"windows": {Open: []Chord{{"ctrl", "shift", "j"}, {"f12"}}, TabNav: Chord{"ctrl", "]"}},
		"linux":   {Open: []Chord{{"ctrl", "shift", "j"}, {"f12"}}, TabNav: Chord{"ctrl", "]"}},
		"darwin":  {Open: []Chord{{"cmd", "alt", "j"}, {"f12"}}, TabNav: Chord{"cmd", "]"}},
	},
	"edge": {
		"windows": {Open: []Chord{{"f12"}, {"ctrl", "shift", "i"}}, TabNav: Chord{"ctrl", "]"}},
		"linux":   {Open: []Chord{{"f12"}, {"ctrl", "shift", "i"}}, TabNav: Chord{"ctrl", "]"}},
		"darwin":  {Open: []Chord{{"f12"}, {"cmd", "alt", "i"}}, TabNav: Chord{"cmd", "]"}},
	},
	"brave": {
		"windows": {Open: []Chord{{"ctrl", "shift", "j"}, {"f12"}}, TabNav: Chord{"ctrl", "]"}},
		"linux":   {Open: []Chord{{"ctrl", "shift", "j"}, {"f12"}}, TabNav: Chord{"ctrl", "]"}},
		"darwin":  {Open: []Chord{{"cmd", "alt", "j"}, {"f12"}}, TabNav: Chord{"cmd", "]"}},
	},
	"firefox": {
		"windows": {Open: []Chord{{"ctrl", "shift", "k"}, {"f12"}}},
		"linux":   {Open: []Chord{{"ctrl", "shift", "k"}, {"f12"}}},
		"darwin":  {Open: []Chord{{"cmd", "alt", "k"}, {"f12"}}},
	},
	"safari": {
		"darwin": {
			Open: []Chord{{"cmd", "alt", "c"}},
			Note: "enable the Develop menu in Safari settings first, or the shortcut does nothing",
		},
	},
	"opera": {
		"windows": {Open: []Chord{{"ctrl", "shift", "j"}, {"ctrl", "shift", "i"}}, Note: "F12 is user-assignable in Opera and is never sent"},
		"linux":   {Open: []Chord{{"ctrl", "shift", "j"}, {"ctrl", "shift", "i"}}, Note: "F12 is user-assignable in Opera and is never sent"},
		"darwin":  {Open: []Chord{{"cmd", "alt", "j"}, {"cmd", "alt", "i"}}, Note: "F12 is user-assignable in Opera and is never sent"},
	},
}

// Normalize folds browser aliases onto their canonical name.
func Normalize(browser string) string {
	b := strings.ToLower(strings.TrimSpace(browser))
	if canonical, ok := browserAliases[b]; ok {
		return canonical
	}
	return b
}

// Lookup resolves the shortcut plan for a browser on an OS. Unknown pairs
// are configuration errors, reported before any key is pressed.
func Lookup(browser, goos string) (Shortcut, error) {
	byOS, ok := shortcuts[Normalize(browser)]
	if !ok {
		return Shortcut{}, fmt.Errorf("unknown browser %q", browser)
	}
	sc, ok := byOS[goos]
	if !ok {
		return Shortcut{}, fmt.Errorf("browser %q has no console shortcut on %s", browser, goos)
	}
	return sc, nil
}

// Known returns the canonical browser names that have any shortcut entry,
// for help output.
func Known() []string {
	return []string{"brave", "chrome", "edge", "firefox", "opera", "safari"}
}
