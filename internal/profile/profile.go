// File: internal/profile/profile.go

// Package profile holds the per-platform automation profiles: which browser
// hosts the chat UI, where on screen its input field sits, and any selector
// overrides recorded for that vendor. Profiles live in a YAML file beside
// the config and are plain data, no behavior.
package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lirislabs/liris-cli/internal/selector"
)

// Point is a screen coordinate in pixels.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// BrowserSettings names the hosting browser and how to bring it to front.
type BrowserSettings struct {
	// Browser is the vendor name used for console shortcut lookup
	// (chrome, firefox, edge, safari, opera, brave, or an alias).
	Browser string `yaml:"browser"`
	// WindowPosition is a neutral spot inside the browser window. Clicking
	// it claims OS focus without touching any control.
	WindowPosition Point `yaml:"window_position"`
	// AlreadyActive skips the focus click when the operator guarantees the
	// window is frontmost.
	AlreadyActive bool `yaml:"already_active"`
}

// Positions are the screen coordinates of the chat controls.
type Positions struct {
	InputField Point `yaml:"input_field"`
}

// Platform is one automatable chat UI.
type Platform struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	// Family pins the vendor family, bypassing markup classification.
	// Empty means classify from Markup at run time.
	Family selector.Family `yaml:"family,omitempty"`
	// Markup is a captured snippet of the response area, fed to the
	// generator when Family is unset.
	Markup string `yaml:"markup,omitempty"`

	Browser   BrowserSettings `yaml:"browser"`
	Positions Positions       `yaml:"positions"`

	// ResponseSelectors are operator-recorded extraction selectors. They are
	// tried before anything the generator derives.
	ResponseSelectors []string `yaml:"response_selectors,omitempty"`
}

// Validate checks the fields a run cannot start without.
func (p *Platform) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("platform profile is missing a name")
	}
	if strings.TrimSpace(p.Browser.Browser) == "" {
		return fmt.Errorf("platform %q names no browser", p.Name)
	}
	if p.Positions.InputField.X < 0 || p.Positions.InputField.Y < 0 {
		return fmt.Errorf("platform %q has a negative input field position", p.Name)
	}
	if p.Family != "" && !p.Family.Valid() {
		return fmt.Errorf("platform %q names unknown family %q", p.Name, p.Family)
	}
	return nil
}

// Store is the loaded profile file.
type Store struct {
	Platforms []Platform `yaml:"platforms"`
}

// Load reads and validates a profile file.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles %s: %w", path, err)
	}
	var s Store
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse profiles %s: %w", path, err)
	}
	for i := range s.Platforms {
		if err := s.Platforms[i].Validate(); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// Save writes the store back out, creating the file if needed.
func (s *Store) Save(path string) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write profiles %s: %w", path, err)
	}
	return nil
}

// Find returns the named platform, matching case-insensitively.
func (s *Store) Find(name string) (*Platform, error) {
	for i := range s.Platforms {
		if strings.EqualFold(s.Platforms[i].Name, name) {
			return &s.Platforms[i], nil
		}
	}
	return nil, fmt.Errorf("no profile named %q", name)
}
