// File: internal/profile/profile_test.go
package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lirislabs/liris-cli/internal/selector"
)

func validPlatform() Platform {
	return Platform{
		Name:   "claude-web",
		URL:    "https://claude.ai/new",
		Family: selector.FamilyClaude,
		Browser: BrowserSettings{
			Browser:        "chrome",
			WindowPosition: Point{X: 640, Y: 20},
		},
		Positions: Positions{
			InputField: Point{X: 640, Y: 900},
		},
		ResponseSelectors: []string{".font-claude-message:last-child"},
	}
}

func TestPlatformValidate(t *testing.T) {
	p := validPlatform()
	require.NoError(t, p.Validate())

	testCases := []struct {
		name   string
		mutate func(*Platform)
	}{
		{"missing name", func(p *Platform) { p.Name = "  " }},
		{"missing browser", func(p *Platform) { p.Browser.Browser = "" }},
		{"negative input position", func(p *Platform) { p.Positions.InputField.X = -5 }},
		{"unknown family", func(p *Platform) { p.Family = selector.Family("skynet") }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlatform()
			tc.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestPlatformEmptyFamilyIsAllowed(t *testing.T) {
	p := validPlatform()
	p.Family = ""
	p.Markup = `<div data-is-streaming="false"></div>`
	assert.NoError(t, p.Validate())
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platforms.yaml")
	in := &Store{Platforms: []Platform{validPlatform()}}
	require.NoError(t, in.Save(path))

	out, err := Load(path)
	require.NoError(t, err)
	require.Len(t, out.Platforms, 1)
	assert.Equal(t, in.Platforms[0], out.Platforms[0])
}

func TestLoadRejectsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platforms.yaml")
	yaml := `
platforms:
  - name: ""
    browser:
      browser: chrome
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platforms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platforms: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestFindIsCaseInsensitive(t *testing.T) {
	s := &Store{Platforms: []Platform{validPlatform()}}

	p, err := s.Find("CLAUDE-WEB")
	require.NoError(t, err)
	assert.Equal(t, "claude-web", p.Name)

	_, err = s.Find("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}
