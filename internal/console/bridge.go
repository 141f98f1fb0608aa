// File: internal/console/bridge.go

package console

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lirislabs/liris-cli/internal/config"
	"github.com/lirislabs/liris-cli/internal/input"
	"github.com/lirislabs/liris-cli/internal/observability"
)

// Bridge drives one devtools console session through OS input. It holds no
// connection to the browser; every operation is keystrokes and clipboard
// round trips, so any step can fail and every method returns the failure
// explicitly.
type Bridge struct {
	drivers  input.Drivers
	shortcut Shortcut
	cfg      config.ConsoleConfig
	goos     string
	log      *zap.Logger

	// sleep is swappable so tests run without real delays.
	sleep func(time.Duration)

	opened bool
}

// NewBridge resolves the shortcut plan for the platform's browser on the
// current OS. An unknown browser/OS pair fails here, before any input.
func NewBridge(drivers input.Drivers, browser string, cfg config.ConsoleConfig) (*Bridge, error) {
	return newBridgeOS(drivers, browser, runtime.GOOS, cfg)
}

func newBridgeOS(drivers input.Drivers, browser, goos string, cfg config.ConsoleConfig) (*Bridge, error) {
	if err := drivers.Validate(); err != nil {
		return nil, err
	}
	sc, err := Lookup(browser, goos)
	if err != nil {
		return nil, err
	}
	return &Bridge{
		drivers:  drivers,
		shortcut: sc,
		cfg:      cfg,
		goos:     goos,
		log:      observability.GetLogger().Named("console"),
		sleep:    time.Sleep,
	}, nil
}

// Open raises the devtools console with the primary chord. If the primary
// keystroke fails and the plan carries a fallback chord it is tried exactly
// once.
func (b *Bridge) Open() error {
	if err := b.drivers.Keyboard.Hotkey(b.shortcut.Open[0]...); err != nil {
		if len(b.shortcut.Open) < 2 {
			return fmt.Errorf("console open keystroke failed: %w", err)
		}
		b.log.Warn("primary console shortcut failed, trying fallback", zap.Error(err))
		if err := b.drivers.Keyboard.Hotkey(b.shortcut.Open[1]...); err != nil {
			return fmt.Errorf("console open keystroke failed: %w", err)
		}
	}
	b.sleep(b.cfg.OpenSettle)

	if len(b.shortcut.TabNav) > 0 {
		if err := b.drivers.Keyboard.Hotkey(b.shortcut.TabNav...); err != nil {
			return fmt.Errorf("console tab navigation failed: %w", err)
		}
		b.sleep(b.cfg.PasteSettle)
	}
	b.opened = true
	return nil
}

// Eval puts a script on the clipboard, pastes it into the console and
// executes it. The console is cleared first so later sentinel scans only
// see this session's output. The clipboard is deliberately not restored
// here: injected scripts use it as their return channel, and anything the
// operator had on it was already consumed by earlier steps.
func (b *Bridge) Eval(script string) error {
	if err := b.typeAndRun("console.clear();"); err != nil {
		return err
	}
	b.sleep(b.cfg.PasteSettle)
	if err := b.typeAndRun(script); err != nil {
		return err
	}
	b.sleep(b.cfg.ExecSettle)
	return nil
}

func (b *Bridge) typeAndRun(text string) error {
	if err := b.drivers.Clipboard.Copy(text); err != nil {
		return fmt.Errorf("staging script on clipboard failed: %w", err)
	}
	if err := b.drivers.Keyboard.Hotkey(b.editChord("v")...); err != nil {
		return fmt.Errorf("console paste failed: %w", err)
	}
	b.sleep(b.cfg.PasteSettle)
	if err := b.drivers.Keyboard.PressKey("enter"); err != nil {
		return fmt.Errorf("console execute failed: %w", err)
	}
	return nil
}

// WaitSentinel polls the console output for a sentinel line. Each poll
// selects the console text and copies it, then scans the clipboard. The
// console also echoes the pasted script source, which contains the sentinel
// prefix as a string literal, so only a line whose suffix is one of the
// accepted verdicts counts; anything else keeps the poll going. An empty
// accept list takes any suffix. The loop is bounded by an explicit tick
// count so a stalled page cannot hang the caller; the context cancels it
// early.
func (b *Bridge) WaitSentinel(ctx context.Context, prefix string, accept []string, timeout, interval time.Duration) (string, error) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	maxTicks := int(timeout / interval)
	if maxTicks < 1 {
		maxTicks = 1
	}

	for tick := 0; tick < maxTicks; tick++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if err := b.drivers.Keyboard.Hotkey(b.editChord("a")...); err != nil {
			return "", fmt.Errorf("console select-all failed: %w", err)
		}
		if err := b.drivers.Keyboard.Hotkey(b.editChord("c")...); err != nil {
			return "", fmt.Errorf("console copy failed: %w", err)
		}
		out, err := b.drivers.Clipboard.Paste()
		if err != nil {
			return "", fmt.Errorf("console readback failed: %w", err)
		}
		if line, ok := scanForSentinel(out, prefix, accept); ok {
			return line, nil
		}
		b.sleep(interval)
	}
	return "", fmt.Errorf("sentinel %q not seen within %s", prefix, timeout)
}

// Close toggles the console shut with the primary open chord, retrying once
// with the fallback key where the plan has one. Best effort: a close failure
// is reported but callers treat it as advisory, the run's outcome is
// already decided by then.
func (b *Bridge) Close() error {
	if !b.opened {
		return nil
	}
	b.opened = false
	if err := b.drivers.Keyboard.Hotkey(b.shortcut.Open[0]...); err != nil {
		if len(b.shortcut.Open) < 2 {
			return fmt.Errorf("console close keystroke failed: %w", err)
		}
		if err := b.drivers.Keyboard.Hotkey(b.shortcut.Open[1]...); err != nil {
			return fmt.Errorf("console close keystroke failed: %w", err)
		}
	}
	return nil
}

// Note surfaces operator guidance for the resolved browser, if any.
func (b *Bridge) Note() string { return b.shortcut.Note }

// scanForSentinel finds the last line containing prefix whose suffix is one
// of the accepted verdicts and returns that suffix. Later lines win so
// reruns in a dirty console still report the newest result. Lines where the
// prefix appears inside echoed script source carry a garbage suffix and are
// skipped.
func scanForSentinel(out, prefix string, accept []string) (string, bool) {
	var found string
	ok := false
	for _, line := range strings.Split(out, "\n") {
		idx := strings.Index(line, prefix)
		if idx < 0 {
			continue
		}
		suffix := strings.TrimSpace(line[idx+len(prefix):])
		if !acceptedVerdict(suffix, accept) {
			continue
		}
		found = suffix
		ok = true
	}
	return found, ok
}

func acceptedVerdict(suffix string, accept []string) bool {
	if len(accept) == 0 {
		return true
	}
	for _, want := range accept {
		if strings.EqualFold(suffix, want) {
			return true
		}
	}
	return false
}

// editChord builds the OS-appropriate chord for an edit action key.
func (b *Bridge) editChord(key string) Chord {
	if b.goos == "darwin" {
		return Chord{"cmd", key}
	}
	return Chord{"ctrl", key}
}
