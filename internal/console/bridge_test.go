// File: internal/console/bridge_test.go
package console

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lirislabs/liris-cli/internal/config"
	"github.com/lirislabs/liris-cli/internal/input"
	"github.com/lirislabs/liris-cli/internal/selector"
)

type fakeMouse struct{}

func (fakeMouse) Click(x, y int) error { return nil }

// fakeKeyboard records every keystroke as a flat string. failHotkeys makes
// the first N hotkeys fail.
type fakeKeyboard struct {
	actions     []string
	failHotkeys int
}

func (k *fakeKeyboard) Hotkey(keys ...string) error {
	k.actions = append(k.actions, "hotkey:"+strings.Join(keys, "+"))
	if k.failHotkeys > 0 {
		k.failHotkeys--
		return input.ErrDriver
	}
	return nil
}

func (k *fakeKeyboard) PressKey(key string) error {
	k.actions = append(k.actions, "press:"+key)
	return nil
}

func (k *fakeKeyboard) TypeText(s string) error {
	k.actions = append(k.actions, "type:"+s)
	return nil
}

// fakeClipboard holds one value and optionally serves canned reads.
type fakeClipboard struct {
	value  string
	copies []string
	reads  []string
}

func (c *fakeClipboard) Copy(s string) error {
	c.value = s
	c.copies = append(c.copies, s)
	return nil
}

func (c *fakeClipboard) Paste() (string, error) {
	if len(c.reads) > 0 {
		out := c.reads[0]
		c.reads = c.reads[1:]
		return out, nil
	}
	return c.value, nil
}

func newTestBridge(t *testing.T, browser string) (*Bridge, *fakeKeyboard, *fakeClipboard) {
	t.Helper()
	kb := &fakeKeyboard{}
	cb := &fakeClipboard{}
	drivers := input.Drivers{Mouse: fakeMouse{}, Keyboard: kb, Clipboard: cb}
	b, err := newBridgeOS(drivers, browser, "linux", config.ConsoleConfig{
		OpenSettle:  time.Millisecond,
		ExecSettle:  time.Millisecond,
		PasteSettle: time.Millisecond,
	})
	require.NoError(t, err)
	b.sleep = func(time.Duration) {}
	return b, kb, cb
}

func TestBridgeOpenSendsPrimaryAndTabNav(t *testing.T) {
	b, kb, _ := newTestBridge(t, "chrome")
	require.NoError(t, b.Open())

	assert.Equal(t, []string{
		"hotkey:ctrl+shift+j",
		"hotkey:ctrl+]",
	}, kb.actions)
}

func TestBridgeOpenFallsBackOnceWhenPrimaryFails(t *testing.T) {
	b, kb, _ := newTestBridge(t, "firefox")
	kb.failHotkeys = 1
	require.NoError(t, b.Open())

	assert.Equal(t, []string{
		"hotkey:ctrl+shift+k",
		"hotkey:f12",
	}, kb.actions)
}

// Opera's fallback is the devtools-panel chord; F12 is user-assignable
// there and must never be sent, not even when the primary chord fails.
func TestBridgeOpenOperaNeverSendsF12(t *testing.T) {
	b, kb, _ := newTestBridge(t, "opera")
	require.NoError(t, b.Open())
	assert.Equal(t, []string{"hotkey:ctrl+shift+j"}, kb.actions)

	b2, kb2, _ := newTestBridge(t, "opera")
	kb2.failHotkeys = 1
	require.NoError(t, b2.Open())
	assert.Equal(t, []string{"hotkey:ctrl+shift+j", "hotkey:ctrl+shift+i"}, kb2.actions)
	for _, a := range kb2.actions {
		assert.NotContains(t, a, "f12")
	}
}

func TestBridgeEvalClearsConsoleFirst(t *testing.T) {
	b, kb, cb := newTestBridge(t, "chrome")
	require.NoError(t, b.Eval("1 + 1"))

	require.Len(t, cb.copies, 2)
	assert.Equal(t, "console.clear();", cb.copies[0])
	assert.Equal(t, "1 + 1", cb.copies[1])

	// Each staged snippet is pasted and executed with enter.
	assert.Equal(t, []string{
		"hotkey:ctrl+v", "press:enter",
		"hotkey:ctrl+v", "press:enter",
	}, kb.actions)
}

func TestBridgeWaitSentinelFindsLatestLine(t *testing.T) {
	b, _, cb := newTestBridge(t, "chrome")
	cb.reads = []string{
		"some other output\nnothing yet",
		"noise\nMARKER:partial\ntrailing\nMARKER:final answer\n",
	}

	got, err := b.WaitSentinel(context.Background(), "MARKER:", nil, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "final answer", got)
}

// The console echoes the pasted script source, which contains the sentinel
// prefix inside its emit helper. That echo must never count as a verdict;
// only the exact emitted status lines do.
func TestBridgeWaitSentinelIgnoresEchoedScriptSource(t *testing.T) {
	b, _, cb := newTestBridge(t, "chrome")

	script, err := selector.BuildDetectionScript(selector.ForFamily(selector.FamilyClaude, false).Detection)
	require.NoError(t, err)
	require.Contains(t, script, selector.DetectionSentinel)

	cb.reads = []string{
		script,
		script + "\n" + selector.DetectionSentinel + selector.DetectionStatusDone + "\n",
	}

	verdicts := []string{selector.DetectionStatusDone, selector.DetectionStatusTimeout}
	got, err := b.WaitSentinel(context.Background(), selector.DetectionSentinel, verdicts, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, selector.DetectionStatusDone, got)
}

// A console dump that only ever shows the echoed source must exhaust the
// wait instead of returning a garbage status.
func TestBridgeWaitSentinelTimesOutOnEchoOnly(t *testing.T) {
	b, _, cb := newTestBridge(t, "chrome")

	script, err := selector.BuildDetectionScript(selector.ForFamily(selector.FamilyClaude, false).Detection)
	require.NoError(t, err)
	cb.value = script

	verdicts := []string{selector.DetectionStatusDone, selector.DetectionStatusTimeout}
	_, err = b.WaitSentinel(context.Background(), selector.DetectionSentinel, verdicts, 50*time.Millisecond, 10*time.Millisecond)
	require.Error(t, err)
}

func TestBridgeWaitSentinelBounded(t *testing.T) {
	b, kb, cb := newTestBridge(t, "chrome")
	cb.value = "no sentinel here"

	_, err := b.WaitSentinel(context.Background(), "MARKER:", nil, 50*time.Millisecond, 10*time.Millisecond)
	require.Error(t, err)

	// 5 ticks, each one select-all plus copy.
	assert.Len(t, kb.actions, 10)
}

func TestBridgeWaitSentinelHonorsContext(t *testing.T) {
	b, _, _ := newTestBridge(t, "chrome")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.WaitSentinel(ctx, "MARKER:", nil, time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBridgeCloseTogglesOnceAndOnlyWhenOpen(t *testing.T) {
	b, kb, _ := newTestBridge(t, "firefox")

	// Closing an unopened bridge is a no-op.
	require.NoError(t, b.Close())
	assert.Empty(t, kb.actions)

	require.NoError(t, b.Open())
	kb.actions = nil
	require.NoError(t, b.Close())
	assert.Equal(t, []string{"hotkey:ctrl+shift+k"}, kb.actions)

	require.NoError(t, b.Close())
	assert.Len(t, kb.actions, 1)
}

func TestNewBridgeRejectsUnknownBrowser(t *testing.T) {
	drivers := input.Drivers{Mouse: fakeMouse{}, Keyboard: &fakeKeyboard{}, Clipboard: &fakeClipboard{}}
	_, err := newBridgeOS(drivers, "lynx", "linux", config.ConsoleConfig{})
	require.Error(t, err)
}

func TestNewBridgeRejectsMissingDrivers(t *testing.T) {
	_, err := newBridgeOS(input.Drivers{}, "chrome", "linux", config.ConsoleConfig{})
	require.Error(t, err)
}

func TestScanForSentinel(t *testing.T) {
	line, ok := scanForSentinel("a\nprefix>  value  \nb", "prefix>", nil)
	require.True(t, ok)
	assert.Equal(t, "value", line)

	_, ok = scanForSentinel("nothing", "prefix>", nil)
	assert.False(t, ok)

	// With an accept list, lines whose suffix is not a listed verdict are
	// passed over in favor of the last accepted one.
	line, ok = scanForSentinel(
		`console.log("prefix>" + status); };`+"\nprefix>true\nprefix>garbage",
		"prefix>", []string{"true", "timeout"})
	require.True(t, ok)
	assert.Equal(t, "true", line)

	_, ok = scanForSentinel(`console.log("prefix>" + status); };`, "prefix>", []string{"true"})
	assert.False(t, ok)
}
