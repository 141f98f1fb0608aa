// File: internal/sequencer/sequencer.go

// Package sequencer runs the end-to-end automation sequence: focus the
// browser, type and submit a prompt through OS input, then use an injected
// console script and the clipboard to recover the response. One run at a
// time; the run's result arrives on its Done channel, never through shared
// state.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lirislabs/liris-cli/internal/config"
	"github.com/lirislabs/liris-cli/internal/console"
	"github.com/lirislabs/liris-cli/internal/input"
	"github.com/lirislabs/liris-cli/internal/observability"
	"github.com/lirislabs/liris-cli/internal/profile"
	"github.com/lirislabs/liris-cli/internal/selector"
)

// consoleBridge is what the sequencer needs from a devtools session.
// Satisfied by *console.Bridge; tests substitute a fake.
type consoleBridge interface {
	Open() error
	Eval(script string) error
	WaitSentinel(ctx context.Context, prefix string, accept []string, timeout, interval time.Duration) (string, error)
	Close() error
}

// Sequencer owns the input drivers and enforces the one-active-run rule.
type Sequencer struct {
	drivers    input.Drivers
	cfg        config.SequencerConfig
	consoleCfg config.ConsoleConfig
	log        *zap.Logger

	// openLimiter spaces out console-open attempts so rapid back-to-back
	// runs do not race the browser's devtools animation.
	openLimiter *rate.Limiter

	// test hooks
	sleep     func(time.Duration)
	newBridge func(browser string) (consoleBridge, error)

	mu     sync.Mutex
	active *Run
}

// New builds a sequencer over real OS drivers.
func New(drivers input.Drivers, cfg config.SequencerConfig, consoleCfg config.ConsoleConfig) (*Sequencer, error) {
	if err := drivers.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	s := &Sequencer{
		drivers:     drivers,
		cfg:         cfg,
		consoleCfg:  consoleCfg,
		log:         observability.GetLogger().Named("sequencer"),
		openLimiter: rate.NewLimiter(rate.Every(cfg.OpenThrottle), 1),
		sleep:       time.Sleep,
	}
	s.newBridge = func(browser string) (consoleBridge, error) {
		return console.NewBridge(drivers, browser, consoleCfg)
	}
	return s, nil
}

// Run is one in-flight or finished automation sequence.
type Run struct {
	// ID identifies the run in logs and events.
	ID uuid.UUID
	// Lease is the session token held while the run is live. It is minted
	// at Start and released when the run reaches a terminal state; Start
	// refuses new runs while any lease is outstanding.
	Lease uuid.UUID

	events chan Event
	done   chan struct{}
	stop   chan struct{}

	stopOnce sync.Once

	mu     sync.Mutex
	state  State
	result Result
}

// Events streams state transitions. The channel is buffered and never
// blocks the run; slow consumers lose intermediate events, not the result.
func (r *Run) Events() <-chan Event { return r.events }

// Done closes when the run reaches a terminal state and the result is set.
func (r *Run) Done() <-chan struct{} { return r.done }

// State returns the current step.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Result is valid once Done is closed.
func (r *Run) Result() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// Stop requests a force stop. Idempotent; the run halts at the next step
// boundary, never mid-keystroke, and resolves to a stopped result.
func (r *Run) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Run) transition(s State, msg string) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
	select {
	case r.events <- Event{State: s, Message: msg, At: time.Now()}:
	default:
	}
}

func (r *Run) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

// Start validates the platform and launches the sequence in the background.
// It returns immediately; progress and the outcome flow through the Run.
// A second Start while a run is live fails with ErrRunActive.
func (s *Sequencer) Start(ctx context.Context, plat *profile.Platform, prompt string) (*Run, error) {
	if plat == nil {
		return nil, fmt.Errorf("%w: no platform", ErrConfiguration)
	}
	if err := plat.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if prompt == "" {
		return nil, fmt.Errorf("%w: empty prompt", ErrConfiguration)
	}

	analysis := s.analyze(plat)
	detectScript, extractScript, fallbackScript, err := s.buildScripts(analysis, plat)
	if err != nil {
		return nil, err
	}

	bridge, err := s.newBridge(plat.Browser.Browser)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	s.mu.Lock()
	if s.active != nil {
		select {
		case <-s.active.done:
			s.active = nil
		default:
			s.mu.Unlock()
			return nil, ErrRunActive
		}
	}
	run := &Run{
		ID:     uuid.New(),
		Lease:  uuid.New(),
		events: make(chan Event, 32),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
		state:  StateIdle,
	}
	s.active = run
	s.mu.Unlock()

	s.log.Info("run starting",
		zap.String("run_id", run.ID.String()),
		zap.String("platform", plat.Name),
		zap.String("family", string(analysis.Family)))

	go s.execute(ctx, run, plat, analysis, prompt, bridge, detectScript, extractScript, fallbackScript)
	return run, nil
}

func (s *Sequencer) analyze(plat *profile.Platform) selector.Analysis {
	if plat.Family != "" {
		return selector.ForFamily(plat.Family, selector.HasThinkingMarkup(plat.Family, plat.Markup))
	}
	return selector.Analyze(plat.Markup)
}

// buildScripts synthesizes and syntax-checks every script before any input
// happens, so a generator bug surfaces as a configuration error instead of
// garbage pasted into a live console.
func (s *Sequencer) buildScripts(a selector.Analysis, plat *profile.Platform) (detect, extract, fallback string, err error) {
	detect, err = selector.BuildDetectionScript(a.Detection)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	extract, err = selector.BuildExtractionScript(a.Extraction, plat.ResponseSelectors...)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	// The fallback attempt drops overrides and vendor selectors and goes
	// straight at generic last-child extraction with minimal cleaning.
	fallback, err = selector.BuildExtractionScript(selector.ExtractionConfig{
		PrimarySelector: "div:last-child",
		TextCleaning:    selector.CleaningBasic,
	})
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for _, script := range []string{detect, extract, fallback} {
		if err := selector.CheckSyntax(script); err != nil {
			return "", "", "", fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}
	return detect, extract, fallback, nil
}

func (s *Sequencer) execute(ctx context.Context, run *Run, plat *profile.Platform, analysis selector.Analysis, prompt string, bridge consoleBridge, detectScript, extractScript, fallbackScript string) {
	started := time.Now()
	consoleOpen := false

	finish := func(res Result) {
		if consoleOpen {
			if err := bridge.Close(); err != nil {
				s.log.Warn("console close failed", zap.String("run_id", run.ID.String()), zap.Error(err))
			}
		}
		res.Duration = time.Since(started)
		run.mu.Lock()
		run.result = res
		run.mu.Unlock()
		switch {
		case res.Success:
			run.transition(StateCompleted, "completed")
		case errors.Is(res.Err, ErrStopped):
			run.transition(StateStopped, ErrStopped.Error())
		default:
			run.transition(StateFailed, res.Err.Error())
		}
		close(run.done)
		s.log.Info("run finished",
			zap.String("run_id", run.ID.String()),
			zap.Bool("success", res.Success),
			zap.Bool("degraded", res.Degraded),
			zap.Duration("duration", res.Duration),
			zap.Error(res.Err))
	}

	checkStop := func() bool {
		if run.stopped() {
			return true
		}
		select {
		case <-ctx.Done():
			run.Stop()
			return true
		default:
			return false
		}
	}

	// Focus. Failures here are logged and swallowed: the window may already
	// be frontmost, and the click-field step will surface a real problem.
	if checkStop() {
		finish(Result{Err: ErrStopped})
		return
	}
	run.transition(StateFocusingBrowser, plat.Browser.Browser)
	if !plat.Browser.AlreadyActive {
		pos := plat.Browser.WindowPosition
		if err := s.drivers.Mouse.Click(pos.X, pos.Y); err != nil {
			s.log.Warn("focus click failed, continuing", zap.Error(err))
		}
		s.sleep(s.cfg.SettleDelay)
	}

	if checkStop() {
		finish(Result{Err: ErrStopped})
		return
	}
	run.transition(StateClickingField, "input field")
	field := plat.Positions.InputField
	if err := s.drivers.Mouse.Click(field.X, field.Y); err != nil {
		finish(Result{Err: fmt.Errorf("%w: clicking input field: %v", ErrInputDriver, err)})
		return
	}
	s.sleep(s.cfg.ClickSettle)

	if checkStop() {
		finish(Result{Err: ErrStopped})
		return
	}
	run.transition(StateClearingField, "select all and delete")
	if err := s.clearField(); err != nil {
		finish(Result{Err: err})
		return
	}

	if checkStop() {
		finish(Result{Err: ErrStopped})
		return
	}
	run.transition(StateTypingText, fmt.Sprintf("%d chars", len(prompt)))
	if err := s.typePrompt(prompt); err != nil {
		finish(Result{Err: err})
		return
	}

	if checkStop() {
		finish(Result{Err: ErrStopped})
		return
	}
	run.transition(StateSubmitting, "")
	if err := s.submit(analysis.Family); err != nil {
		finish(Result{Err: err})
		return
	}

	// Detection. The wait hint bounds the whole sentinel wait: an early
	// verdict cuts it short, exhausting it degrades into extraction.
	if checkStop() {
		finish(Result{Err: ErrStopped})
		return
	}
	hint := WaitHint(prompt, s.cfg.WaitHintMin, s.cfg.WaitHintMax)
	run.transition(StateWaitingResponse, hint.String())

	degraded, err := s.detect(ctx, run, bridge, detectScript, hint, &consoleOpen)
	if err != nil {
		finish(Result{Err: err})
		return
	}

	// Extraction. A detector timeout does not abort; the response may be
	// complete even when no completion signal was recognized.
	if checkStop() {
		finish(Result{Err: ErrStopped})
		return
	}
	run.transition(StateExtractingResponse, "")
	text, err := s.extract(ctx, bridge, extractScript)
	if err != nil {
		s.log.Warn("primary extraction rejected, trying fallback",
			zap.String("run_id", run.ID.String()), zap.Error(err))
		text, err = s.extract(ctx, bridge, fallbackScript)
	}
	if err != nil {
		finish(Result{Degraded: degraded, Err: err})
		return
	}

	finish(Result{Success: true, Degraded: degraded, Text: text})
}

func (s *Sequencer) clearField() error {
	if err := s.drivers.Keyboard.Hotkey("ctrl", "a"); err != nil {
		return fmt.Errorf("%w: select all: %v", ErrInputDriver, err)
	}
	if err := s.drivers.Keyboard.PressKey("delete"); err != nil {
		return fmt.Errorf("%w: delete: %v", ErrInputDriver, err)
	}
	s.sleep(s.cfg.ClickSettle)
	return nil
}

// typePrompt prefers the clipboard paste path: it is orders of magnitude
// faster than per-character typing and immune to keyboard layout issues.
// The operator's clipboard is restored afterwards. Driver typing is the
// fallback when any clipboard step fails.
func (s *Sequencer) typePrompt(prompt string) error {
	prior, priorErr := s.drivers.Clipboard.Paste()

	pasteErr := func() error {
		if err := s.drivers.Clipboard.Copy(prompt); err != nil {
			return err
		}
		if err := s.drivers.Keyboard.Hotkey("ctrl", "v"); err != nil {
			return err
		}
		return nil
	}()

	if pasteErr == nil && priorErr == nil && prior != "" {
		if err := s.drivers.Clipboard.Copy(prior); err != nil {
			s.log.Warn("could not restore prior clipboard", zap.Error(err))
		}
	}
	if pasteErr == nil {
		s.sleep(s.cfg.ClickSettle)
		return nil
	}

	s.log.Warn("clipboard paste path failed, typing directly", zap.Error(pasteErr))
	if err := s.drivers.Keyboard.TypeText(prompt); err != nil {
		return fmt.Errorf("%w: typing prompt: %v", ErrInputDriver, err)
	}
	s.sleep(s.cfg.ClickSettle)
	return nil
}

// submit presses the platform's send key. Keyed off the classified family,
// not the page URL: Gemini-family UIs submit with ctrl+enter, everything
// else with plain enter.
func (s *Sequencer) submit(fam selector.Family) error {
	var err error
	if fam == selector.FamilyGemini {
		err = s.drivers.Keyboard.Hotkey("ctrl", "enter")
	} else {
		err = s.drivers.Keyboard.PressKey("enter")
	}
	if err != nil {
		return fmt.Errorf("%w: submit: %v", ErrInputDriver, err)
	}
	s.sleep(s.cfg.SettleDelay)
	return nil
}

// detect opens the console, runs the detection script and waits up to the
// hint for its verdict. Only the exact done and timeout statuses count as
// verdicts; the console echoes the pasted script source, which contains the
// sentinel literal, and the bridge keeps polling past such lines. A reported
// timeout or an exhausted hint degrades the run but does not fail it.
// Returns degraded=true in those cases.
func (s *Sequencer) detect(ctx context.Context, run *Run, bridge consoleBridge, script string, hint time.Duration, consoleOpen *bool) (bool, error) {
	if err := s.openLimiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStopped, err)
	}
	if err := bridge.Open(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInputDriver, err)
	}
	*consoleOpen = true

	if err := bridge.Eval(script); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInputDriver, err)
	}

	verdicts := []string{selector.DetectionStatusDone, selector.DetectionStatusTimeout}
	status, err := bridge.WaitSentinel(ctx, selector.DetectionSentinel, verdicts, hint, s.cfg.PollInterval)
	if err != nil {
		if ctx.Err() != nil {
			return false, fmt.Errorf("%w: %v", ErrStopped, ctx.Err())
		}
		s.log.Warn("no detection verdict, proceeding degraded",
			zap.String("run_id", run.ID.String()), zap.Error(err))
		return true, nil
	}
	if status == selector.DetectionStatusTimeout {
		s.log.Warn("detector reported timeout, proceeding degraded",
			zap.String("run_id", run.ID.String()))
		return true, nil
	}
	return false, nil
}

// extractTimeout bounds one extraction attempt. The script itself finishes
// in one pass; the budget covers slow clipboard propagation.
const extractTimeout = 20 * time.Second

// extract runs the extraction script and polls the clipboard for the text
// it copies. No sentinel round trip here: a select-all scan of the console
// would overwrite the very clipboard the script writes to. The loop is
// bounded by an explicit tick count. Until the page-side copy fires, the
// clipboard still holds the pasted script, which validation rejects as a
// leak; exhausting the budget reports the last rejection.
func (s *Sequencer) extract(ctx context.Context, bridge consoleBridge, script string) (string, error) {
	if err := bridge.Eval(script); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInputDriver, err)
	}

	interval := s.cfg.PollInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	maxTicks := int(extractTimeout / interval)
	if maxTicks < 1 {
		maxTicks = 1
	}

	lastErr := fmt.Errorf("%w: no text appeared on the clipboard", ErrExtraction)
	for tick := 0; tick < maxTicks; tick++ {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrStopped, ctx.Err())
		default:
		}
		text, err := s.drivers.Clipboard.Paste()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading clipboard: %v", ErrInputDriver, err)
		} else if err := validateResponse(text, s.cfg.MinResponseLen); err != nil {
			lastErr = err
		} else {
			return strings.TrimSpace(text), nil
		}
		s.sleep(interval)
	}
	return "", lastErr
}
