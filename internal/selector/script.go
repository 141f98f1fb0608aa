// File: internal/selector/script.go

package selector

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// Sentinel tokens emitted by generated scripts through console.log. The
// bridge scans console output for these to learn the outcome.
const (
	// DetectionSentinel is followed by "true" or "timeout".
	DetectionSentinel = "LIRIS_GENERATION_COMPLETE:"
	// ExtractionSentinel signals that the cleaned text was copied.
	ExtractionSentinel = "LIRIS_EXTRACTION_COMPLETE"

	DetectionStatusDone    = "true"
	DetectionStatusTimeout = "timeout"
)

// Poll budgets per detection method. Stability-based methods poll less often
// with a longer interval; absence-based checks are cheap and poll tighter.
type pollBudget struct {
	maxChecks  int
	intervalMS int
}

var methodBudgets = map[Method]pollBudget{
	MethodAttributeFlip: {maxChecks: 60, intervalMS: 500},
	MethodDataStability: {maxChecks: 40, intervalMS: 600},
	MethodElementAbsence: {
		maxChecks: 120, intervalMS: 300,
	},
	MethodTextStability: {maxChecks: 60, intervalMS: 500},
}

// stableTicks is how many consecutive unchanged observations the stability
// methods require before declaring completion.
const stableTicks = 3

// Budget exposes a method's poll ceiling and interval so callers can size
// their own sentinel wait to cover the script's worst case.
func Budget(m Method) (maxChecks int, interval time.Duration) {
	b, ok := methodBudgets[m]
	if !ok {
		b = methodBudgets[MethodTextStability]
	}
	return b.maxChecks, time.Duration(b.intervalMS) * time.Millisecond
}

// BuildDetectionScript synthesizes the injectable polling script for the
// config. The script is a self-contained IIFE that polls at a fixed interval
// up to a hard ceiling, then reports through a single emit helper so the
// sentinel literal appears exactly once in the source. Fails when the config
// has no usable selector.
func BuildDetectionScript(cfg DetectionConfig) (string, error) {
	if !cfg.Usable() {
		return "", fmt.Errorf("detection config for %s has no usable selector", cfg.Family)
	}
	budget, ok := methodBudgets[cfg.Method]
	if !ok {
		budget = methodBudgets[MethodTextStability]
	}

	var b strings.Builder
	b.WriteString("(() => {\n")
	fmt.Fprintf(&b, "  const maxChecks = %d;\n", budget.maxChecks)
	fmt.Fprintf(&b, "  const intervalMs = %d;\n", budget.intervalMS)
	fmt.Fprintf(&b, "  const selectors = %s;\n", jsSelectorArray(cfg.PrimarySelector, cfg.FallbackSelectors))
	b.WriteString("  let checks = 0;\n")
	fmt.Fprintf(&b, "  const emit = (status) => { console.log(%s + status); };\n", strconv.Quote(DetectionSentinel))
	b.WriteString(`  const firstMatch = (list) => {
    for (const sel of list) {
      try {
        const el = document.querySelector(sel);
        if (el) return el;
      } catch (e) {}
    }
    return null;
  };
`)

	if cfg.HasThinkingPhase && cfg.Thinking != nil {
		writeThinkingBody(&b, cfg)
	} else {
		writeSinglePhaseBody(&b, cfg)
	}

	b.WriteString("})();")
	return b.String(), nil
}

// writeSinglePhaseBody emits the poll loop for a config without a reasoning
// stage. Each method gets its own completion predicate.
func writeSinglePhaseBody(b *strings.Builder, cfg DetectionConfig) {
	writeMethodState(b, cfg.Method)
	b.WriteString("  const tick = () => {\n")
	b.WriteString("    checks++;\n")
	writeMethodCheck(b, cfg.Method, "selectors", "emit('"+DetectionStatusDone+"'); return;")
	b.WriteString("    if (checks >= maxChecks) { emit('" + DetectionStatusTimeout + "'); return; }\n")
	b.WriteString("    setTimeout(tick, intervalMs);\n")
	b.WriteString("  };\n")
	b.WriteString("  tick();\n")
}

// writeThinkingBody emits the two-phase loop. Phase B never starts until the
// reasoning-complete indicator has matched at least once; both phases may
// resolve on the same tick.
func writeThinkingBody(b *strings.Builder, cfg DetectionConfig) {
	fmt.Fprintf(b, "  const thinkingSel = %s;\n", strconv.Quote(cfg.Thinking.Selector))
	fmt.Fprintf(b, "  const thinkingDoneSel = %s;\n", strconv.Quote(cfg.Thinking.CompletionIndicator))
	b.WriteString("  let thinkingDone = false;\n")
	writeMethodState(b, cfg.Method)
	b.WriteString("  const tick = () => {\n")
	b.WriteString("    checks++;\n")
	b.WriteString(`    if (!thinkingDone) {
      let present = null;
      try { present = document.querySelector(thinkingSel); } catch (e) {}
      if (!present) {
        thinkingDone = true;
      } else {
        try { if (document.querySelector(thinkingDoneSel)) thinkingDone = true; } catch (e) {}
      }
    }
`)
	b.WriteString("    if (thinkingDone) {\n")
	writeMethodCheck(b, cfg.Method, "selectors", "emit('"+DetectionStatusDone+"'); return;")
	b.WriteString("    }\n")
	b.WriteString("    if (checks >= maxChecks) { emit('" + DetectionStatusTimeout + "'); return; }\n")
	b.WriteString("    setTimeout(tick, intervalMs);\n")
	b.WriteString("  };\n")
	b.WriteString("  tick();\n")
}

func writeMethodState(b *strings.Builder, m Method) {
	switch m {
	case MethodDataStability:
		b.WriteString("  let lastMarker = null;\n  let stable = 0;\n")
	case MethodTextStability:
		b.WriteString("  let lastText = null;\n  let stable = 0;\n")
	}
}

// writeMethodCheck emits the per-method completion test. onDone is a raw
// statement executed when the predicate holds.
func writeMethodCheck(b *strings.Builder, m Method, listVar, onDone string) {
	switch m {
	case MethodAttributeFlip, MethodElementAbsence:
		// The selector itself encodes the finished state.
		fmt.Fprintf(b, "    if (firstMatch(%s)) { %s }\n", listVar, onDone)
	case MethodDataStability:
		fmt.Fprintf(b, `    {
      const el = firstMatch(%s);
      if (el) {
        const marker = (el.getAttribute('data-start') || '') + '|' + (el.getAttribute('data-end') || '');
        if (marker === lastMarker) { stable++; } else { stable = 0; lastMarker = marker; }
        if (stable >= %d) { %s }
      }
    }
`, listVar, stableTicks, onDone)
	default: // MethodTextStability
		fmt.Fprintf(b, `    {
      const el = firstMatch(%s);
      if (el) {
        const text = el.textContent || '';
        if (text.length > 0 && text === lastText) { stable++; } else { stable = 0; lastText = text; }
        if (stable >= %d) { %s }
      }
    }
`, listVar, stableTicks, onDone)
	}
}

// LeakMarkers are fragments of our own injected tooling. Candidate text
// containing any of them is console capture, not page content; the generated
// extraction script and the response validator both reject on these.
var LeakMarkers = []string{
	"function()",
	"console.log",
	"document.query",
	"let ",
	"const ",
	"console.clear",
}

// extractionMinChars is the in-script floor for candidate text. Shorter
// matches are UI labels or fragments; the selector loop moves on past them.
const extractionMinChars = 20

// cleaningRules maps each cleaning mode to the regex replacements applied to
// the extracted text, in order, before copying.
var cleaningRules = map[Cleaning][]string{
	CleaningBasic: {
		`[/\s+/g, ' ']`,
	},
	CleaningRemoveUI: {
		`[/Copy code/g, '']`,
		`[/Edit/g, '']`,
		`[/Retry/g, '']`,
		`[/\s+/g, ' ']`,
	},
	CleaningPreserveMarkdown: {
		`[/Copy code/g, '']`,
		`[/[ \t]+/g, ' ']`,
	},
	CleaningNestedSpans: {
		`[/thumb_up|thumb_down|content_copy/g, '']`,
		`[/edit|more_vert/g, '']`,
		`[/\s+/g, ' ']`,
	},
}

// BuildExtractionScript synthesizes the script that walks the ordered
// selector list. For each selector it reads the last matching element, the
// most recent message on pages that keep conversation history, scrubs its
// text and accepts it only when it clears the length floor and carries no
// leaked tooling; rejected candidates fall through to the next selector.
// The accepted text is copied to the clipboard and the result announced
// through a single emit helper. extraSelectors are tried first and come
// from per-platform overrides.
func BuildExtractionScript(cfg ExtractionConfig, extraSelectors ...string) (string, error) {
	ordered := append([]string{}, extraSelectors...)
	if strings.TrimSpace(cfg.PrimarySelector) != "" {
		ordered = append(ordered, cfg.PrimarySelector)
	}
	ordered = append(ordered, cfg.FallbackSelectors...)
	ordered = append(ordered, "div:last-child", "p:last-child")

	seen := map[string]bool{}
	uniq := ordered[:0]
	for _, s := range ordered {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		uniq = append(uniq, s)
	}
	if len(uniq) == 0 {
		return "", fmt.Errorf("extraction config has no usable selector")
	}

	rules, ok := cleaningRules[cfg.TextCleaning]
	if !ok {
		rules = cleaningRules[CleaningBasic]
	}

	var b strings.Builder
	b.WriteString("(() => {\n")
	fmt.Fprintf(&b, "  const selectors = %s;\n", jsSelectorArray("", uniq))
	fmt.Fprintf(&b, "  const minChars = %d;\n", extractionMinChars)
	fmt.Fprintf(&b, "  const leaks = %s;\n", jsStringArray(LeakMarkers))
	fmt.Fprintf(&b, "  const emit = (ok) => { console.log(%s + ':' + ok); };\n", strconv.Quote(ExtractionSentinel))
	b.WriteString("  const rules = [\n")
	for _, r := range rules {
		fmt.Fprintf(&b, "    %s,\n", r)
	}
	b.WriteString("  ];\n")
	b.WriteString(`  const scrub = (t) => {
    for (const [re, repl] of rules) {
      t = t.replace(re, repl);
    }
    return t.trim();
  };
  let text = '';
  for (const sel of selectors) {
    try {
      const els = document.querySelectorAll(sel);
      if (els.length === 0) continue;
      const candidate = scrub(els[els.length - 1].textContent || '');
      if (candidate.length <= minChars) continue;
      if (leaks.some((k) => candidate.toLowerCase().includes(k))) continue;
      text = candidate;
      break;
    } catch (e) {}
  }
  if (text.length === 0) {
    emit(false);
    return;
  }
  copy(text);
  emit(true);
`)
	b.WriteString("})();")
	return b.String(), nil
}

// CheckSyntax compiles the script without running it, catching synthesis
// bugs before anything is pasted into a live console.
func CheckSyntax(script string) error {
	_, err := goja.Compile("generated.js", script, true)
	if err != nil {
		return fmt.Errorf("generated script does not parse: %w", err)
	}
	return nil
}

// jsStringArray renders a JS array literal from the given strings.
func jsStringArray(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, s := range items {
		quoted = append(quoted, strconv.Quote(s))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// jsSelectorArray renders a JS array literal of quoted selectors, primary
// first. Quoting goes through strconv so selector text can never break out
// of the string literal.
func jsSelectorArray(primary string, fallbacks []string) string {
	var parts []string
	if strings.TrimSpace(primary) != "" {
		parts = append(parts, strconv.Quote(primary))
	}
	for _, s := range fallbacks {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strconv.Quote(s))
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
