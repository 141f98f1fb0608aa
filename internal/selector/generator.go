// File: internal/selector/generator.go

// Package selector derives, from a snippet of vendor page markup, the CSS
// selectors and injectable polling scripts used to detect the end of an AI
// generation and extract the produced text. The generator is a pure function
// of its input: identical markup always yields identical configs and
// byte-identical scripts. It never touches a live browser.
package selector

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// ThinkingConfig describes how to recognize the end of a reasoning stage.
type ThinkingConfig struct {
	// Selector locates the reasoning wrapper element.
	Selector string `yaml:"selector"`
	// CompletionIndicator is a selector that only matches once the stage has
	// finished (an attribute flip, or absence of an in-progress marker).
	CompletionIndicator string `yaml:"completion_indicator"`
}

// DetectionConfig describes how a platform signals "generation finished".
type DetectionConfig struct {
	Family           Family          `yaml:"family"`
	HasThinkingPhase bool            `yaml:"has_thinking_phase"`
	Thinking         *ThinkingConfig `yaml:"thinking,omitempty"`

	Method            Method   `yaml:"method"`
	PrimarySelector   string   `yaml:"primary_selector"`
	FallbackSelectors []string `yaml:"fallback_selectors"`
}

// Usable reports whether the config carries at least one selector a script
// can be built from. An unusable config is a configuration error, caught
// before any run starts.
func (c DetectionConfig) Usable() bool {
	if strings.TrimSpace(c.PrimarySelector) != "" {
		return true
	}
	for _, s := range c.FallbackSelectors {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// ExtractionConfig describes where the final text lives and how to scrub it.
type ExtractionConfig struct {
	PrimarySelector   string   `yaml:"primary_selector"`
	FallbackSelectors []string `yaml:"fallback_selectors"`
	TextCleaning      Cleaning `yaml:"text_cleaning"`
}

// Analysis is the full derived configuration pair for one markup snippet.
type Analysis struct {
	Family           Family           `yaml:"family"`
	HasThinkingPhase bool             `yaml:"has_thinking_phase"`
	Detection        DetectionConfig  `yaml:"detection"`
	Extraction       ExtractionConfig `yaml:"extraction"`
}

// ClassifyFamily scores the markup against each family's pattern list and
// returns the highest scorer. Ties and all-zero scores resolve to generic.
func ClassifyFamily(markup string) Family {
	lower := strings.ToLower(markup)

	best := FamilyGeneric
	bestScore := 0
	tied := false
	for _, fam := range Families {
		patterns := platformPatterns[fam]
		score := 0
		for _, p := range patterns {
			if strings.Contains(lower, strings.ToLower(p)) {
				score++
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = fam, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return FamilyGeneric
	}
	return best
}

// HasThinkingMarkup tests the family's reasoning-stage pattern list against
// the markup. The check is independent of family classification.
func HasThinkingMarkup(fam Family, markup string) bool {
	patterns, ok := thinkingPatterns[fam]
	if !ok {
		return false
	}
	lower := strings.ToLower(markup)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// Analyze classifies the markup and synthesizes the detection and extraction
// configuration for it. Deterministic: same input, same output.
func Analyze(markup string) Analysis {
	fam := ClassifyFamily(markup)
	return analyze(fam, markup, HasThinkingMarkup(fam, markup))
}

// ForFamily synthesizes the configuration for a pinned family, skipping
// classification. Used when a profile names its family outright.
func ForFamily(fam Family, thinking bool) Analysis {
	return analyze(fam, "", thinking)
}

func analyze(fam Family, markup string, thinking bool) Analysis {
	switch fam {
	case FamilyClaude:
		return claudeAnalysis(thinking)
	case FamilyChatGPT:
		return chatgptAnalysis(thinking)
	case FamilyGemini:
		return geminiAnalysis(thinking)
	case FamilyGrok:
		return grokAnalysis(thinking)
	case FamilyDeepSeek:
		return deepseekAnalysis(thinking)
	default:
		return genericAnalysis(markup, thinking)
	}
}

func claudeAnalysis(thinking bool) Analysis {
	a := Analysis{Family: FamilyClaude, HasThinkingPhase: thinking}
	a.Detection = DetectionConfig{
		Family:           FamilyClaude,
		HasThinkingPhase: thinking,
		Method:           MethodAttributeFlip,
		PrimarySelector:  `[data-is-streaming="false"]`,
		FallbackSelectors: []string{
			`[data-is-streaming]`,
			`.font-claude-message`,
			`div[data-test-render-count]`,
		},
	}
	if thinking {
		a.Detection.Thinking = &ThinkingConfig{
			Selector:            `antml\:thinking, .thinking-block`,
			CompletionIndicator: `antml\:thinking[complete="true"], .thinking-block[data-complete="true"]`,
		}
	}
	a.Extraction = ExtractionConfig{
		PrimarySelector: `.font-claude-message:last-child`,
		FallbackSelectors: []string{
			`[data-is-streaming="false"] .font-claude-message`,
			`div[data-test-render-count] div:last-child`,
			`.group.relative:last-child`,
		},
		TextCleaning: CleaningRemoveUI,
	}
	return a
}

func chatgptAnalysis(thinking bool) Analysis {
	a := Analysis{Family: FamilyChatGPT, HasThinkingPhase: thinking}
	a.Detection = DetectionConfig{
		Family:           FamilyChatGPT,
		HasThinkingPhase: thinking,
		Method:           MethodDataStability,
		PrimarySelector:  `[data-start][data-end]`,
		FallbackSelectors: []string{
			`[data-message-author-role="assistant"]:last-child [data-start]`,
			`div[data-message-id]:last-child [data-start]`,
		},
	}
	if thinking {
		a.Detection.Thinking = &ThinkingConfig{
			Selector:            `.thinking-indicator, .o1-thinking`,
			CompletionIndicator: `.thinking-indicator[complete], .o1-thinking[data-complete="true"]`,
		}
	}
	a.Extraction = ExtractionConfig{
		PrimarySelector: `article[data-testid*="conversation-turn"]:last-child`,
		FallbackSelectors: []string{
			`[data-message-author-role="assistant"]:last-child .markdown`,
			`div[data-message-id]:last-child .prose`,
		},
		TextCleaning: CleaningPreserveMarkdown,
	}
	return a
}

func geminiAnalysis(thinking bool) Analysis {
	a := Analysis{Family: FamilyGemini, HasThinkingPhase: thinking}
	a.Detection = DetectionConfig{
		Family:           FamilyGemini,
		HasThinkingPhase: thinking,
		Method:           MethodElementAbsence,
		PrimarySelector:  `ms-chat-turn:not(:has(loading-indicator)):has(.model-run-time-pill)`,
		FallbackSelectors: []string{
			`ms-chat-turn:not(:has(loading-indicator))`,
			`ms-text-chunk:not(:has(.in-progress))`,
			`ms-prompt-chunk:has(.model-run-time-pill)`,
			`ms-chat-turn:has(.turn-footer)`,
		},
	}
	if thinking {
		a.Detection.Thinking = &ThinkingConfig{
			Selector:            `ms-thought-chunk`,
			CompletionIndicator: `ms-thought-chunk:not(:has(.thinking-progress-icon.in-progress))`,
		}
	}
	a.Extraction = ExtractionConfig{
		PrimarySelector: `ms-text-chunk:last-child`,
		FallbackSelectors: []string{
			`ms-text-chunk ms-cmark-node span.ng-star-inserted`,
			`ms-cmark-node span`,
			`ms-prompt-chunk ms-text-chunk:last-child`,
		},
		TextCleaning: CleaningNestedSpans,
	}
	return a
}

func grokAnalysis(thinking bool) Analysis {
	a := Analysis{Family: FamilyGrok, HasThinkingPhase: thinking}
	a.Detection = DetectionConfig{
		Family:           FamilyGrok,
		HasThinkingPhase: thinking,
		Method:           MethodElementAbsence,
		PrimarySelector:  `.response-content-markdown:not(:has(.generating))`,
		FallbackSelectors: []string{
			`.response-content-markdown`,
			`div[class*="response"]:not(:has(.loading))`,
		},
	}
	if thinking {
		a.Detection.Thinking = &ThinkingConfig{
			Selector:            `.thought-process, .reasoning-mode`,
			CompletionIndicator: `.thought-process[complete]`,
		}
	}
	a.Extraction = ExtractionConfig{
		PrimarySelector: `.response-content-markdown`,
		FallbackSelectors: []string{
			`.response-content-markdown p:last-child`,
		},
		TextCleaning: CleaningBasic,
	}
	return a
}

func deepseekAnalysis(thinking bool) Analysis {
	a := Analysis{Family: FamilyDeepSeek, HasThinkingPhase: thinking}
	a.Detection = DetectionConfig{
		Family:           FamilyDeepSeek,
		HasThinkingPhase: thinking,
		Method:           MethodTextStability,
		PrimarySelector:  `.ds-markdown.ds-markdown--block`,
		FallbackSelectors: []string{
			`.ds-markdown:last-child`,
			`div[class*="ds-"]:last-child`,
		},
	}
	if thinking {
		a.Detection.Thinking = &ThinkingConfig{
			Selector:            `.thinking-stage, .analysis-phase`,
			CompletionIndicator: `.thinking-stage[complete]`,
		}
	}
	a.Extraction = ExtractionConfig{
		PrimarySelector: `.ds-markdown.ds-markdown--block`,
		FallbackSelectors: []string{
			`.ds-markdown:last-child`,
		},
		TextCleaning: CleaningBasic,
	}
	return a
}

func genericAnalysis(markup string, thinking bool) Analysis {
	primary := structuralSelector(markup)
	a := Analysis{Family: FamilyGeneric, HasThinkingPhase: thinking}
	a.Detection = DetectionConfig{
		Family:           FamilyGeneric,
		HasThinkingPhase: thinking,
		Method:           MethodTextStability,
		PrimarySelector:  primary,
		FallbackSelectors: []string{
			`div:last-child`,
			`p:last-child`,
		},
	}
	if thinking {
		a.Detection.Thinking = &ThinkingConfig{
			Selector:            `.thinking`,
			CompletionIndicator: `.thinking[data-complete="true"]`,
		}
	}
	a.Extraction = ExtractionConfig{
		PrimarySelector: primary,
		FallbackSelectors: []string{
			`div:last-child`,
			`p:last-child`,
		},
		TextCleaning: CleaningBasic,
	}
	return a
}

// structuralSelector is the generic-family heuristic: pick the most repeated
// class token in the snippet (ties broken by first appearance, so the result
// stays deterministic), else fall back to a bare div selector.
func structuralSelector(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "div"
	}

	counts := map[string]int{}
	firstSeen := map[string]int{}
	order := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "class" {
					continue
				}
				for _, token := range strings.Fields(attr.Val) {
					if len(token) <= 3 {
						continue
					}
					if _, seen := counts[token]; !seen {
						firstSeen[token] = order
						order++
					}
					counts[token]++
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(counts) == 0 {
		return "div"
	}

	tokens := make([]string, 0, len(counts))
	for t := range counts {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return firstSeen[tokens[i]] < firstSeen[tokens[j]]
	})
	return fmt.Sprintf(".%s", tokens[0])
}
