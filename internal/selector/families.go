// File: internal/selector/families.go
package selector

// Family is the closed set of vendor markup families the generator knows.
// Classification happens once, against markup; everything downstream matches
// on the tag, never on page names or URLs.
type Family string

const (
	FamilyClaude   Family = "claude"
	FamilyChatGPT  Family = "chatgpt"
	FamilyGemini   Family = "gemini"
	FamilyGrok     Family = "grok"
	FamilyDeepSeek Family = "deepseek"
	FamilyGeneric  Family = "generic"
)

// Families lists every known family in a fixed order, generic last.
var Families = []Family{
	FamilyClaude, FamilyChatGPT, FamilyGemini, FamilyGrok, FamilyDeepSeek, FamilyGeneric,
}

// Valid reports whether f is one of the known families.
func (f Family) Valid() bool {
	for _, known := range Families {
		if f == known {
			return true
		}
	}
	return false
}

// Method is the completion-detection strategy a family's script implements.
type Method string

const (
	// MethodAttributeFlip waits for a streaming attribute to toggle false.
	MethodAttributeFlip Method = "attribute_flip"
	// MethodDataStability waits for N consecutive identical reads of
	// data-range attributes across polls.
	MethodDataStability Method = "data_stability"
	// MethodElementAbsence waits for in-progress markers to disappear,
	// optionally confirmed by a rendered run-time badge.
	MethodElementAbsence Method = "element_absence"
	// MethodTextStability waits for N consecutive identical text reads.
	MethodTextStability Method = "text_stability"
)

// Cleaning tags an extraction text-scrub strategy for a family.
type Cleaning string

const (
	CleaningBasic            Cleaning = "basic"
	CleaningRemoveUI         Cleaning = "remove_ui_elements"
	CleaningPreserveMarkdown Cleaning = "preserve_markdown"
	CleaningNestedSpans      Cleaning = "nested_spans"
)

// platformPatterns maps each family to the markup substrings that vote for
// it during classification. Scores are simple vote counts; ties and zero
// scores resolve to generic.
var platformPatterns = map[Family][]string{
	FamilyClaude: {
		"data-is-streaming",
		"claude-message",
		"anthropic",
		"claude.ai",
		"antml:thinking",
	},
	FamilyChatGPT: {
		`data-message-author-role="assistant"`,
		"data-start",
		"data-end",
		"openai",
		"chatgpt",
		`data-testid="conversation-turn`,
	},
	FamilyGemini: {
		"ms-text-chunk",
		"ms-cmark-node",
		"ms-chat-turn",
		"ms-thought-chunk",
		"ms-prompt-chunk",
		"_ngcontent-ng-c",
		"aistudio.google.com",
		"gemini",
		"model-run-time-pill",
	},
	FamilyGrok: {
		"response-content-markdown",
		"grok",
		"x.ai",
		"text-current",
	},
	FamilyDeepSeek: {
		"ds-markdown",
		"deepseek",
		"ds-markdown--block",
	},
}

// thinkingPatterns maps each family to the markup substrings that indicate a
// reasoning ("thinking") stage precedes the final answer.
var thinkingPatterns = map[Family][]string{
	FamilyClaude:  {"antml:thinking", "thinking-block", "reasoning-phase"},
	FamilyChatGPT: {"thinking-indicator", "o1-thinking"},
	FamilyGemini: {
		"ms-thought-chunk",
		"thinking-progress-icon",
		"thought-panel",
		"mat-expansion-panel",
		"thinking-process",
		"reasoning-step",
	},
	FamilyGrok:     {"thought-process", "reasoning-mode"},
	FamilyDeepSeek: {"thinking-stage", "analysis-phase"},
}
