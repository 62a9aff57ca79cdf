// Package postprocess removes common LLM artifacts from corrected text
// returned by language-model checkers before it is diffed against the
// original. A leaked preamble or a pair of wrapping quotes would
// otherwise show up as a spurious correction.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean strips LLM artifacts in three phases and returns the trimmed
// result:
//  1. Thinking / reasoning block removal
//  2. Preamble echo removal (prompt leakage, Russian and English)
//  3. Wrapping quote removal
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removePreambles(text)
	text = removeQuoteWrapping(text)
	return strings.TrimSpace(text)
}

// Each tag variant is listed explicitly because Go's RE2 engine does
// not support backreferences.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// truncatedThinkingRe matches an opened thinking tag whose closing tag
// never arrived (the model was cut off mid-thought).
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// preambleRes match introductory phrases models prepend even when told
// not to. Anchored to the start and requiring a colon to avoid eating
// legitimate content.
var preambleRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:вот )?исправленн(?:ый|ая) (?:текст|версия)\s*:`),
	regexp.MustCompile(`(?i)^исправлено\s*:`),
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the)? corrected (?:text|version)\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?corrected text\s*:`),
}

func removePreambles(text string) string {
	for _, re := range preambleRes {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// removeQuoteWrapping strips one matching pair of outer quotes when the
// entire text is wrapped in them. Supported pairs: "…" '…' «…» “…”.
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
