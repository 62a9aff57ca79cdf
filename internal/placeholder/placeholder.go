// Package placeholder shields spans a correction model must not touch
// (fenced code blocks, inline code, HTML tags) by swapping them for
// numbered [PHn] markers before the text goes to the model, and puts
// them back afterwards. A marker the model mangled or dropped marks the
// whole answer as untrustworthy, since a diff against it would report
// corrections inside content that was never plain text.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reFencedCode = regexp.MustCompile("(?s)```.*?```")
	reInlineCode = regexp.MustCompile("`[^`]+`")
	reHTMLTag    = regexp.MustCompile(`<[^>]+>`)
	reMarker     = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Guard holds the spans captured by Shield, in marker order.
type Guard struct {
	spans []string
}

// Shield replaces fenced code blocks, inline code spans and HTML tags
// in text with [PH0], [PH1], … markers and returns the shielded text
// together with the Guard that can restore it. Fenced blocks are
// captured first so an inline-code pattern never splits one open.
func Shield(text string) (string, *Guard) {
	g := &Guard{}

	capture := func(match string) string {
		marker := fmt.Sprintf("[PH%d]", len(g.spans))
		g.spans = append(g.spans, match)
		return marker
	}

	text = reFencedCode.ReplaceAllStringFunc(text, capture)
	text = reInlineCode.ReplaceAllStringFunc(text, capture)
	text = reHTMLTag.ReplaceAllStringFunc(text, capture)

	return text, g
}

// Count reports how many spans were shielded.
func (g *Guard) Count() int {
	return len(g.spans)
}

// Restore substitutes every [PHn] marker in text with the span it
// shielded. Markers with an index Shield never produced stay as-is.
func (g *Guard) Restore(text string) string {
	return reMarker.ReplaceAllStringFunc(text, func(match string) string {
		sub := reMarker.FindStringSubmatch(match)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx < 0 || idx >= len(g.spans) {
			return match
		}
		return g.spans[idx]
	})
}

// Missing returns the indices of shielded spans whose markers no
// longer appear in text.
func (g *Guard) Missing(text string) []int {
	var missing []int
	for i := range g.spans {
		if !strings.Contains(text, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}

// Hint returns the prompt line that tells the model to keep the
// markers intact.
func (g *Guard) Hint() string {
	return "Маркеры вида [PH0], [PH1] и т.д. оставь без изменений: не исправляй, не перемещай и не удаляй их."
}
