// Package rules holds the deterministic formatting rules applied on top
// of checker corrections: Russian typography (guillemets, em-dash,
// ellipsis, non-breaking spaces) and whitespace discipline for legal
// documents. Every rule is a pure function from the original text to a
// list of edits in original-text coordinates; rules never see each
// other's output, the resolver composes them.
package rules

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/valpere/pravka/internal/edit"
)

// NBSP is the non-breaking space inserted by typography rules.
const NBSP = " "

// Mode selects which rule functions run on top of the checker.
type Mode string

const (
	// ModeBase applies checker edits only, no rule functions.
	ModeBase Mode = "base"
	// ModeLegal applies typography and legal formatting rules.
	ModeLegal Mode = "legal"
	// ModeStrict applies everything in legal plus aggressive
	// whitespace normalization.
	ModeStrict Mode = "strict"
)

// ParseMode validates a mode name from the outside world.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBase, ModeLegal, ModeStrict:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want base, legal or strict)", s)
}

// Rule is one named rule function.
type Rule struct {
	Name   string
	Source edit.Source
	Apply  func(text string) []edit.Edit
}

// DefaultAbbreviations are the organizational and legal abbreviations
// preserved from quote conversion out of the box.
var DefaultAbbreviations = []string{
	"ООО", "ЗАО", "ОАО", "ПАО", "АО", "ИП", "РФ", "ГК", "УК", "ФЗ", "НДС",
}

// Set is a rule set parameterized by the preserved-abbreviation tokens.
// A Set is immutable after construction and safe for concurrent use.
type Set struct {
	abbr map[string]struct{}
}

// New builds a rule set. An empty abbreviation list means
// DefaultAbbreviations.
func New(abbreviations []string) *Set {
	if len(abbreviations) == 0 {
		abbreviations = DefaultAbbreviations
	}
	m := make(map[string]struct{}, len(abbreviations))
	for _, a := range abbreviations {
		m[a] = struct{}{}
	}
	return &Set{abbr: m}
}

// ForMode returns the ordered rule list for a mode. Typography rules
// come first, then legal, then strict — the same order the resolver
// uses to break offset ties. Base mode runs no rules at all.
func (s *Set) ForMode(mode Mode) []Rule {
	if mode == ModeBase {
		return nil
	}
	list := []Rule{
		{Name: "ellipsis", Source: edit.SourceTypography, Apply: ellipsisRule},
		{Name: "nbsp-percent", Source: edit.SourceTypography, Apply: percentRule},
		{Name: "nbsp-units", Source: edit.SourceTypography, Apply: unitsRule},
		{Name: "nbsp-numero", Source: edit.SourceTypography, Apply: numeroRule},
		{Name: "nbsp-references", Source: edit.SourceTypography, Apply: referencesRule},
		{Name: "russian-quotes", Source: edit.SourceLegal, Apply: s.quotesRule},
		{Name: "em-dash", Source: edit.SourceLegal, Apply: dashRule},
		{Name: "collapse-spaces", Source: edit.SourceLegal, Apply: spacesRule},
		{Name: "space-before-punct", Source: edit.SourceLegal, Apply: punctSpaceRule},
	}
	if mode == ModeStrict {
		list = append(list,
			Rule{Name: "collapse-newlines", Source: edit.SourceStrict, Apply: newlinesRule},
			Rule{Name: "space-after-punct", Source: edit.SourceStrict, Apply: afterPunctRule},
		)
	}
	return list
}

// Apply runs every rule for the mode against text and concatenates the
// edits.
func (s *Set) Apply(text string, mode Mode) []edit.Edit {
	var edits []edit.Edit
	for _, r := range s.ForMode(mode) {
		edits = append(edits, r.Apply(text)...)
	}
	return edits
}

// --- span arithmetic ---

// span is a half-open rune range [start, end).
type span struct{ start, end int }

func (a span) overlaps(b span) bool {
	return a.start < b.end && b.start < a.end
}

// runeSpan converts a regexp byte range into rune coordinates.
func runeSpan(text string, byteStart, byteEnd int) span {
	start := utf8.RuneCountInString(text[:byteStart])
	return span{start: start, end: start + utf8.RuneCountInString(text[byteStart:byteEnd])}
}

// abbreviationSpans returns the rune spans of whole tokens that belong
// to the preserved-abbreviation set. Matching is case-sensitive: the
// tokens are uppercase by convention.
var wordRe = regexp.MustCompile(`[\p{L}]+`)

func (s *Set) abbreviationSpans(text string) []span {
	var spans []span
	for _, loc := range wordRe.FindAllStringIndex(text, -1) {
		if _, ok := s.abbr[text[loc[0]:loc[1]]]; ok {
			spans = append(spans, runeSpan(text, loc[0], loc[1]))
		}
	}
	return spans
}

// --- legal rules ---

var quotesRe = regexp.MustCompile(`"([^"\n]+)"`)

// quotesRule converts "…" pairs into «…», skipping pairs whose span
// touches a preserved abbreviation token.
func (s *Set) quotesRule(text string) []edit.Edit {
	protected := s.abbreviationSpans(text)

	var edits []edit.Edit
	for _, m := range quotesRe.FindAllStringSubmatchIndex(text, -1) {
		sp := runeSpan(text, m[0], m[1])
		skip := false
		for _, p := range protected {
			if sp.overlaps(p) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		edits = append(edits, edit.Edit{
			Offset:      sp.start,
			Length:      sp.end - sp.start,
			Original:    text[m[0]:m[1]],
			Replacement: "«" + text[m[2]:m[3]] + "»",
			Message:     "Convert to Russian quotes",
			Source:      edit.SourceLegal,
		})
	}
	return edits
}

// dashRe matches a hyphen between two word characters with optional
// surrounding spaces. RE2 has no lookarounds, so the neighbouring
// characters are captured and the edit covers only the separator group.
var dashRe = regexp.MustCompile(`[\p{L}\p{N}]([ \t]*-[ \t]*)[\p{L}\p{N}]`)

// dashRule turns inter-word hyphens into an em-dash with single
// surrounding spaces.
func dashRule(text string) []edit.Edit {
	var edits []edit.Edit
	pos := 0
	for pos < len(text) {
		m := dashRe.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		sep := runeSpan(text, pos+m[2], pos+m[3])
		edits = append(edits, edit.Edit{
			Offset:      sep.start,
			Length:      sep.end - sep.start,
			Original:    text[pos+m[2] : pos+m[3]],
			Replacement: " — ",
			Message:     "Convert to em-dash",
			Source:      edit.SourceLegal,
		})
		// Resume at the trailing word character so chains like
		// "а-б-в" are fully matched.
		pos += m[3]
	}
	return edits
}

var multiSpaceRe = regexp.MustCompile(`  +`)

// spacesRule collapses runs of two or more spaces into one.
func spacesRule(text string) []edit.Edit {
	var edits []edit.Edit
	for _, m := range multiSpaceRe.FindAllStringIndex(text, -1) {
		sp := runeSpan(text, m[0], m[1])
		edits = append(edits, edit.Edit{
			Offset:      sp.start,
			Length:      sp.end - sp.start,
			Original:    text[m[0]:m[1]],
			Replacement: " ",
			Message:     "Collapse multiple spaces",
			Source:      edit.SourceLegal,
		})
	}
	return edits
}

var punctSpaceRe = regexp.MustCompile(`( +)[.,;:!?]`)

// punctSpaceRule removes spaces immediately preceding terminal
// punctuation.
func punctSpaceRule(text string) []edit.Edit {
	var edits []edit.Edit
	for _, m := range punctSpaceRe.FindAllStringSubmatchIndex(text, -1) {
		sp := runeSpan(text, m[2], m[3])
		edits = append(edits, edit.Edit{
			Offset:      sp.start,
			Length:      sp.end - sp.start,
			Original:    text[m[2]:m[3]],
			Replacement: "",
			Message:     "Remove space before punctuation",
			Source:      edit.SourceLegal,
		})
	}
	return edits
}

// --- typography rules ---

var ellipsisRe = regexp.MustCompile(`\.\.\.`)

func ellipsisRule(text string) []edit.Edit {
	var edits []edit.Edit
	for _, m := range ellipsisRe.FindAllStringIndex(text, -1) {
		sp := runeSpan(text, m[0], m[1])
		edits = append(edits, edit.Edit{
			Offset:      sp.start,
			Length:      3,
			Original:    "...",
			Replacement: "…",
			Message:     "Convert to ellipsis",
			Source:      edit.SourceTypography,
		})
	}
	return edits
}

var percentRe = regexp.MustCompile(`\d([ \t]*)%`)

// percentRule joins a numeral and the percent sign with a non-breaking
// space. When they are already adjacent the edit is a pure insertion
// (length zero).
func percentRule(text string) []edit.Edit {
	return gapEdits(text, percentRe, "Non-breaking space before percent sign")
}

// Longest alternatives first: Go's regexp is leftmost-first, so "км"
// must not lose to "к"+"м" shenanigans via the single-letter units.
var unitsRe = regexp.MustCompile(`(?i)\d([ \t]+)(?:км|кг|см|мм|мл|шт|тыс\.|млн|млрд|г|л|м)(?:[^\p{L}]|$)`)

// unitsRule joins a numeral and a unit of measure with a non-breaking
// space.
func unitsRule(text string) []edit.Edit {
	return gapEdits(text, unitsRe, "Non-breaking space before unit")
}

var numeroRe = regexp.MustCompile(`№([ \t]*)\d`)

// numeroRule joins the numero sign and the following numeral.
func numeroRule(text string) []edit.Edit {
	return gapEdits(text, numeroRe, "Non-breaking space after №")
}

var referencesRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:ст|п|г)\.([ \t]*)\d`)

// referencesRule joins legal reference abbreviations (ст. п. г.) with
// the number that follows them.
func referencesRule(text string) []edit.Edit {
	return gapEdits(text, referencesRe, "Non-breaking space in reference")
}

// gapEdits emits one edit per match replacing capture group 1 (a run of
// spaces/tabs, possibly empty) with a single non-breaking space.
func gapEdits(text string, re *regexp.Regexp, message string) []edit.Edit {
	var edits []edit.Edit
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		sp := runeSpan(text, m[2], m[3])
		edits = append(edits, edit.Edit{
			Offset:      sp.start,
			Length:      sp.end - sp.start,
			Original:    text[m[2]:m[3]],
			Replacement: NBSP,
			Message:     message,
			Source:      edit.SourceTypography,
		})
	}
	return edits
}

// --- strict rules ---

var newlinesRe = regexp.MustCompile(`\n{3,}`)

// newlinesRule caps consecutive newlines at two.
func newlinesRule(text string) []edit.Edit {
	var edits []edit.Edit
	for _, m := range newlinesRe.FindAllStringIndex(text, -1) {
		sp := runeSpan(text, m[0], m[1])
		edits = append(edits, edit.Edit{
			Offset:      sp.start,
			Length:      sp.end - sp.start,
			Original:    text[m[0]:m[1]],
			Replacement: "\n\n",
			Message:     "Collapse blank lines",
			Source:      edit.SourceStrict,
		})
	}
	return edits
}

var afterPunctRe = regexp.MustCompile(`[.,;:!?][\p{L}]`)

// afterPunctRule inserts the mandatory space after sentence punctuation
// directly followed by a word character. Digits are deliberately not
// word characters here so decimals like 3,5 stay intact.
func afterPunctRule(text string) []edit.Edit {
	var edits []edit.Edit
	for _, m := range afterPunctRe.FindAllStringIndex(text, -1) {
		sp := runeSpan(text, m[0], m[0]+1)
		edits = append(edits, edit.Edit{
			Offset:      sp.start + 1,
			Length:      0,
			Original:    "",
			Replacement: " ",
			Message:     "Add space after punctuation",
			Source:      edit.SourceStrict,
		})
	}
	return edits
}
