// Package edit defines the atomic text-edit value used across the
// correction pipeline: a replacement of a contiguous rune span of the
// original text. Edits are always expressed in the coordinates of the
// one, unmodified original string — never relative to an intermediate
// partially-edited text. Only the resolver translates them into a final
// string, and only once.
package edit

// Source identifies which part of the pipeline produced an edit.
// The declaration order is the tie-break priority: when two edits start
// at the same offset, the one with the lower Source value survives.
type Source int

const (
	SourceChecker Source = iota
	SourceTypography
	SourceLegal
	SourceStrict
)

func (s Source) String() string {
	switch s {
	case SourceChecker:
		return "checker"
	case SourceTypography:
		return "typography"
	case SourceLegal:
		return "legal"
	case SourceStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// Edit is an immutable replacement of original[Offset : Offset+Length]
// with Replacement. Offsets and lengths count runes, not bytes: byte
// offsets desynchronize as soon as the text contains Cyrillic.
type Edit struct {
	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Message     string `json:"message"`
	Source      Source `json:"-"`
}

// End returns the rune offset one past the replaced span.
func (e Edit) End() int {
	return e.Offset + e.Length
}

// ConflictsWith reports whether the two edits cover overlapping spans.
// Zero-length edits (pure insertions) at the boundary of another edit
// do not conflict.
func (e Edit) ConflictsWith(other Edit) bool {
	return e.Offset < other.End() && other.Offset < e.End()
}

// Matches verifies the correctness precondition: Original must equal
// the text at [Offset, Offset+Length) in the source the edit was
// computed against.
func (e Edit) Matches(original []rune) bool {
	if e.Offset < 0 || e.Length < 0 || e.End() > len(original) {
		return false
	}
	return string(original[e.Offset:e.End()]) == e.Original
}

// SameChange reports whether two edits describe the identical change:
// same span, same replacement. Message and Source are ignored so that
// the same correction found by two sources collapses to one.
func (e Edit) SameChange(other Edit) bool {
	return e.Offset == other.Offset &&
		e.Length == other.Length &&
		e.Replacement == other.Replacement
}
