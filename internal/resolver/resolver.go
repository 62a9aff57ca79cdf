// Package resolver turns a multiset of possibly-overlapping edits into
// one valid, non-overlapping, ascending sequence and applies it to the
// original text. The original is treated as an immutable rune slice;
// edits are index ranges into it, so no offset is ever recomputed
// against a half-edited string.
package resolver

import (
	"sort"
	"strings"

	"github.com/valpere/pravka/internal/edit"
)

// Result is the outcome of resolving one edit multiset.
type Result struct {
	// Text is the original with all accepted edits applied.
	Text string
	// Applied holds the accepted edits in ascending offset order,
	// still expressed in original-text coordinates.
	Applied []edit.Edit
	// Invalid holds edits dropped because their Original did not match
	// the source text at their offset.
	Invalid []edit.Edit
	// Rejected holds edits that overlapped an already accepted edit.
	Rejected []edit.Edit
}

// Resolve validates, orders, and applies edits against original.
//
// Ordering is total: offset ascending, ties broken by source priority
// (checker > typography > legal > strict), then by length descending
// (the widest edit at an offset wins and absorbs narrower ones starting
// there, so e.g. an em-dash edit spanning padded spaces beats a bare
// space collapse), then by replacement and message. The total order
// makes the result independent of the order the multiset was assembled
// in.
//
// The sweep keeps the first accepted edit and rejects any later edit
// that starts inside an accepted span (keep-first, never merged, never
// partially applied). An accepted edit identical to the previous one
// in (offset, length, replacement) is collapsed, so the same change
// reported by two sources neither double-applies nor double-reports.
func Resolve(original string, edits []edit.Edit) Result {
	runes := []rune(original)

	var res Result
	valid := make([]edit.Edit, 0, len(edits))
	for _, e := range edits {
		if e.Matches(runes) {
			valid = append(valid, e)
		} else {
			res.Invalid = append(res.Invalid, e)
		}
	}

	sort.Slice(valid, func(i, j int) bool {
		a, b := valid[i], valid[j]
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Length != b.Length {
			return a.Length > b.Length
		}
		if a.Replacement != b.Replacement {
			return a.Replacement < b.Replacement
		}
		return a.Message < b.Message
	})

	lastEnd := 0
	for _, e := range valid {
		if n := len(res.Applied); n > 0 && e.SameChange(res.Applied[n-1]) {
			continue
		}
		if len(res.Applied) > 0 && e.Offset < lastEnd {
			res.Rejected = append(res.Rejected, e)
			continue
		}
		res.Applied = append(res.Applied, e)
		if e.End() > lastEnd {
			lastEnd = e.End()
		}
	}

	var b strings.Builder
	b.Grow(len(original))
	cursor := 0
	for _, e := range res.Applied {
		b.WriteString(string(runes[cursor:e.Offset]))
		b.WriteString(e.Replacement)
		cursor = e.End()
	}
	b.WriteString(string(runes[cursor:]))
	res.Text = b.String()

	return res
}
