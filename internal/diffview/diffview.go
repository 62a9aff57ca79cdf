// Package diffview renders an HTML view of the changes a correction
// made. It walks the applied edit list over the original text, so the
// highlighting is exact — nothing is re-diffed after the fact.
package diffview

import (
	"fmt"
	"html"
	"strings"

	"github.com/valpere/pravka/internal/edit"
)

// Render produces an HTML fragment: untouched text escaped as-is,
// every edit shown as struck-through original followed by the
// highlighted replacement. The edits must be the resolver's applied
// list — valid, non-overlapping, ascending, in original coordinates.
func Render(original string, edits []edit.Edit) string {
	runes := []rune(original)
	var b strings.Builder

	cursor := 0
	for _, e := range edits {
		b.WriteString(html.EscapeString(string(runes[cursor:e.Offset])))
		if e.Original != "" {
			b.WriteString("<mark style='background:#ffeef0;text-decoration:line-through'>")
			b.WriteString(html.EscapeString(e.Original))
			b.WriteString("</mark>")
		}
		if e.Replacement != "" {
			b.WriteString("<mark style='background:#e6ffed'>")
			b.WriteString(html.EscapeString(e.Replacement))
			b.WriteString("</mark>")
		}
		cursor = e.End()
	}
	b.WriteString(html.EscapeString(string(runes[cursor:])))

	return b.String()
}

// Page wraps a Render fragment into a minimal standalone document.
func Page(title, fragment string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<pre style="white-space:pre-wrap;font-family:serif;font-size:1.1em">%s</pre>
</body>
</html>
`, html.EscapeString(title), fragment)
}
