package diffview

import (
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/valpere/pravka/internal/edit"
	"github.com/valpere/pravka/internal/resolver"
)

var strikeRe = regexp.MustCompile(`(?s)<mark style='background:#ffeef0;text-decoration:line-through'>.*?</mark>`)

func TestRenderNoEdits(t *testing.T) {
	got := Render("ничего не менялось", nil)
	if got != "ничего не менялось" {
		t.Errorf("Render = %q", got)
	}
}

func TestRenderReplacement(t *testing.T) {
	got := Render("превет мир", []edit.Edit{
		{Offset: 0, Length: 6, Original: "превет", Replacement: "привет"},
	})
	for _, want := range []string{
		"line-through'>превет</mark>",
		"#e6ffed'>привет</mark>",
		" мир",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render = %q, missing %q", got, want)
		}
	}
}

func TestRenderInsertionHasNoStrikethrough(t *testing.T) {
	got := Render("привет,мир", []edit.Edit{
		{Offset: 7, Length: 0, Original: "", Replacement: " "},
	})
	if strings.Contains(got, "line-through") {
		t.Errorf("pure insertion rendered with strikethrough: %q", got)
	}
	if !strings.Contains(got, "#e6ffed'> </mark>") {
		t.Errorf("insertion not highlighted: %q", got)
	}
}

func TestRenderDeletionHasNoInsertMark(t *testing.T) {
	got := Render("слово .", []edit.Edit{
		{Offset: 5, Length: 1, Original: " ", Replacement: ""},
	})
	if strings.Contains(got, "#e6ffed") {
		t.Errorf("pure deletion rendered an insertion mark: %q", got)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	got := Render(`сказал "<б>"`, []edit.Edit{
		{Offset: 7, Length: 5, Original: `"<б>"`, Replacement: "«<б>»"},
	})
	if strings.Contains(got, "<б>") {
		t.Errorf("unescaped markup in output: %q", got)
	}
	if !strings.Contains(got, "&lt;б&gt;") {
		t.Errorf("escaped content missing: %q", got)
	}
}

// Stripping the markup from a rendered diff must yield exactly the
// corrected text the resolver produced.
func TestRenderMatchesResolvedText(t *testing.T) {
	original := `Он сказал "привет"  и ушёл`
	edits := []edit.Edit{
		{Offset: 10, Length: 8, Original: `"привет"`, Replacement: "«привет»"},
		{Offset: 18, Length: 2, Original: "  ", Replacement: " "},
	}
	res := resolver.Resolve(original, edits)

	rendered := Render(original, res.Applied)

	// Struck-through originals disappear, insertion marks keep their
	// content, entities are decoded back.
	stripped := strikeRe.ReplaceAllString(rendered, "")
	stripped = strings.ReplaceAll(stripped, "<mark style='background:#e6ffed'>", "")
	stripped = strings.ReplaceAll(stripped, "</mark>", "")
	stripped = html.UnescapeString(stripped)

	if stripped != res.Text {
		t.Errorf("stripped diff = %q, resolver text = %q", stripped, res.Text)
	}
}

func TestPage(t *testing.T) {
	page := Page("заголовок & ещё", "<b>тело</b>")
	if !strings.Contains(page, "<title>заголовок &amp; ещё</title>") {
		t.Errorf("title not escaped: %q", page)
	}
	if !strings.Contains(page, "<b>тело</b>") {
		t.Errorf("fragment must be embedded unescaped: %q", page)
	}
	if !strings.Contains(page, "<!DOCTYPE html>") {
		t.Errorf("not a standalone document: %q", page)
	}
}
