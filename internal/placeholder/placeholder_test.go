package placeholder

import (
	"strings"
	"testing"
)

func TestShieldRestoreRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCount int
	}{
		{"plain text", "обычный русский текст", 0},
		{"inline code", "используй `fmt.Println` для вывода", 1},
		{"fenced block", "до\n```go\nfmt.Println(\"привет\")\n```\nпосле", 1},
		{"html tags", "<p>абзац с <b>выделением</b></p>", 4},
		{"mixed", "см. <a href=\"#\">ссылку</a> или `код` тут", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shielded, guard := Shield(tt.text)
			if guard.Count() != tt.wantCount {
				t.Fatalf("Count = %d, want %d (shielded %q)", guard.Count(), tt.wantCount, shielded)
			}
			if got := guard.Restore(shielded); got != tt.text {
				t.Errorf("round trip = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestShieldHidesContent(t *testing.T) {
	shielded, _ := Shield("текст с `秘密` внутри")
	if strings.Contains(shielded, "秘密") {
		t.Errorf("span still visible: %q", shielded)
	}
	if !strings.Contains(shielded, "[PH0]") {
		t.Errorf("no marker in %q", shielded)
	}
}

func TestShieldFencedBeforeInline(t *testing.T) {
	// A fenced block containing backticks must be captured whole, not
	// split open by the inline-code pattern.
	text := "```\nвнутри `вложенный` код\n```"
	shielded, guard := Shield(text)
	if guard.Count() != 1 {
		t.Fatalf("Count = %d, want 1 (shielded %q)", guard.Count(), shielded)
	}
	if shielded != "[PH0]" {
		t.Errorf("shielded = %q", shielded)
	}
}

func TestMissing(t *testing.T) {
	_, guard := Shield("см. `раз` и `два`")

	if m := guard.Missing("исправлено [PH0] и [PH1]"); len(m) != 0 {
		t.Errorf("Missing = %v, want none", m)
	}
	if m := guard.Missing("исправлено [PH0] и"); len(m) != 1 || m[0] != 1 {
		t.Errorf("Missing = %v, want [1]", m)
	}
	if m := guard.Missing("всё переписано"); len(m) != 2 {
		t.Errorf("Missing = %v, want both", m)
	}
}

func TestRestoreUnknownMarkerLeftAlone(t *testing.T) {
	_, guard := Shield("тут `код`")
	got := guard.Restore("текст [PH0] и выдуманный [PH7]")
	if got != "текст `код` и выдуманный [PH7]" {
		t.Errorf("Restore = %q", got)
	}
}
