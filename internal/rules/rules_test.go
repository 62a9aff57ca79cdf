package rules

import (
	"testing"

	"github.com/valpere/pravka/internal/edit"
	"github.com/valpere/pravka/internal/resolver"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"base", ModeBase, false},
		{"legal", ModeLegal, false},
		{"strict", ModeStrict, false},
		{"", "", true},
		{"LEGAL", "", true},
		{"fancy", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMode(%q): expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestForMode(t *testing.T) {
	s := New(nil)

	if got := s.ForMode(ModeBase); got != nil {
		t.Errorf("ForMode(base) = %d rules, want none", len(got))
	}

	legal := s.ForMode(ModeLegal)
	strict := s.ForMode(ModeStrict)
	if len(strict) <= len(legal) {
		t.Errorf("strict mode has %d rules, legal has %d; strict must be a superset", len(strict), len(legal))
	}

	// Typography before legal before strict, matching tie-break priority.
	lastSource := edit.SourceChecker
	for _, r := range strict {
		if r.Source < lastSource {
			t.Errorf("rule %s with source %v appears after source %v", r.Name, r.Source, lastSource)
		}
		lastSource = r.Source
	}
}

func TestQuotesRule(t *testing.T) {
	s := New(nil)

	t.Run("simple pair", func(t *testing.T) {
		edits := s.quotesRule(`Он сказал "привет"`)
		if len(edits) != 1 {
			t.Fatalf("got %d edits, want 1", len(edits))
		}
		e := edits[0]
		if e.Offset != 10 || e.Length != 8 {
			t.Errorf("span = (%d, %d), want (10, 8)", e.Offset, e.Length)
		}
		if e.Original != `"привет"` {
			t.Errorf("Original = %q", e.Original)
		}
		if e.Replacement != "«привет»" {
			t.Errorf("Replacement = %q", e.Replacement)
		}
		if e.Source != edit.SourceLegal {
			t.Errorf("Source = %v, want legal", e.Source)
		}
	})

	t.Run("two pairs", func(t *testing.T) {
		edits := s.quotesRule(`"раз" и "два"`)
		if len(edits) != 2 {
			t.Fatalf("got %d edits, want 2", len(edits))
		}
		if edits[0].Offset != 0 || edits[1].Offset != 8 {
			t.Errorf("offsets = %d, %d; want 0, 8", edits[0].Offset, edits[1].Offset)
		}
	})

	t.Run("preserved abbreviation inside quotes", func(t *testing.T) {
		edits := s.quotesRule(`"ООО Ромашка" заключила договор`)
		if len(edits) != 0 {
			t.Fatalf("got %d edits, want 0: quoted abbreviation must stay", len(edits))
		}
	})

	t.Run("abbreviation outside quotes does not protect", func(t *testing.T) {
		edits := s.quotesRule(`ООО заключило договор "Поставка"`)
		if len(edits) != 1 {
			t.Fatalf("got %d edits, want 1", len(edits))
		}
	})

	t.Run("case sensitive token match", func(t *testing.T) {
		// "ооо" is an ordinary word, not the legal form.
		edits := s.quotesRule(`"ооо как интересно"`)
		if len(edits) != 1 {
			t.Fatalf("got %d edits, want 1", len(edits))
		}
	})

	t.Run("custom abbreviations", func(t *testing.T) {
		custom := New([]string{"АБВ"})
		if got := custom.quotesRule(`"АБВ напомнило"`); len(got) != 0 {
			t.Errorf("custom token not preserved")
		}
		// Defaults are replaced, not extended.
		if got := custom.quotesRule(`"ООО Ромашка"`); len(got) != 1 {
			t.Errorf("default token unexpectedly preserved with custom set")
		}
	})

	t.Run("unpaired quote ignored", func(t *testing.T) {
		if got := s.quotesRule(`он сказал "и замолчал`); len(got) != 0 {
			t.Errorf("got %d edits, want 0", len(got))
		}
	})

	t.Run("pair never spans newline", func(t *testing.T) {
		if got := s.quotesRule("\"первая\nвторая\""); len(got) != 0 {
			t.Errorf("got %d edits, want 0", len(got))
		}
	})
}

func TestDashRule(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []edit.Edit
	}{
		{
			name: "spaced hyphen",
			text: "слово - слово",
			want: []edit.Edit{{Offset: 5, Length: 3, Original: " - ", Replacement: " — "}},
		},
		{
			name: "bare hyphen between words",
			text: "слово-слово",
			want: []edit.Edit{{Offset: 5, Length: 1, Original: "-", Replacement: " — "}},
		},
		{
			name: "chain",
			text: "а-б-в",
			want: []edit.Edit{
				{Offset: 1, Length: 1, Original: "-", Replacement: " — "},
				{Offset: 3, Length: 1, Original: "-", Replacement: " — "},
			},
		},
		{
			name: "digits count as words",
			text: "3 - 4",
			want: []edit.Edit{{Offset: 1, Length: 3, Original: " - ", Replacement: " — "}},
		},
		{
			name: "leading hyphen untouched",
			text: "- пункт списка",
			want: nil,
		},
		{
			name: "em dash already present",
			text: "слово — слово",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dashRule(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d edits, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				w := tt.want[i]
				if got[i].Offset != w.Offset || got[i].Length != w.Length ||
					got[i].Original != w.Original || got[i].Replacement != w.Replacement {
					t.Errorf("edit %d = %+v, want %+v", i, got[i], w)
				}
			}
		})
	}
}

func TestSpacesRule(t *testing.T) {
	edits := spacesRule("Текст   с   пробелами")
	if len(edits) != 2 {
		t.Fatalf("got %d edits, want 2", len(edits))
	}
	if edits[0].Offset != 5 || edits[0].Length != 3 || edits[0].Replacement != " " {
		t.Errorf("first edit = %+v", edits[0])
	}
	if edits[1].Offset != 9 || edits[1].Length != 3 {
		t.Errorf("second edit = %+v", edits[1])
	}

	if got := spacesRule("один пробел тут"); len(got) != 0 {
		t.Errorf("single spaces produced %d edits", len(got))
	}
}

func TestPunctSpaceRule(t *testing.T) {
	edits := punctSpaceRule("слово .")
	if len(edits) != 1 {
		t.Fatalf("got %d edits, want 1", len(edits))
	}
	e := edits[0]
	if e.Offset != 5 || e.Length != 1 || e.Replacement != "" {
		t.Errorf("edit = %+v", e)
	}

	if got := punctSpaceRule("слово, и ещё."); len(got) != 0 {
		t.Errorf("correct punctuation produced %d edits", len(got))
	}
}

func TestEllipsisRule(t *testing.T) {
	edits := ellipsisRule("Так вот...")
	if len(edits) != 1 {
		t.Fatalf("got %d edits, want 1", len(edits))
	}
	if edits[0].Offset != 7 || edits[0].Length != 3 || edits[0].Replacement != "…" {
		t.Errorf("edit = %+v", edits[0])
	}
}

func TestNBSPRules(t *testing.T) {
	tests := []struct {
		name       string
		rule       func(string) []edit.Edit
		text       string
		wantOffset int
		wantLength int
	}{
		{"percent with space", percentRule, "скидка 50 %", 9, 1},
		{"percent adjacent is insertion", percentRule, "скидка 50%", 9, 0},
		{"unit", unitsRule, "5 км пути", 1, 1},
		{"unit with abbreviated thousand", unitsRule, "10 тыс. рублей", 2, 1},
		{"numero with space", numeroRule, "договор № 5", 9, 1},
		{"numero adjacent is insertion", numeroRule, "договор №5", 9, 0},
		{"article reference", referencesRule, "ст. 10 ГК", 3, 1},
		{"reference mid-sentence", referencesRule, "согласно п. 2 договора", 11, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule(tt.text)
			if len(got) != 1 {
				t.Fatalf("got %d edits, want 1: %+v", len(got), got)
			}
			e := got[0]
			if e.Offset != tt.wantOffset || e.Length != tt.wantLength {
				t.Errorf("span = (%d, %d), want (%d, %d)", e.Offset, e.Length, tt.wantOffset, tt.wantLength)
			}
			if e.Replacement != NBSP {
				t.Errorf("Replacement = %q, want NBSP", e.Replacement)
			}
			if e.Source != edit.SourceTypography {
				t.Errorf("Source = %v, want typography", e.Source)
			}
		})
	}

	t.Run("unit requires a gap", func(t *testing.T) {
		if got := unitsRule("5км"); len(got) != 0 {
			t.Errorf("adjacent unit produced %d edits", len(got))
		}
	})

	t.Run("unit must not match word prefix", func(t *testing.T) {
		if got := unitsRule("5 градусов"); len(got) != 0 {
			t.Errorf("word starting with unit letter produced %d edits: %+v", len(got), got)
		}
	})
}

func TestNewlinesRule(t *testing.T) {
	edits := newlinesRule("абзац\n\n\n\nследующий")
	if len(edits) != 1 {
		t.Fatalf("got %d edits, want 1", len(edits))
	}
	if edits[0].Offset != 5 || edits[0].Length != 4 || edits[0].Replacement != "\n\n" {
		t.Errorf("edit = %+v", edits[0])
	}

	if got := newlinesRule("абзац\n\nследующий"); len(got) != 0 {
		t.Errorf("double newline produced %d edits", len(got))
	}
}

func TestAfterPunctRule(t *testing.T) {
	edits := afterPunctRule("привет,мир")
	if len(edits) != 1 {
		t.Fatalf("got %d edits, want 1", len(edits))
	}
	e := edits[0]
	if e.Offset != 7 || e.Length != 0 || e.Replacement != " " {
		t.Errorf("edit = %+v", e)
	}

	t.Run("decimal numbers untouched", func(t *testing.T) {
		if got := afterPunctRule("ставка 3,5 процента"); len(got) != 0 {
			t.Errorf("decimal produced %d edits", len(got))
		}
	})
}

// End-to-end composition through the resolver.
func TestApplyComposed(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name string
		text string
		mode Mode
		want string
	}{
		{"quotes legal", `Он сказал "привет"`, ModeLegal, "Он сказал «привет»"},
		{"base leaves everything", "Текст   с   пробелами", ModeBase, "Текст   с   пробелами"},
		{"bare dash legal", "слово-слово", ModeLegal, "слово — слово"},
		{"padded dash legal", "слово  -  слово", ModeLegal, "слово — слово"},
		{"spaces legal", "Текст   с   пробелами", ModeLegal, "Текст с пробелами"},
		{"newlines stay in legal", "абзац\n\n\n\nследующий", ModeLegal, "абзац\n\n\n\nследующий"},
		{"newlines collapse in strict", "абзац\n\n\n\nследующий", ModeStrict, "абзац\n\nследующий"},
		{"missing space added in strict", "привет,мир", ModeStrict, "привет, мир"},
		{"ellipsis and percent", "Итого... 50 %", ModeLegal, "Итого… 50" + NBSP + "%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := resolver.Resolve(tt.text, s.Apply(tt.text, tt.mode))
			if res.Text != tt.want {
				t.Errorf("Apply(%q, %s) = %q, want %q", tt.text, tt.mode, res.Text, tt.want)
			}
		})
	}
}

// Rule output must reach a fixed point: running the same mode over an
// already corrected text yields no further edits.
func TestApplyFixedPoint(t *testing.T) {
	s := New(nil)
	inputs := []string{
		`Он сказал "привет"`,
		"слово-слово, и ещё   раз ...",
		"слово  -  слово",
		"договор №5 от 01.01.2025, скидка 50% по ст.10",
	}

	for _, input := range inputs {
		for _, mode := range []Mode{ModeLegal, ModeStrict} {
			first := resolver.Resolve(input, s.Apply(input, mode))
			second := s.Apply(first.Text, mode)
			if len(second) != 0 {
				t.Errorf("mode %s: %q not a fixed point, second pass wants %+v (text %q)",
					mode, input, second, first.Text)
			}
		}
	}
}
