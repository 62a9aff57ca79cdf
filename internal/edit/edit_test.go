package edit

import "testing"

func TestEnd(t *testing.T) {
	e := Edit{Offset: 3, Length: 4}
	if e.End() != 7 {
		t.Errorf("End() = %d, want 7", e.End())
	}
}

func TestConflictsWith(t *testing.T) {
	tests := []struct {
		name string
		a, b Edit
		want bool
	}{
		{"identical spans", Edit{Offset: 0, Length: 3}, Edit{Offset: 0, Length: 3}, true},
		{"partial overlap", Edit{Offset: 0, Length: 3}, Edit{Offset: 2, Length: 2}, true},
		{"containment", Edit{Offset: 0, Length: 5}, Edit{Offset: 1, Length: 2}, true},
		{"adjacent", Edit{Offset: 0, Length: 3}, Edit{Offset: 3, Length: 2}, false},
		{"disjoint", Edit{Offset: 0, Length: 2}, Edit{Offset: 5, Length: 1}, false},
		{"insertion at boundary", Edit{Offset: 0, Length: 3}, Edit{Offset: 3, Length: 0}, false},
		{"insertion inside", Edit{Offset: 0, Length: 3}, Edit{Offset: 1, Length: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.ConflictsWith(tt.b); got != tt.want {
				t.Errorf("ConflictsWith = %v, want %v", got, tt.want)
			}
			if got := tt.b.ConflictsWith(tt.a); got != tt.want {
				t.Errorf("ConflictsWith not symmetric")
			}
		})
	}
}

func TestMatches(t *testing.T) {
	original := []rune("привет мир")

	tests := []struct {
		name string
		e    Edit
		want bool
	}{
		{"exact", Edit{Offset: 7, Length: 3, Original: "мир"}, true},
		{"empty at end", Edit{Offset: 10, Length: 0, Original: ""}, true},
		{"wrong slice", Edit{Offset: 7, Length: 3, Original: "мЫр"}, false},
		{"negative offset", Edit{Offset: -1, Length: 2, Original: "пр"}, false},
		{"negative length", Edit{Offset: 0, Length: -2}, false},
		{"past end", Edit{Offset: 9, Length: 5, Original: "р"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Matches(original); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameChange(t *testing.T) {
	a := Edit{Offset: 1, Length: 2, Replacement: "х", Message: "a", Source: SourceChecker}
	b := Edit{Offset: 1, Length: 2, Replacement: "х", Message: "b", Source: SourceLegal}
	if !a.SameChange(b) {
		t.Error("message and source must be ignored")
	}
	c := Edit{Offset: 1, Length: 2, Replacement: "у"}
	if a.SameChange(c) {
		t.Error("different replacement is a different change")
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		s    Source
		want string
	}{
		{SourceChecker, "checker"},
		{SourceTypography, "typography"},
		{SourceLegal, "legal"},
		{SourceStrict, "strict"},
		{Source(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Source(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestSourcePriorityOrder(t *testing.T) {
	if !(SourceChecker < SourceTypography && SourceTypography < SourceLegal && SourceLegal < SourceStrict) {
		t.Error("source declaration order must match tie-break priority")
	}
}
