// Package engine orchestrates one correction request: normalize the
// raw text, collect checker edits, collect mode-specific rule edits,
// and hand the whole multiset to the resolver. The engine holds no
// mutable state across requests and is safe for concurrent use.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/valpere/pravka/internal/checker"
	"github.com/valpere/pravka/internal/edit"
	"github.com/valpere/pravka/internal/resolver"
	"github.com/valpere/pravka/internal/rules"
)

// DefaultMaxTextLen caps the input size in runes.
const DefaultMaxTextLen = 15000

// Request is one immutable correction request.
type Request struct {
	Text        string
	Mode        rules.Mode
	ReturnEdits bool
}

// Stats summarizes one correction.
type Stats struct {
	CharsCount       int     `json:"chars_count"`
	EditsCount       int     `json:"edits_count"`
	ProcessingTimeMS float64 `json:"processing_time_ms"`
}

// Result carries the corrected text plus the audit trail. Edits are in
// the coordinates of the normalized original text, ascending; nil when
// the request did not ask for them.
type Result struct {
	Text  string
	Edits []edit.Edit
	Stats Stats
	// CheckerDegraded is set when the checker failed and the request
	// proceeded with rule-function edits only.
	CheckerDegraded bool
}

// TextTooLongError is the only engine failure surfaced to callers:
// the input exceeded the configured maximum. Checker failures degrade
// instead.
type TextTooLongError struct {
	Length int
	Limit  int
}

func (e *TextTooLongError) Error() string {
	return fmt.Sprintf("text too long: %d characters, maximum is %d", e.Length, e.Limit)
}

// Options tunes a new engine. Zero values get sensible defaults.
type Options struct {
	MaxTextLen int
	Rules      *rules.Set
	Logger     *slog.Logger
}

// Engine is the correction pipeline. The checker may be nil, in which
// case every request runs with rule-function edits only.
type Engine struct {
	checker checker.Checker
	rules   *rules.Set
	maxLen  int
	log     *slog.Logger
}

// New builds an engine around a checker adapter.
func New(c checker.Checker, opts Options) *Engine {
	if opts.MaxTextLen <= 0 {
		opts.MaxTextLen = DefaultMaxTextLen
	}
	if opts.Rules == nil {
		opts.Rules = rules.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		checker: c,
		rules:   opts.Rules,
		maxLen:  opts.MaxTextLen,
		log:     opts.Logger,
	}
}

// Correct runs the pipeline: normalizing → checking → rule application
// → resolving. It returns *TextTooLongError when the input exceeds the
// configured maximum; checker failures are recovered locally and only
// recorded on the result.
func (e *Engine) Correct(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if n := utf8.RuneCountInString(req.Text); n > e.maxLen {
		return nil, &TextTooLongError{Length: n, Limit: e.maxLen}
	}
	if req.Mode == "" {
		req.Mode = rules.ModeLegal
	}

	// The normalized text is the "original" all offsets refer to.
	original := Normalize(req.Text)
	e.log.Debug("text normalized", "mode", req.Mode, "chars", utf8.RuneCountInString(original))

	var edits []edit.Edit
	degraded := false
	if e.checker != nil {
		checkerEdits, err := e.checker.Check(ctx, original)
		if err != nil {
			// Best-effort source: proceed without it.
			e.log.Warn("checker failed, continuing without checker edits",
				"checker", e.checker.Name(), "error", err)
			degraded = true
		} else {
			edits = append(edits, checkerEdits...)
		}
	}

	edits = append(edits, e.rules.Apply(original, req.Mode)...)

	res := resolver.Resolve(original, edits)
	if len(res.Invalid) > 0 {
		e.log.Warn("dropped edits with mismatched original slice", "count", len(res.Invalid))
	}

	result := &Result{
		Text:            res.Text,
		CheckerDegraded: degraded,
		Stats: Stats{
			CharsCount:       utf8.RuneCountInString(res.Text),
			EditsCount:       len(res.Applied),
			ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000.0,
		},
	}
	if req.ReturnEdits {
		result.Edits = res.Applied
	}

	e.log.Info("correction complete",
		"mode", req.Mode,
		"edits", result.Stats.EditsCount,
		"rejected", len(res.Rejected),
		"ms", result.Stats.ProcessingTimeMS)

	return result, nil
}

var (
	nbspVariantsRe   = regexp.MustCompile("[   \t]")
	newlinePaddingRe = regexp.MustCompile(` ?\n ?`)
)

// Normalize canonicalizes raw whitespace before any scanning: NFC form,
// non-breaking space variants and tabs to plain space, padding around
// newlines stripped, outer whitespace trimmed. Runs of spaces are left
// alone on purpose — collapsing them is a legal-mode rule with a
// reportable edit, and this step produces no reportable edits. Its
// output is the original text all edit offsets are relative to.
func Normalize(text string) string {
	t := norm.NFC.String(text)
	t = nbspVariantsRe.ReplaceAllString(t, " ")
	t = newlinePaddingRe.ReplaceAllString(t, "\n")
	return strings.TrimSpace(t)
}
