// Package checker defines the adapter interface to external
// grammar/spelling oracles and its implementations: the live
// LanguageTool backend, an Ollama-backed LLM corrector, a deterministic
// stub for tests, and a fan-out combinator.
//
// A checker failure is never fatal for a correction request: the engine
// degrades to rule-function edits only. The two sentinel errors below
// let callers distinguish an unreachable oracle from a slow one.
package checker

import (
	"context"
	"errors"

	"github.com/valpere/pravka/internal/edit"
)

var (
	// ErrUnavailable means the external oracle could not be reached.
	ErrUnavailable = errors.New("checker unavailable")
	// ErrTimeout means the oracle did not answer within the deadline.
	ErrTimeout = errors.New("checker timeout")
)

// Checker is the capability interface to a grammar/spelling oracle.
// Check must be called with the normalized text: the returned edits are
// expressed in rune offsets over exactly that string.
type Checker interface {
	Name() string
	Check(ctx context.Context, text string) ([]edit.Edit, error)
}
