package checker

import (
	"context"

	"github.com/valpere/pravka/internal/edit"
)

// Stub is a deterministic checker for test environments: it returns a
// fixed, pre-registered edit list per input text. No network, no timing
// variance.
type Stub struct {
	edits map[string][]edit.Edit
	err   error
}

// NewStub creates an empty stub: every text checks clean.
func NewStub() *Stub {
	return &Stub{edits: make(map[string][]edit.Edit)}
}

func (s *Stub) Name() string {
	return "stub"
}

// Register fixes the edit list returned for an exact input text.
func (s *Stub) Register(text string, edits []edit.Edit) {
	s.edits[text] = edits
}

// Fail makes every subsequent Check return err (use ErrUnavailable or
// ErrTimeout to simulate oracle failures). Pass nil to heal.
func (s *Stub) Fail(err error) {
	s.err = err
}

// Check returns a copy of the registered edits for text.
func (s *Stub) Check(_ context.Context, text string) ([]edit.Edit, error) {
	if s.err != nil {
		return nil, s.err
	}
	registered := s.edits[text]
	out := make([]edit.Edit, len(registered))
	copy(out, registered)
	return out, nil
}
