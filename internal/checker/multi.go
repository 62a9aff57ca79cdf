package checker

import (
	"context"
	"sync"
	"time"

	"github.com/valpere/pravka/internal/edit"
)

// Multi fans one Check call out to several checkers concurrently and
// concatenates their edits. Concatenation order does not matter: the
// resolver breaks ties by source, not arrival order, so composing
// checkers keeps the pipeline deterministic.
type Multi struct {
	checkers []Checker
	timeout  time.Duration
}

// NewMulti wraps checkers with a per-checker timeout. timeout <= 0
// disables the per-checker deadline (the caller's context still
// applies).
func NewMulti(checkers []Checker, timeout time.Duration) *Multi {
	return &Multi{checkers: checkers, timeout: timeout}
}

func (m *Multi) Name() string {
	return "multi"
}

// Check runs every checker in its own goroutine. Edits from all
// checkers that succeeded are concatenated; failures are tolerated as
// long as at least one checker answered. When every checker fails, the
// first error (in checker registration order) is returned.
func (m *Multi) Check(ctx context.Context, text string) ([]edit.Edit, error) {
	if len(m.checkers) == 0 {
		return nil, nil
	}

	type outcome struct {
		index int
		edits []edit.Edit
		err   error
	}

	results := make(chan outcome, len(m.checkers))

	var wg sync.WaitGroup
	for i, c := range m.checkers {
		wg.Add(1)
		go func(index int, c Checker) {
			defer wg.Done()

			checkCtx := ctx
			if m.timeout > 0 {
				var cancel context.CancelFunc
				checkCtx, cancel = context.WithTimeout(ctx, m.timeout)
				defer cancel()
			}

			edits, err := c.Check(checkCtx, text)
			results <- outcome{index: index, edits: edits, err: err}
		}(i, c)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var edits []edit.Edit
	errs := make([]error, len(m.checkers))
	succeeded := 0
	for r := range results {
		if r.err != nil {
			errs[r.index] = r.err
			continue
		}
		succeeded++
		edits = append(edits, r.edits...)
	}

	if succeeded == 0 {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	return edits, nil
}
