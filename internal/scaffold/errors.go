package scaffold

import (
	"fmt"
	"strings"

	"github.com/hmori/scenforge/internal/definition"
	"github.com/hmori/scenforge/internal/rollback"
)

// ValidationFailedError carries the full problem list of an invalid
// definition. It is returned before any session is opened or file is
// touched.
type ValidationFailedError struct {
	Problems []definition.Problem
}

func (e *ValidationFailedError) Error() string {
	lines := make([]string, 0, len(e.Problems)+1)
	lines = append(lines, fmt.Sprintf("definition is invalid (%d problem(s)):", len(e.Problems)))
	for _, p := range e.Problems {
		lines = append(lines, "  - "+p.String())
	}
	return strings.Join(lines, "\n")
}

// ScaffoldFailedError summarizes a mid-batch failure. The rollback's own
// result is attached as context, never swallowed, so the caller can see
// whether the undo itself fully succeeded.
type ScaffoldFailedError struct {
	Attempted int    // files attempted before the failure, the failing one included
	Planned   int    // files the whole batch would have written
	Path      string // the path that blocked or failed
	Cause     error  // nil when the write was blocked rather than failed
	Rollback  *rollback.Result
}

func (e *ScaffoldFailedError) Error() string {
	var b strings.Builder
	if e.Cause != nil {
		fmt.Fprintf(&b, "scaffold failed at %s (file %d of %d): %v", e.Path, e.Attempted, e.Planned, e.Cause)
	} else {
		fmt.Fprintf(&b, "scaffold blocked at %s (file %d of %d): existing file differs and overwrite is disabled", e.Path, e.Attempted, e.Planned)
	}
	if e.Rollback != nil {
		if e.Rollback.Success {
			fmt.Fprintf(&b, "; rolled back %d operation(s)", len(e.Rollback.Undone))
		} else {
			fmt.Fprintf(&b, "; rollback left %d operation(s) unresolved", len(e.Rollback.Errors))
		}
	}
	return b.String()
}

func (e *ScaffoldFailedError) Unwrap() error { return e.Cause }
