// Package rollback tracks filesystem mutations in named sessions and can
// replay a session's log in reverse to undo it.
package rollback

import "time"

// OpType identifies the kind of filesystem mutation a session recorded
type OpType string

const (
	OpCreate OpType = "CREATE"
	OpUpdate OpType = "UPDATE"
	OpDelete OpType = "DELETE"
	OpMkdir  OpType = "MKDIR"
)

// FileOperation is one recorded filesystem mutation. Operations are
// appended in the exact order the real mutations happened; rollback
// replays them in reverse, so the ordering is load-bearing.
type FileOperation struct {
	Type       OpType
	Path       string
	BackupPath string
	At         time.Time
}

// Session is an append-only log of filesystem mutations scoped to one
// scaffold attempt. A session starts active and ends in exactly one of
// committed or rolled back, never both.
type Session struct {
	ID         string
	Operations []FileOperation
	Active     bool
	Committed  bool
	RolledBack bool
	StartedAt  time.Time
}

// UndoError reports one undo step that failed during rollback
type UndoError struct {
	Operation FileOperation
	Message   string
}

// Result reports a rollback run. Success is true only when every undo
// step succeeded; individual failures are collected, never thrown, so
// they cannot mask the error that triggered the rollback.
type Result struct {
	SessionID string
	Success   bool
	Undone    []FileOperation
	Errors    []UndoError

	// AlreadyRolledBack notes that the session had been rolled back
	// before this call, which is reported as a successful no-op.
	AlreadyRolledBack bool
}
