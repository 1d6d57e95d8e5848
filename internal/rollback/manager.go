package rollback

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hmori/scenforge/pkg/logger"
)

// ErrSessionNotActive reports recording into a session that was already
// committed or rolled back
var ErrSessionNotActive = errors.New("rollback session is not active")

// Manager owns zero or more named sessions plus a current-session pointer
// for convenience. Independent sessions may coexist in the table, but the
// manager provides no locking between concurrent invocations touching
// overlapping paths; serializing those is the caller's responsibility.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	current  *Session
	log      *logger.Logger
}

// NewManager creates an empty session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		log:      logger.NewComponentLogger("rollback"),
	}
}

// StartSession creates and activates a new session. An empty id gets a
// generated one. The new session becomes the current session.
func (m *Manager) StartSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	session := &Session{
		ID:        id,
		Active:    true,
		StartedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.current = session
	m.mu.Unlock()

	m.log.Debug("session started", "session", id)
	return session
}

// CurrentSession returns the most recently started session, or nil
func (m *Manager) CurrentSession() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Session looks up a session by id
func (m *Manager) Session(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// RecordCreate appends a CREATE operation for a file that was created
func (m *Manager) RecordCreate(s *Session, path string) error {
	return m.record(s, FileOperation{Type: OpCreate, Path: path})
}

// RecordUpdate appends an UPDATE operation with the backup holding the
// file's pre-write content
func (m *Manager) RecordUpdate(s *Session, path, backupPath string) error {
	return m.record(s, FileOperation{Type: OpUpdate, Path: path, BackupPath: backupPath})
}

// RecordDelete appends a DELETE operation with the backup holding the
// deleted content
func (m *Manager) RecordDelete(s *Session, path, backupPath string) error {
	return m.record(s, FileOperation{Type: OpDelete, Path: path, BackupPath: backupPath})
}

// RecordMkdir appends a MKDIR operation for a directory that was created
func (m *Manager) RecordMkdir(s *Session, path string) error {
	return m.record(s, FileOperation{Type: OpMkdir, Path: path})
}

func (m *Manager) record(s *Session, op FileOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !s.Active {
		return errors.Wrapf(ErrSessionNotActive, "cannot record %s %s into session %s", op.Type, op.Path, s.ID)
	}

	op.At = time.Now()
	s.Operations = append(s.Operations, op)
	return nil
}

// Commit marks a session's operations permanent. No further recording is
// permitted afterwards.
func (m *Manager) Commit(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.RolledBack {
		return errors.Errorf("session %s was already rolled back", s.ID)
	}
	if s.Committed {
		return nil
	}
	if !s.Active {
		return errors.Wrapf(ErrSessionNotActive, "cannot commit session %s", s.ID)
	}

	s.Committed = true
	s.Active = false
	m.log.Debug("session committed", "session", s.ID, "operations", len(s.Operations))
	return nil
}

// Rollback undoes a session's operations in reverse order. Individual
// undo failures are collected and the remaining steps still run; Success
// is true only when every step succeeded. Rolling back an
// already-rolled-back session is a successful no-op.
func (m *Manager) Rollback(s *Session) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := Result{SessionID: s.ID}

	if s.RolledBack {
		result.Success = true
		result.AlreadyRolledBack = true
		return result
	}
	if s.Committed {
		result.Errors = append(result.Errors, UndoError{
			Message: fmt.Sprintf("session %s was already committed; refusing to undo permanent operations", s.ID),
		})
		return result
	}

	log := m.log.WithSession(s.ID)
	for i := len(s.Operations) - 1; i >= 0; i-- {
		op := s.Operations[i]
		if err := undo(op); err != nil {
			log.Warn("undo step failed", "type", string(op.Type), "path", op.Path, "error", err)
			result.Errors = append(result.Errors, UndoError{Operation: op, Message: err.Error()})
			continue
		}
		log.Debug("undone", "type", string(op.Type), "path", op.Path)
		result.Undone = append(result.Undone, op)
	}

	s.RolledBack = true
	s.Active = false
	result.Success = len(result.Errors) == 0
	return result
}

// undo reverses a single recorded operation
func undo(op FileOperation) error {
	switch op.Type {
	case OpCreate:
		// The created file may already be gone; that is the desired state
		if err := os.Remove(op.Path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to remove created file %s", op.Path)
		}
		return nil

	case OpUpdate:
		return restoreFromBackup(op)

	case OpDelete:
		return restoreFromBackup(op)

	case OpMkdir:
		// Only an empty directory is removed; files that appeared inside
		// it since are not ours to destroy
		entries, err := os.ReadDir(op.Path)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "failed to inspect directory %s", op.Path)
		}
		if len(entries) > 0 {
			return errors.Errorf("directory %s is not empty", op.Path)
		}
		return errors.Wrapf(os.Remove(op.Path), "failed to remove directory %s", op.Path)

	default:
		return errors.Errorf("unknown operation type %q", op.Type)
	}
}

func restoreFromBackup(op FileOperation) error {
	if op.BackupPath == "" {
		return errors.Errorf("no backup recorded for %s %s", op.Type, op.Path)
	}
	content, err := os.ReadFile(op.BackupPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read backup %s", op.BackupPath)
	}
	if err := os.MkdirAll(filepath.Dir(op.Path), 0755); err != nil {
		return errors.Wrapf(err, "failed to recreate directory for %s", op.Path)
	}
	return errors.Wrapf(os.WriteFile(op.Path, content, 0644), "failed to restore %s", op.Path)
}

// CleanupSession deletes backup files referenced by a committed session,
// reclaiming space once the operations are permanent. Returns how many
// backups were removed.
func (m *Manager) CleanupSession(s *Session) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !s.Committed {
		return 0, errors.Errorf("session %s is not committed; backups may still be needed for rollback", s.ID)
	}

	removed := 0
	for _, op := range s.Operations {
		if op.BackupPath == "" {
			continue
		}
		if err := os.Remove(op.BackupPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.Wrapf(err, "failed to remove backup %s", op.BackupPath)
		}
		removed++
	}
	return removed, nil
}
