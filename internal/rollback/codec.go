package rollback

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// The wire form is an explicit serialization boundary: the in-memory
// session type is free to evolve without being shaped by the persisted
// JSON, and vice versa. Used for diagnostics and crash-recovery
// inspection, not for concurrent coordination.

type sessionRecord struct {
	ID         string            `json:"id"`
	Operations []operationRecord `json:"operations"`
	Active     bool              `json:"active"`
	Committed  bool              `json:"committed"`
	RolledBack bool              `json:"rolled_back"`
	StartedAt  time.Time         `json:"started_at"`
}

type operationRecord struct {
	Type       string    `json:"type"`
	Path       string    `json:"path"`
	BackupPath string    `json:"backup_path,omitempty"`
	At         time.Time `json:"at"`
}

// ExportSession encodes a session into its portable form, preserving
// operation type, path and order
func (m *Manager) ExportSession(s *Session) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := sessionRecord{
		ID:         s.ID,
		Operations: make([]operationRecord, len(s.Operations)),
		Active:     s.Active,
		Committed:  s.Committed,
		RolledBack: s.RolledBack,
		StartedAt:  s.StartedAt,
	}
	for i, op := range s.Operations {
		record.Operations[i] = operationRecord{
			Type:       string(op.Type),
			Path:       op.Path,
			BackupPath: op.BackupPath,
			At:         op.At,
		}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode session %s", s.ID)
	}
	return data, nil
}

// ImportSession decodes a portable session and registers it in the
// manager's table. It does not become the current session.
func (m *Manager) ImportSession(data []byte) (*Session, error) {
	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "failed to decode session")
	}
	if record.ID == "" {
		return nil, errors.New("session record has no id")
	}

	session := &Session{
		ID:         record.ID,
		Operations: make([]FileOperation, len(record.Operations)),
		Active:     record.Active,
		Committed:  record.Committed,
		RolledBack: record.RolledBack,
		StartedAt:  record.StartedAt,
	}
	for i, op := range record.Operations {
		session.Operations[i] = FileOperation{
			Type:       OpType(op.Type),
			Path:       op.Path,
			BackupPath: op.BackupPath,
			At:         op.At,
		}
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session, nil
}
