// Package fswrite performs single safe file mutations with hash-based
// no-op detection, backup creation and dry-run support. It knows nothing
// about sessions or definition graphs; callers own that bookkeeping.
package fswrite

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hmori/scenforge/pkg/logger"
)

// ErrWriteBlocked reports a pre-existing file with different content while
// overwrite is disabled. The batch writer wraps it with the blocking path.
var ErrWriteBlocked = errors.New("write blocked: existing file differs and overwrite is disabled")

// Outcome describes what a safe write or delete did (or would do)
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeBlocked Outcome = "blocked"
	OutcomeDeleted Outcome = "deleted"
	OutcomeDryRun  Outcome = "dry_run"
)

// Options controls a single safe write or delete
type Options struct {
	Overwrite bool        // replace existing files with differing content
	Backup    bool        // save the pre-write content before replacing
	DryRun    bool        // report the outcome without touching the filesystem
	Mode      os.FileMode // file mode for new files; 0 means 0644
}

// Result reports one safe write or delete
type Result struct {
	Path       string  `json:"path"`
	Outcome    Outcome `json:"outcome"`
	BackupPath string  `json:"backup_path,omitempty"`

	// Planned holds the outcome a dry run would have produced
	Planned Outcome `json:"planned,omitempty"`
}

// BatchFile is one entry of a batch write
type BatchFile struct {
	Path    string
	Content []byte
	Mode    os.FileMode
}

// BatchOptions controls a batch write. The default is fail-fast: the
// batch stops at the first blocked or failed write so the caller can
// decide whether to roll back what was already applied.
type BatchOptions struct {
	Options
	ContinueOnError bool
}

// Writer performs safe writes. The zero value is not usable; construct
// with NewWriter.
type Writer struct {
	now func() time.Time
	log *logger.Logger
}

// NewWriter creates a writer with the default clock
func NewWriter() *Writer {
	return &Writer{
		now: time.Now,
		log: logger.NewComponentLogger("fswrite"),
	}
}

// WriteFileSafe writes content to path with no-op detection and backup
// support. Identical existing content is always reported as skipped and
// never treated as a conflict, regardless of the overwrite flag.
func (w *Writer) WriteFileSafe(path string, content []byte, opts Options) (Result, error) {
	result := Result{Path: path}

	newHash := hashContent(content)
	existing, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return result, errors.Wrapf(err, "failed to read existing file %s", path)
	}

	var planned Outcome
	switch {
	case !exists:
		planned = OutcomeCreated
	case hashContent(existing) == newHash:
		planned = OutcomeSkipped
	case !opts.Overwrite:
		planned = OutcomeBlocked
	default:
		planned = OutcomeUpdated
	}

	if opts.DryRun {
		result.Outcome = OutcomeDryRun
		result.Planned = planned
		return result, nil
	}

	result.Outcome = planned
	switch planned {
	case OutcomeSkipped, OutcomeBlocked:
		return result, nil

	case OutcomeCreated:
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return result, errors.Wrapf(err, "failed to create directory for %s", path)
		}
		if err := os.WriteFile(path, content, fileMode(opts.Mode)); err != nil {
			return result, errors.Wrapf(err, "failed to write file %s", path)
		}

	case OutcomeUpdated:
		if opts.Backup {
			backupPath := w.backupPath(path)
			if err := os.WriteFile(backupPath, existing, 0644); err != nil {
				return result, errors.Wrapf(err, "failed to write backup %s", backupPath)
			}
			result.BackupPath = backupPath
		}
		if err := os.WriteFile(path, content, fileMode(opts.Mode)); err != nil {
			return result, errors.Wrapf(err, "failed to overwrite file %s", path)
		}
	}

	// A requested mode must hold even when the file pre-existed with a
	// different one (hook scripts need the execute bit)
	if opts.Mode != 0 && planned == OutcomeUpdated {
		if err := os.Chmod(path, opts.Mode); err != nil {
			return result, errors.Wrapf(err, "failed to set mode on %s", path)
		}
	}

	w.log.Debug("safe write", "path", path, "outcome", result.Outcome)
	return result, nil
}

// WriteFilesBatch applies writes in order. With the default fail-fast
// behavior it stops at the first blocked or failed write and returns the
// results produced so far, the failing one included, together with a
// non-nil error. With ContinueOnError every write is attempted and the
// per-file outcomes tell the full story.
func (w *Writer) WriteFilesBatch(files []BatchFile, opts BatchOptions) ([]Result, error) {
	results := make([]Result, 0, len(files))

	for _, file := range files {
		fileOpts := opts.Options
		if file.Mode != 0 {
			fileOpts.Mode = file.Mode
		}

		result, err := w.WriteFileSafe(file.Path, file.Content, fileOpts)
		results = append(results, result)

		if opts.ContinueOnError {
			continue
		}
		if err != nil {
			return results, err
		}
		if result.Outcome == OutcomeBlocked {
			return results, errors.Wrapf(ErrWriteBlocked, "%s", file.Path)
		}
	}
	return results, nil
}

// DeleteFileSafe removes path. A missing target is reported as skipped;
// an existing one is optionally backed up first.
func (w *Writer) DeleteFileSafe(path string, opts Options) (Result, error) {
	result := Result{Path: path}

	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if opts.DryRun {
			result.Outcome = OutcomeDryRun
			result.Planned = OutcomeSkipped
			return result, nil
		}
		result.Outcome = OutcomeSkipped
		return result, nil
	}
	if err != nil {
		return result, errors.Wrapf(err, "failed to read file %s before delete", path)
	}

	if opts.DryRun {
		result.Outcome = OutcomeDryRun
		result.Planned = OutcomeDeleted
		return result, nil
	}

	if opts.Backup {
		backupPath := w.backupPath(path)
		if err := os.WriteFile(backupPath, existing, 0644); err != nil {
			return result, errors.Wrapf(err, "failed to write backup %s", backupPath)
		}
		result.BackupPath = backupPath
	}

	if err := os.Remove(path); err != nil {
		return result, errors.Wrapf(err, "failed to delete file %s", path)
	}

	result.Outcome = OutcomeDeleted
	w.log.Debug("safe delete", "path", path)
	return result, nil
}

// CleanupOldBackups removes backup files in dir older than the retention
// window and returns how many were deleted. This is filesystem hygiene,
// not part of the transactional contract.
func (w *Writer) CleanupOldBackups(dir string, retentionDays int) (int, error) {
	cutoff := w.now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read backup directory %s", dir)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), backupMarker) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, errors.Wrapf(err, "failed to remove old backup %s", entry.Name())
		}
		removed++
	}
	return removed, nil
}

const backupMarker = ".backup-"

// backupPath derives a timestamped sibling path that preserves the
// original extension: notes.md -> notes.backup-20060102-150405.md
func (w *Writer) backupPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	stamp := w.now().Format("20060102-150405")
	return base + backupMarker + stamp + ext
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func fileMode(mode os.FileMode) os.FileMode {
	if mode == 0 {
		return 0644
	}
	return mode
}
