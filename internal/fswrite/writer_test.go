package fswrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestWriteFileSafe_CreateThenSkip(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "file.md")
	content := []byte("hello world\n")
	w := NewWriter()

	result, err := w.WriteFileSafe(path, content, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Outcome != OutcomeCreated {
		t.Errorf("Expected created, got %s", result.Outcome)
	}

	// Writing identical content again is always a no-op, never a conflict
	result, err = w.WriteFileSafe(path, content, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Outcome != OutcomeSkipped {
		t.Errorf("Expected skipped on identical content, got %s", result.Outcome)
	}

	// Identical content with overwrite enabled must still skip
	result, err = w.WriteFileSafe(path, content, Options{Overwrite: true, Backup: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Outcome != OutcomeSkipped {
		t.Errorf("Expected skipped regardless of overwrite flag, got %s", result.Outcome)
	}
	if result.BackupPath != "" {
		t.Errorf("Expected no backup for a skipped write, got %s", result.BackupPath)
	}
}

func TestWriteFileSafe_BlockedLeavesFileUntouched(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "file.md")
	original := []byte("original content\n")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}
	w := NewWriter()

	result, err := w.WriteFileSafe(path, []byte("different content\n"), Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Outcome != OutcomeBlocked {
		t.Errorf("Expected blocked, got %s", result.Outcome)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(got) != string(original) {
		t.Errorf("Blocked write mutated the file: %q", got)
	}
}

func TestWriteFileSafe_UpdateWithBackup(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "file.md")
	original := []byte("original content\n")
	replacement := []byte("replacement content\n")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}
	w := NewWriter()

	result, err := w.WriteFileSafe(path, replacement, Options{Overwrite: true, Backup: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Outcome != OutcomeUpdated {
		t.Errorf("Expected updated, got %s", result.Outcome)
	}
	if result.BackupPath == "" {
		t.Fatal("Expected a backup path")
	}
	if filepath.Ext(result.BackupPath) != ".md" {
		t.Errorf("Expected backup to preserve the original extension, got %s", result.BackupPath)
	}

	backup, err := os.ReadFile(result.BackupPath)
	if err != nil {
		t.Fatalf("Failed to read backup: %v", err)
	}
	if string(backup) != string(original) {
		t.Errorf("Backup does not hold pre-write bytes: %q", backup)
	}

	got, _ := os.ReadFile(path)
	if string(got) != string(replacement) {
		t.Errorf("File not updated: %q", got)
	}

	// Exactly one backup was produced
	entries, _ := os.ReadDir(tempDir)
	backups := 0
	for _, e := range entries {
		if strings.Contains(e.Name(), ".backup-") {
			backups++
		}
	}
	if backups != 1 {
		t.Errorf("Expected exactly 1 backup file, got %d", backups)
	}
}

func TestWriteFileSafe_DryRun(t *testing.T) {
	tempDir := t.TempDir()
	w := NewWriter()

	t.Run("PlannedCreate", func(t *testing.T) {
		path := filepath.Join(tempDir, "new.md")
		result, err := w.WriteFileSafe(path, []byte("content\n"), Options{DryRun: true})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Outcome != OutcomeDryRun || result.Planned != OutcomeCreated {
			t.Errorf("Expected dry_run/created, got %s/%s", result.Outcome, result.Planned)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("Dry run must not touch the filesystem")
		}
	})

	t.Run("PlannedBlocked", func(t *testing.T) {
		path := filepath.Join(tempDir, "existing.md")
		if err := os.WriteFile(path, []byte("old\n"), 0644); err != nil {
			t.Fatalf("Failed to seed file: %v", err)
		}
		result, err := w.WriteFileSafe(path, []byte("new\n"), Options{DryRun: true})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Planned != OutcomeBlocked {
			t.Errorf("Expected planned blocked, got %s", result.Planned)
		}
	})
}

func TestWriteFileSafe_ExecutableMode(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "hook.js")
	w := NewWriter()

	result, err := w.WriteFileSafe(path, []byte("#!/usr/bin/env node\n"), Options{Mode: 0755})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Outcome != OutcomeCreated {
		t.Errorf("Expected created, got %s", result.Outcome)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode()&0111 == 0 {
		t.Errorf("Expected execute bit set, got mode %v", info.Mode())
	}
}

func TestWriteFilesBatch_FailFast(t *testing.T) {
	tempDir := t.TempDir()
	blockedPath := filepath.Join(tempDir, "b.md")
	if err := os.WriteFile(blockedPath, []byte("pre-existing\n"), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}
	w := NewWriter()

	files := []BatchFile{
		{Path: filepath.Join(tempDir, "a.md"), Content: []byte("a\n")},
		{Path: blockedPath, Content: []byte("different\n")},
		{Path: filepath.Join(tempDir, "c.md"), Content: []byte("c\n")},
	}

	results, err := w.WriteFilesBatch(files, BatchOptions{})
	if err == nil {
		t.Fatal("Expected an error from a blocked batch")
	}
	if !errors.Is(err, ErrWriteBlocked) {
		t.Errorf("Expected ErrWriteBlocked, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected results up to and including the blocked write, got %d", len(results))
	}
	if results[1].Outcome != OutcomeBlocked {
		t.Errorf("Expected second result blocked, got %s", results[1].Outcome)
	}
	if _, err := os.Stat(files[2].Path); !os.IsNotExist(err) {
		t.Error("Fail-fast batch must not write files after the blocked one")
	}
}

func TestWriteFilesBatch_ContinueOnError(t *testing.T) {
	tempDir := t.TempDir()
	blockedPath := filepath.Join(tempDir, "b.md")
	if err := os.WriteFile(blockedPath, []byte("pre-existing\n"), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}
	w := NewWriter()

	files := []BatchFile{
		{Path: filepath.Join(tempDir, "a.md"), Content: []byte("a\n")},
		{Path: blockedPath, Content: []byte("different\n")},
		{Path: filepath.Join(tempDir, "c.md"), Content: []byte("c\n")},
	}

	results, err := w.WriteFilesBatch(files, BatchOptions{ContinueOnError: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Outcome != OutcomeCreated || results[1].Outcome != OutcomeBlocked || results[2].Outcome != OutcomeCreated {
		t.Errorf("Unexpected outcomes: %v", results)
	}
}

func TestDeleteFileSafe(t *testing.T) {
	tempDir := t.TempDir()
	w := NewWriter()

	t.Run("MissingTargetSkips", func(t *testing.T) {
		result, err := w.DeleteFileSafe(filepath.Join(tempDir, "missing.md"), Options{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Outcome != OutcomeSkipped {
			t.Errorf("Expected skipped, got %s", result.Outcome)
		}
	})

	t.Run("DeleteWithBackup", func(t *testing.T) {
		path := filepath.Join(tempDir, "doomed.md")
		content := []byte("to be deleted\n")
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatalf("Failed to seed file: %v", err)
		}

		result, err := w.DeleteFileSafe(path, Options{Backup: true})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Outcome != OutcomeDeleted {
			t.Errorf("Expected deleted, got %s", result.Outcome)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("File should be gone")
		}
		backup, err := os.ReadFile(result.BackupPath)
		if err != nil {
			t.Fatalf("Failed to read backup: %v", err)
		}
		if string(backup) != string(content) {
			t.Errorf("Backup does not hold the deleted bytes: %q", backup)
		}
	})
}

func TestCleanupOldBackups(t *testing.T) {
	tempDir := t.TempDir()
	w := NewWriter()

	oldBackup := filepath.Join(tempDir, "file.backup-20200101-000000.md")
	freshBackup := filepath.Join(tempDir, "file.backup-20260101-000000.md")
	regular := filepath.Join(tempDir, "file.md")
	for _, p := range []string{oldBackup, freshBackup, regular} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to seed file: %v", err)
		}
	}
	stale := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(oldBackup, stale, stale); err != nil {
		t.Fatalf("Failed to age backup: %v", err)
	}
	// The regular file is old too, but not a backup
	if err := os.Chtimes(regular, stale, stale); err != nil {
		t.Fatalf("Failed to age file: %v", err)
	}

	removed, err := w.CleanupOldBackups(tempDir, 14)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 backup removed, got %d", removed)
	}
	if _, err := os.Stat(oldBackup); !os.IsNotExist(err) {
		t.Error("Old backup should be removed")
	}
	if _, err := os.Stat(freshBackup); err != nil {
		t.Error("Fresh backup should survive")
	}
	if _, err := os.Stat(regular); err != nil {
		t.Error("Non-backup files must never be cleaned up")
	}
}
