package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaultSettings(t *testing.T) {
	settings := GetDefaultSettings()

	if settings.Scaffold.Root == "" {
		t.Error("Expected a default root")
	}
	if settings.Scaffold.Overwrite {
		t.Error("Overwrite must default to off")
	}
	if !settings.Scaffold.Backup {
		t.Error("Backup must default to on")
	}
	if settings.Scaffold.BackupRetentionDays != DefaultBackupRetentionDays {
		t.Errorf("Expected retention %d, got %d", DefaultBackupRetentionDays, settings.Scaffold.BackupRetentionDays)
	}
	if settings.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %q", settings.Log.Level)
	}
}

func TestLoadSettings_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "settings.json")
	content := `{
  "scaffold": {
    "root": "/srv/artifacts",
    "overwrite": true
  },
  "log": {
    "level": "debug"
  }
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if settings.Scaffold.Root != "/srv/artifacts" {
		t.Errorf("Expected root from file, got %q", settings.Scaffold.Root)
	}
	if !settings.Scaffold.Overwrite {
		t.Error("Expected overwrite from file")
	}
	// Fields the file omits fall back to defaults
	if settings.Scaffold.BackupRetentionDays != DefaultBackupRetentionDays {
		t.Errorf("Expected default retention, got %d", settings.Scaffold.BackupRetentionDays)
	}
	if settings.Log.Level != "debug" {
		t.Errorf("Expected log level from file, got %q", settings.Log.Level)
	}
}

func TestLoadSettings_EnvironmentOverrides(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "settings.json")
	if err := os.WriteFile(path, []byte(`{"scaffold": {"root": "/from/file"}}`), 0644); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	t.Setenv("SCENFORGE_ROOT", "/from/env")
	t.Setenv("SCENFORGE_LOG_LEVEL", "warn")

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if settings.Scaffold.Root != "/from/env" {
		t.Errorf("Environment must win over the file, got %q", settings.Scaffold.Root)
	}
	if settings.Log.Level != "warn" {
		t.Errorf("Expected log level from environment, got %q", settings.Log.Level)
	}
}

func TestLoadSettings_MalformedFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Error("Expected error on malformed settings")
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "settings.json")

	settings := GetDefaultSettings()
	settings.Scaffold.Root = "/srv/artifacts"
	settings.Log.Level = "debug"

	if err := SaveSettings(path, settings); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loaded.Scaffold.Root != "/srv/artifacts" || loaded.Log.Level != "debug" {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
}
