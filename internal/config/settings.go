package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Default retention window for backup files
const DefaultBackupRetentionDays = 14

// Settings represents the main application settings. Environment
// variables override values loaded from the settings file.
type Settings struct {
	Scaffold ScaffoldSettings `json:"scaffold"`
	Log      LogSettings      `json:"log"`
}

// ScaffoldSettings controls where and how artifacts are generated
type ScaffoldSettings struct {
	Root                string `json:"root" env:"SCENFORGE_ROOT"`                                   // root directory for generated artifacts
	Overwrite           bool   `json:"overwrite" env:"SCENFORGE_OVERWRITE"`                         // replace differing existing files
	Backup              bool   `json:"backup" env:"SCENFORGE_BACKUP"`                               // keep pre-write backups when overwriting
	BackupRetentionDays int    `json:"backup_retention_days" env:"SCENFORGE_BACKUP_RETENTION_DAYS"` // cleanup window
}

// LogSettings contains logging configuration
type LogSettings struct {
	Level string `json:"level" env:"SCENFORGE_LOG_LEVEL"` // debug, info, warn, error
}

// LoadSettings loads application settings from a JSON file, applies
// defaults for missing fields, and finally overlays environment
// variables
func LoadSettings(configPath string) (*Settings, error) {
	if configPath == "" {
		configPath = findSettingsFile()
	}

	settings := GetDefaultSettings()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read settings file: %w", err)
			}
		} else if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings: %w", err)
		}
	}

	applyDefaults(settings)

	if err := env.Parse(settings); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return settings, nil
}

// SaveSettings saves application settings to a JSON file
func SaveSettings(configPath string, settings *Settings) error {
	if configPath == "" {
		configPath = findSettingsFile()
		if configPath == "" {
			configPath = filepath.Join(".scenforge", "settings.json")
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// GetDefaultSettings returns default application settings
func GetDefaultSettings() *Settings {
	return &Settings{
		Scaffold: ScaffoldSettings{
			Root:                defaultRoot(),
			Overwrite:           false,
			Backup:              true,
			BackupRetentionDays: DefaultBackupRetentionDays,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

func applyDefaults(settings *Settings) {
	if settings.Scaffold.Root == "" {
		settings.Scaffold.Root = defaultRoot()
	}
	if settings.Scaffold.BackupRetentionDays <= 0 {
		settings.Scaffold.BackupRetentionDays = DefaultBackupRetentionDays
	}
	if settings.Log.Level == "" {
		settings.Log.Level = "info"
	}
}

// findSettingsFile searches for settings.json in order of preference:
// 1. .scenforge/settings.json in current directory
// 2. $HOME/.scenforge/settings.json
// Returns empty string if none found
func findSettingsFile() string {
	currentDirPath := filepath.Join(".scenforge", "settings.json")
	if _, err := os.Stat(currentDirPath); err == nil {
		return currentDirPath
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		homeDirPath := filepath.Join(homeDir, ".scenforge", "settings.json")
		if _, err := os.Stat(homeDirPath); err == nil {
			return homeDirPath
		}
	}

	return ""
}

func defaultRoot() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scenforge"
	}
	return filepath.Join(homeDir, ".scenforge")
}
