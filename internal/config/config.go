// Package config loads hookwright's own tool configuration. Settings
// documents managed by the engine are a separate concern; this is the knobs
// for the tool itself: backup retention, validation thresholds, and path
// overrides for the three scopes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the hookwright CLI tool configuration
type Configuration struct {
	BackupKeep         int    `koanf:"backup_keep" validate:"min=0,max=100"`
	TimeoutWarnSeconds int    `koanf:"timeout_warn_seconds" validate:"min=1"`
	GlobalSettingsPath string `koanf:"global_settings_path"` // override for the global scope path
	ProjectSettingsDir string `koanf:"project_settings_dir" validate:"required"`
	SyntaxCheck        bool   `koanf:"syntax_check"`       // run `<shell> -n` on commands during import
	SyntaxCheckShell   string `koanf:"syntax_check_shell"` // shell binary for syntax checks
	SyntaxCheckTimeout int    `koanf:"syntax_check_timeout" validate:"omitempty,min=1,max=300"`
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	// Load global config if it exists
	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".hookwright", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	k.Load(env.Provider("HOOKWRIGHT_", ".", envTransform), nil)

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.GlobalSettingsPath = expandHomePath(cfg.GlobalSettingsPath)

	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: HOOKWRIGHT_BACKUP_KEEP -> backup_keep
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "HOOKWRIGHT_"))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
