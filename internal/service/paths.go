package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scope selects which settings file an operation targets.
type Scope string

const (
	// ScopeGlobal is the user-wide settings file (~/.claude/settings.json).
	ScopeGlobal Scope = "global"
	// ScopeProject is the shared project settings file (.claude/settings.json).
	ScopeProject Scope = "project"
	// ScopeLocal is the per-checkout settings file (.claude/settings.local.json).
	ScopeLocal Scope = "local"
)

// Scopes lists all valid scopes.
var Scopes = []Scope{ScopeGlobal, ScopeProject, ScopeLocal}

// ParseScope validates a scope name from user input.
func ParseScope(name string) (Scope, error) {
	switch Scope(name) {
	case ScopeGlobal, ScopeProject, ScopeLocal:
		return Scope(name), nil
	}
	return "", fmt.Errorf("unknown scope %q (valid scopes: global, project, local)", name)
}

// PathFor maps a scope to its settings file path.
func (s *Service) PathFor(scope Scope) (string, error) {
	switch scope {
	case ScopeGlobal:
		if s.cfg.GlobalSettingsPath != "" {
			return s.cfg.GlobalSettingsPath, nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(homeDir, ".claude", "settings.json"), nil
	case ScopeProject:
		return filepath.Join(s.projectDir, s.cfg.ProjectSettingsDir, "settings.json"), nil
	case ScopeLocal:
		return filepath.Join(s.projectDir, s.cfg.ProjectSettingsDir, "settings.local.json"), nil
	}
	return "", fmt.Errorf("unknown scope %q", scope)
}
