// Package testutil provides test utilities and helpers for hookwright tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteSettingsFile writes a settings document under dir/.claude and returns
// its path. Cleanup is handled by the caller's t.TempDir.
func WriteSettingsFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	settingsDir := filepath.Join(dir, ".claude")
	if err := os.MkdirAll(settingsDir, 0o755); err != nil {
		t.Fatalf("failed to create settings directory: %v", err)
	}

	path := filepath.Join(settingsDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// ValidSettingsJSON is a minimal current-generation settings document used as
// a fixture across packages.
const ValidSettingsJSON = `{
  "$schema": "https://hookwright.dev/schemas/settings-1.1.json",
  "version": "1.1.0",
  "hooks": {
    "PostToolUse": [
      {
        "matcher": "Write|Edit",
        "hooks": [
          {"kind": "command", "command": "prettier --write .", "timeoutSeconds": 30}
        ],
        "managed": {"by": "hookwright", "id": "format-on-write"}
      }
    ]
  },
  "meta": {
    "createdAt": "2026-01-01T00:00:00Z",
    "updatedAt": "2026-01-01T00:00:00Z",
    "source": "project",
    "migrations": []
  }
}
`

// LegacySettingsJSON is a bare pre-envelope document.
const LegacySettingsJSON = `{
  "hooks": {
    "PostToolUse": [
      {
        "matcher": "Write",
        "hooks": [
          {"kind": "command", "command": "gofmt -w ."}
        ]
      }
    ]
  }
}
`
