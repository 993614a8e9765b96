package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"backup_keep":          5,
		"timeout_warn_seconds": 600,
		"global_settings_path": "~/.claude/settings.json",
		"project_settings_dir": ".claude",
		"syntax_check":         false,
		"syntax_check_shell":   "sh",
		"syntax_check_timeout": 10,
	}
}
