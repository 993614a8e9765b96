// Package cli provides Cobra-based CLI commands for hookwright. Commands are
// thin interpreters over the settings service facade: they parse flags,
// invoke one facade operation, and render its structured results. No command
// reaches into the engine's internals.
package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/hookwright/internal/build"
	"github.com/ariel-frischer/hookwright/internal/config"
	"github.com/ariel-frischer/hookwright/internal/service"
)

// Command group IDs for organizing help output
const (
	GroupSettings    = "settings"
	GroupMaintenance = "maintenance"
)

var rootCmd = &cobra.Command{
	Use:   "hookwright",
	Short: "Safe persistence for Claude Code hook settings",
	Long: `hookwright manages Claude Code hook settings files across three scopes
(global, project, local) with atomic writes, backups, schema validation,
version migration, and ownership-aware imports that never destroy
hand-written hooks.`,
	Example: `  # Validate the project settings file
  hookwright validate --scope project

  # Preview an import without writing
  hookwright import hooks.json --dry-run

  # Import a hook bundle, preserving foreign entries
  hookwright import hooks.json

  # Upgrade a legacy settings file to the current schema
  hookwright migrate --scope project

  # Prune old backups, keeping the newest five
  hookwright backups clean`,
	Version:      build.Info(),
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupSettings, Title: "Settings:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupMaintenance, Title: "Maintenance:"})

	rootCmd.SetHelpCommandGroupID(GroupMaintenance)
	rootCmd.SetCompletionCommandGroupID(GroupMaintenance)

	// Global flags
	rootCmd.PersistentFlags().String("project-dir", ".", "Project directory containing .claude/")
	rootCmd.PersistentFlags().StringP("scope", "s", "project", "Settings scope: global, project, or local")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(doctorCmd)
}

// loadService builds the settings service from flags and tool configuration.
func loadService(cmd *cobra.Command) (*service.Service, *config.Configuration, error) {
	projectDir, err := cmd.Flags().GetString("project-dir")
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(filepath.Join(projectDir, ".hookwright", "config.json"))
	if err != nil {
		return nil, nil, err
	}

	return service.New(cfg, projectDir), cfg, nil
}

// scopeFromFlags parses the --scope flag.
func scopeFromFlags(cmd *cobra.Command) (service.Scope, error) {
	name, err := cmd.Flags().GetString("scope")
	if err != nil {
		return "", err
	}
	return service.ParseScope(name)
}
