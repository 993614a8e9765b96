package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade a settings file to the current schema",
	Long: `Upgrade the scope's settings file to the current schema version by
applying the forward migration chain. A document already at the current
version is left untouched. Downgrades are never attempted: a document
written by a newer hookwright fails with an error.`,
	Example: `  # Upgrade the project settings file
  hookwright migrate

  # Upgrade the global settings file
  hookwright migrate --scope global`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.GroupID = GroupMaintenance
}

func runMigrate(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService(cmd)
	if err != nil {
		return err
	}
	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return err
	}

	applied, result, err := svc.MigrateSettings(scope)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(applied) == 0 {
		fmt.Fprintf(out, "%s %s settings already at the current schema\n", okStyle.Render("✓"), scope)
		return nil
	}
	if !result.Success {
		return result.Err
	}

	for _, rec := range applied {
		fmt.Fprintf(out, "%s %s: %s\n", okStyle.Render("✓"), rec.ToVersion, rec.Description)
		for _, change := range rec.Changes {
			fmt.Fprintf(out, "  %s\n", faintStyle.Render(change))
		}
	}
	if result.BackupPath != "" {
		fmt.Fprintf(out, "%s backup written to %s\n", faintStyle.Render("•"), result.BackupPath)
	}
	return nil
}
