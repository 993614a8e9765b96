package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a managed hook, or the whole settings file",
	Long: `Remove the managed hook with the given identity from the scope's
settings file. Hand-written hooks are refused: hookwright only deletes
entries it owns.

With --all, the scope's settings file itself is removed after a backup is
taken. This is the only way the engine deletes a settings file.`,
	Example: `  # Remove a managed hook by its identity
  hookwright remove format-on-write

  # Remove the local settings file entirely (backed up first)
  hookwright remove --all --scope local`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.GroupID = GroupSettings
	removeCmd.Flags().Bool("all", false, "Remove the settings file itself (after backup)")
}

func runRemove(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService(cmd)
	if err != nil {
		return err
	}
	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")
	out := cmd.OutOrStdout()

	if all {
		if len(args) != 0 {
			return fmt.Errorf("--all does not take a hook identity")
		}
		backupPath, err := svc.RemoveSettingsFile(scope)
		if err != nil {
			return err
		}
		if backupPath == "" {
			fmt.Fprintf(out, "%s no settings file in %s scope\n", faintStyle.Render("•"), scope)
			return nil
		}
		fmt.Fprintf(out, "%s removed %s settings (backup at %s)\n", okStyle.Render("✓"), scope, backupPath)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("provide a hook identity, or --all to remove the file")
	}

	result := svc.RemoveHook(scope, args[0])
	if !result.Success {
		return result.Err
	}
	fmt.Fprintf(out, "%s removed hook %q from %s scope\n", okStyle.Render("✓"), args[0], scope)
	return nil
}
