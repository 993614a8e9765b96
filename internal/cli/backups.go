package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/hookwright/internal/store"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List and prune settings backups",
	Args:  cobra.NoArgs,
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups for a scope's settings file",
	Args:  cobra.NoArgs,
	RunE:  runBackupsList,
}

var backupsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete all but the most recent backups",
	Example: `  # Keep the newest five backups (default)
  hookwright backups clean

  # Keep only the newest backup of the local settings
  hookwright backups clean --keep 1 --scope local`,
	Args: cobra.NoArgs,
	RunE: runBackupsClean,
}

func init() {
	backupsCmd.GroupID = GroupMaintenance
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsCleanCmd)
	backupsCleanCmd.Flags().Int("keep", -1, "Number of backups to keep (default from config)")
}

func runBackupsList(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService(cmd)
	if err != nil {
		return err
	}
	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return err
	}

	path, err := svc.PathFor(scope)
	if err != nil {
		return err
	}

	entries, err := store.OSLister().List(filepath.Dir(path))
	if err != nil {
		return err
	}

	prefix := filepath.Base(path) + store.BackupSuffix
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name, prefix) {
			names = append(names, e.Name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, faintStyle.Render("no backups"))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, filepath.Join(filepath.Dir(path), name))
	}
	return nil
}

func runBackupsClean(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService(cmd)
	if err != nil {
		return err
	}
	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return err
	}
	keep, _ := cmd.Flags().GetInt("keep")

	removed, err := svc.CleanupBackups(scope, keep)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(removed) == 0 {
		fmt.Fprintln(out, faintStyle.Render("nothing to remove"))
		return nil
	}
	for _, path := range removed {
		fmt.Fprintf(out, "%s removed %s\n", okStyle.Render("✓"), path)
	}
	return nil
}
