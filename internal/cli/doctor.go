package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/hookwright/internal/migrate"
	"github.com/ariel-frischer/hookwright/internal/service"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"doc"},
	Short:   "Check every scope's settings file (doc)",
	Long: `Run integrity checks over all three scopes: file readability, JSON
syntax, schema validation, and schema version currency.

Each scope displays a checkmark if healthy or an X with the failure.
A missing settings file is reported but does not fail the check: no
settings yet is a normal state.`,
	Example: `  # Check all scopes
  hookwright doctor`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupMaintenance
}

func runDoctor(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	healthy := true

	for _, scope := range service.Scopes {
		path, err := svc.PathFor(scope)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, headingStyle.Render(string(scope)))

		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintf(out, "  %s no settings file at %s\n", faintStyle.Render("•"), path)
			continue
		}

		report := svc.Store().VerifyIntegrity(path)
		if report.Err != nil {
			fmt.Fprintf(out, "  %s %v\n", errorStyle.Render("✗"), report.Err)
			healthy = false
			continue
		}

		printValidation(out, path, report.Result)
		if !report.Valid {
			healthy = false
		}

		version := report.Settings.Version
		if version == "" {
			version = migrate.LegacyVersion
		}
		if version != migrate.CurrentVersion {
			fmt.Fprintf(out, "  %s schema version %s (current is %s); run 'hookwright migrate --scope %s'\n",
				warnStyle.Render("warning:"), version, migrate.CurrentVersion, scope)
		}
	}

	if !healthy {
		return fmt.Errorf("one or more scopes failed the check")
	}
	return nil
}
