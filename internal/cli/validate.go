package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a settings file",
	Long: `Validate the settings file for a scope: JSON syntax, document shape,
event names, hook command structure, and timeout bounds.

Structural problems are errors and fail the command. Dangerous-looking
commands and uncompilable matchers are warnings: they are reported but
do not fail validation.`,
	Example: `  # Validate the shared project settings
  hookwright validate

  # Validate the global settings file
  hookwright validate --scope global`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.GroupID = GroupSettings
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	report := svc.Store().VerifyIntegrity(path)
	out := cmd.OutOrStdout()

	if report.Err != nil {
		fmt.Fprintf(out, "%s %s\n", errorStyle.Render("✗"), report.Err)
		return fmt.Errorf("validation failed")
	}

	printValidation(out, path, report.Result)
	if !report.Valid {
		return fmt.Errorf("validation failed")
	}
	return nil
}
