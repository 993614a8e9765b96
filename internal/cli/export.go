package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a settings file",
	Long: `Print the scope's settings document unchanged. This is a read-only
operation: the on-disk file is never touched.`,
	Example: `  # Print the project settings
  hookwright export

  # Export the global settings as YAML for review
  hookwright export --scope global --format yaml`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.GroupID = GroupSettings
	exportCmd.Flags().String("format", "json", "Output format: json or yaml")
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService(cmd)
	if err != nil {
		return err
	}
	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	data, err := svc.ExportSettings(scope)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		fmt.Fprint(out, string(data))
	case "yaml":
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing settings for YAML export: %w", err)
		}
		rendered, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("rendering YAML: %w", err)
		}
		fmt.Fprint(out, string(rendered))
	default:
		return fmt.Errorf("unknown format %q (valid formats: json, yaml)", format)
	}
	return nil
}
