package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/hookwright/internal/settings"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a hook bundle into a settings file",
	Long: `Import a settings document (JSON or YAML) into the scope's settings file.

The incoming document is migrated to the current schema version, then merged
ownership-aware: entries hookwright manages are replaced by what the incoming
document declares, while hand-written (foreign) entries survive untouched.

With --dry-run the merge plan is printed and nothing is written.`,
	Example: `  # Preview what an import would change
  hookwright import hooks.json --dry-run

  # Import into the local scope
  hookwright import hooks.json --scope local

  # Import a YAML bundle and syntax-check its commands first
  hookwright import hooks.yaml --check-syntax`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.GroupID = GroupSettings
	importCmd.Flags().Bool("dry-run", false, "Show the merge plan without writing")
	importCmd.Flags().Bool("check-syntax", false, "Run the shell's no-exec parse over incoming commands")
}

func runImport(cmd *cobra.Command, args []string) error {
	svc, cfg, err := loadService(cmd)
	if err != nil {
		return err
	}
	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	checkSyntax, _ := cmd.Flags().GetBool("check-syntax")

	incoming, err := readImportFile(args[0])
	if err != nil {
		return err
	}

	if checkSyntax || cfg.SyntaxCheck {
		if err := syntaxCheckCommands(cmd, cfg, incoming); err != nil {
			return err
		}
	}

	outcome, err := svc.ImportSettings(scope, incoming, dryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, rec := range outcome.Applied {
		fmt.Fprintf(out, "%s migrated incoming document to %s\n", faintStyle.Render("•"), rec.ToVersion)
	}
	printDiff(out, outcome.Diff)

	if dryRun {
		fmt.Fprintln(out, faintStyle.Render("dry run: nothing written"))
		return nil
	}

	if !outcome.Write.Success {
		for _, issue := range outcome.Write.ValidationErrors {
			fmt.Fprintf(out, "  %s %s\n", errorStyle.Render("error:"), issue.String())
		}
		return outcome.Write.Err
	}
	if outcome.Write.BackupErr != nil {
		fmt.Fprintf(out, "%s backup failed: %v\n", warnStyle.Render("warning:"), outcome.Write.BackupErr)
	}
	if outcome.Write.BackupPath != "" {
		fmt.Fprintf(out, "%s backup written to %s\n", faintStyle.Render("•"), outcome.Write.BackupPath)
	}
	fmt.Fprintf(out, "%s imported into %s scope\n", okStyle.Render("✓"), scope)
	return nil
}

// readImportFile loads an import source, converting YAML to JSON when needed.
func readImportFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML import file: %w", err)
		}
		converted, err := json.Marshal(normalizeYAML(doc))
		if err != nil {
			return nil, fmt.Errorf("converting YAML import to JSON: %w", err)
		}
		return converted, nil
	default:
		return data, nil
	}
}

// normalizeYAML converts yaml.v3's map[string]interface{} values recursively
// so they marshal cleanly to JSON.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return val
	}
}

// commandsIn collects every command string from a settings document.
func commandsIn(data []byte) ([]string, error) {
	doc, err := settings.Parse(data)
	if err != nil {
		return nil, err
	}

	var commands []string
	for _, configs := range doc.Hooks {
		for _, cfg := range configs {
			for _, hook := range cfg.Hooks {
				if hook.Command != "" {
					commands = append(commands, hook.Command)
				}
			}
		}
	}
	return commands, nil
}
