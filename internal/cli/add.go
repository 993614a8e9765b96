package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/hookwright/internal/settings"
)

var addCmd = &cobra.Command{
	Use:   "add <event> <id>",
	Short: "Add a managed hook",
	Long: `Add a hook configuration owned by hookwright under a lifecycle event.

The entry carries hookwright's ownership tag, which makes it eligible for
replacement and removal on later imports. Hand-written entries never carry
the tag and are never touched.`,
	Example: `  # Format files after every write
  hookwright add PostToolUse format-on-write \
    --matcher "Write|Edit" --command "prettier --write ." --timeout 30

  # Log every prompt
  hookwright add UserPromptSubmit prompt-log --command "my-logger"`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.GroupID = GroupSettings
	addCmd.Flags().String("matcher", "", "Tool matcher pattern (regex or literal tool name)")
	addCmd.Flags().String("command", "", "Command to run when the hook fires")
	addCmd.Flags().Int("timeout", 0, "Command timeout in seconds")
	addCmd.MarkFlagRequired("command")
}

func runAdd(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService(cmd)
	if err != nil {
		return err
	}
	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return err
	}

	event := settings.Event(args[0])
	if !settings.KnownEvent(event) {
		return fmt.Errorf("unknown event %q", args[0])
	}
	id := args[1]

	matcher, _ := cmd.Flags().GetString("matcher")
	command, _ := cmd.Flags().GetString("command")
	timeout, _ := cmd.Flags().GetInt("timeout")

	hook := settings.NewManagedHook(id, matcher, settings.HookCommand{
		Kind:           settings.CommandKind,
		Command:        command,
		TimeoutSeconds: timeout,
	})

	result := svc.AddHook(scope, event, hook)
	out := cmd.OutOrStdout()
	if !result.Success {
		for _, issue := range result.ValidationErrors {
			fmt.Fprintf(out, "  %s %s\n", errorStyle.Render("error:"), issue.String())
		}
		return result.Err
	}

	fmt.Fprintf(out, "%s added %s hook %q to %s scope\n", okStyle.Render("✓"), event, id, scope)
	return nil
}
