package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ariel-frischer/hookwright/internal/config"
)

// syntaxCheckCommands runs the configured shell's no-exec parse (`sh -n`)
// over every command in the incoming document. The timeout is imposed here,
// by the caller around the spawned subprocess; the engine itself has no
// internal timeouts.
func syntaxCheckCommands(cmd *cobra.Command, cfg *config.Configuration, incoming []byte) error {
	commands, err := commandsIn(incoming)
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return nil
	}

	var spin *spinner.Spinner
	if term.IsTerminal(int(os.Stderr.Fd())) {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		spin.Suffix = fmt.Sprintf(" checking %d command(s)", len(commands))
		spin.Start()
		defer spin.Stop()
	}

	shell := cfg.SyntaxCheckShell
	if shell == "" {
		shell = "sh"
	}
	timeout := time.Duration(cfg.SyntaxCheckTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	for _, command := range commands {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		check := exec.CommandContext(ctx, shell, "-n", "-c", command)
		out, err := check.CombinedOutput()
		cancel()

		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("syntax check timed out after %s for command %q", timeout, command)
		}
		if err != nil {
			return fmt.Errorf("syntax check failed for command %q: %s", command, string(out))
		}
	}
	return nil
}
