package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ariel-frischer/hookwright/internal/merge"
	"github.com/ariel-frischer/hookwright/internal/validation"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	headingStyle = lipgloss.NewStyle().Bold(true)
)

// printValidation renders a validation result for the terminal.
func printValidation(w io.Writer, path string, result *validation.Result) {
	if result.Valid {
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("✓"), path)
	} else {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), path)
	}

	for _, issue := range result.Errors {
		fmt.Fprintf(w, "  %s %s\n", errorStyle.Render("error:"), issue.String())
	}
	for _, issue := range result.Warnings {
		fmt.Fprintf(w, "  %s %s\n", warnStyle.Render("warning:"), issue.String())
	}
	for _, s := range result.Suggestions {
		fmt.Fprintf(w, "  %s %s\n", faintStyle.Render("suggestion:"), faintStyle.Render(s))
	}
}

// printDiff renders a merge diff.
func printDiff(w io.Writer, diff *merge.Diff) {
	if diff.Empty() {
		fmt.Fprintln(w, faintStyle.Render("no changes"))
		return
	}

	for _, c := range diff.Added {
		fmt.Fprintf(w, "  %s %s/%s\n", okStyle.Render("+"), c.Event, c.Identity)
	}
	for _, c := range diff.Modified {
		fmt.Fprintf(w, "  %s %s/%s\n", warnStyle.Render("~"), c.Event, c.Identity)
	}
	for _, c := range diff.Removed {
		fmt.Fprintf(w, "  %s %s/%s\n", errorStyle.Render("-"), c.Event, c.Identity)
	}
}
