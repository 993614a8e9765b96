// Package validation checks hook settings documents for structural and
// semantic problems. Validators are pure and composable: each returns a
// Result, parents aggregate child results, and nothing here ever panics or
// touches the filesystem.
//
// The contract that keeps the engine both safe and permissive: errors block
// writes, warnings never do. Dangerous-looking shell commands and
// uncompilable matchers produce warnings; only shape violations produce
// errors.
package validation

import (
	"fmt"
	"strings"

	hkerr "github.com/ariel-frischer/hookwright/internal/errors"
)

// Issue is a single validation finding with location and context.
type Issue struct {
	Category hkerr.Category // taxonomy bucket for machine handling
	Path     string         // JSON-path style location (e.g., "hooks.PreToolUse[0]")
	Message  string
	Hint     string // suggestion for fixing the issue, may be empty
}

// String formats the issue for terminal output.
func (i Issue) String() string {
	var sb strings.Builder
	if i.Path != "" {
		sb.WriteString(i.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	return sb.String()
}

// Result is the outcome of validating a document or one of its parts.
// It is always returned, never thrown.
type Result struct {
	Valid       bool
	Errors      []Issue
	Warnings    []Issue
	Suggestions []string
}

// NewResult returns a passing result to accumulate findings into.
func NewResult() *Result {
	return &Result{Valid: true}
}

// AddError records a blocking issue and marks the result invalid.
func (r *Result) AddError(category hkerr.Category, path, format string, args ...interface{}) {
	r.Errors = append(r.Errors, Issue{Category: category, Path: path, Message: fmt.Sprintf(format, args...)})
	r.Valid = false
}

// AddWarning records a non-blocking issue.
func (r *Result) AddWarning(category hkerr.Category, path, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Path: path, Message: fmt.Sprintf(format, args...)})
}

// AddSuggestion records an informational hint.
func (r *Result) AddSuggestion(format string, args ...interface{}) {
	r.Suggestions = append(r.Suggestions, fmt.Sprintf(format, args...))
}

// Merge folds a child result into r. Any child error invalidates r.
func (r *Result) Merge(child *Result) {
	if child == nil {
		return
	}
	r.Errors = append(r.Errors, child.Errors...)
	r.Warnings = append(r.Warnings, child.Warnings...)
	r.Suggestions = append(r.Suggestions, child.Suggestions...)
	if !child.Valid {
		r.Valid = false
	}
}

// HasErrors reports whether any blocking issues were recorded.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}
