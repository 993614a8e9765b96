// Package errors defines the error taxonomy shared by the settings engine.
// Validators report these categories inside structured results; only the
// storage boundary converts OS-level failures into EngineError values.
package errors

import "strings"

// Category classifies an engine failure by its origin.
type Category int

const (
	// Structural indicates a malformed document shape: wrong field types,
	// unknown event names, missing discriminants.
	Structural Category = iota
	// Command indicates an empty or malformed hook command string.
	Command
	// TimeoutBound indicates a non-positive timeout value.
	TimeoutBound
	// Integrity indicates corrupt JSON on read or a write round-trip mismatch.
	Integrity
	// Migration indicates no forward path from the detected schema version.
	Migration
	// IO indicates a filesystem failure: permissions, disk space, rename.
	IO
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case Structural:
		return "Structural Error"
	case Command:
		return "Command Error"
	case TimeoutBound:
		return "Timeout Bound Error"
	case Integrity:
		return "Integrity Error"
	case Migration:
		return "Migration Error"
	case IO:
		return "I/O Error"
	default:
		return "Error"
	}
}

// EngineError is a categorized engine failure with optional remediation steps.
type EngineError struct {
	Category    Category
	Message     string
	Path        string   // file path or JSON-path location, when known
	Remediation []string // suggested fixes shown by the CLI
	Err         error    // wrapped cause, if any
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the wrapped cause for errors.Is/As chains.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewStructural creates a Structural EngineError.
func NewStructural(path, message string, remediation ...string) *EngineError {
	return &EngineError{Category: Structural, Path: path, Message: message, Remediation: remediation}
}

// NewIntegrity creates an Integrity EngineError wrapping a cause.
func NewIntegrity(path, message string, err error) *EngineError {
	return &EngineError{Category: Integrity, Path: path, Message: message, Err: err}
}

// NewMigration creates a Migration EngineError.
func NewMigration(message string, remediation ...string) *EngineError {
	return &EngineError{Category: Migration, Message: message, Remediation: remediation}
}

// NewIO creates an IO EngineError wrapping a cause.
func NewIO(path, message string, err error) *EngineError {
	return &EngineError{Category: IO, Path: path, Message: message, Err: err}
}
