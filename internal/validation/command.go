package validation

import (
	"regexp"

	hkerr "github.com/ariel-frischer/hookwright/internal/errors"
)

// dangerousPatterns are shell constructs the engine flags but never rejects.
// The engine does not execute or sandbox hook commands; it only warns, and a
// warning never invalidates a document.
var dangerousPatterns = []struct {
	re      *regexp.Regexp
	message string
}{
	{
		re:      regexp.MustCompile(`\brm\s+(-[a-zA-Z]*r[a-zA-Z]*f|-[a-zA-Z]*f[a-zA-Z]*r)\s+(/|~|\$HOME)`),
		message: "recursive force-delete of a root path",
	},
	{
		re:      regexp.MustCompile(`\bsudo\b`),
		message: "privilege escalation via sudo",
	},
	{
		re:      regexp.MustCompile(`\bchmod\s+(-[a-zA-Z]+\s+)?(777|a\+rwx)\b`),
		message: "unrestricted permission change",
	},
	{
		re:      regexp.MustCompile(`\b(curl|wget)\b[^|;&]*\|\s*(sudo\s+)?(ba)?sh\b`),
		message: "piping a network fetch into a shell",
	},
	{
		re:      regexp.MustCompile(`\bdd\s+[^;|&]*of=/dev/`),
		message: "raw write to a block device",
	},
	{
		re:      regexp.MustCompile(`\bmkfs(\.\w+)?\b`),
		message: "filesystem format command",
	},
}

// ValidateCommand scans a command string for known-dangerous shell patterns.
// Findings are security warnings only: structural checks decide validity,
// not second-guessing of what a user chose to run.
func (v *Validator) ValidateCommand(path, command string) *Result {
	result := NewResult()

	for _, p := range dangerousPatterns {
		if p.re.MatchString(command) {
			result.AddWarning(hkerr.Command, path, "command contains %s: %q", p.message, command)
		}
	}

	return result
}
