package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	hkerr "github.com/ariel-frischer/hookwright/internal/errors"
	"github.com/ariel-frischer/hookwright/internal/settings"
)

// DefaultTimeoutWarnSeconds is the threshold above which a hook timeout draws
// a performance warning. Overridable through tool configuration.
const DefaultTimeoutWarnSeconds = 600

// versionPattern validates version strings (simplified semver).
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// knownToolNames are Claude Code tool identifiers commonly used in matchers.
// A matcher mentioning none of them is probably a typo, but only probably,
// so absence is suggestion-level.
var knownToolNames = []string{
	"Bash", "Edit", "MultiEdit", "Write", "Read", "Glob", "Grep",
	"Task", "WebFetch", "WebSearch", "NotebookEdit", "TodoWrite",
}

// Validator validates settings documents against the schema rules.
type Validator struct {
	// TimeoutWarnSeconds is the performance-warning threshold for
	// timeoutSeconds values.
	TimeoutWarnSeconds int
}

// New returns a Validator with default thresholds.
func New() *Validator {
	return &Validator{TimeoutWarnSeconds: DefaultTimeoutWarnSeconds}
}

// ValidateSettings checks the top-level document shape and delegates
// per-event, per-configuration validation.
func (v *Validator) ValidateSettings(doc *settings.VersionedSettings) *Result {
	result := NewResult()

	for _, key := range doc.Unknown {
		result.AddError(hkerr.Structural, key, "unknown top-level key %q", key)
	}

	if !doc.IsLegacy() && !versionPattern.MatchString(doc.Version) {
		result.AddError(hkerr.Structural, "version", "invalid version %q: expected MAJOR.MINOR.PATCH", doc.Version)
	}

	for event, configs := range doc.Hooks {
		if !settings.KnownEvent(event) {
			result.AddError(hkerr.Structural, "hooks."+string(event),
				"unknown event name %q (valid events: %s)", event, eventNames())
			continue
		}
		for i := range configs {
			path := fmt.Sprintf("hooks.%s[%d]", event, i)
			result.Merge(v.ValidateHookConfiguration(path, &configs[i]))
		}
	}

	return result
}

// ValidateHookConfiguration checks one matcher group.
func (v *Validator) ValidateHookConfiguration(path string, cfg *settings.HookConfiguration) *Result {
	result := NewResult()

	if cfg.Hooks == nil {
		result.AddError(hkerr.Structural, path, "missing hooks array")
	}

	if cfg.Matcher != "" {
		result.Merge(v.ValidateMatcher(path+".matcher", cfg.Matcher))
	}

	for i := range cfg.Hooks {
		result.Merge(v.ValidateHookCommand(fmt.Sprintf("%s.hooks[%d]", path, i), &cfg.Hooks[i]))
	}

	// A literal timeoutSeconds of 0 decodes identically to an absent field,
	// so the explicit-zero case is checked on the serialized form.
	if data, err := cfg.Serialized(); err == nil {
		gjson.GetBytes(data, "hooks").ForEach(func(i, cmd gjson.Result) bool {
			if ts := cmd.Get("timeoutSeconds"); ts.Exists() && ts.Int() == 0 {
				result.AddError(hkerr.TimeoutBound,
					fmt.Sprintf("%s.hooks[%d].timeoutSeconds", path, i.Int()),
					"timeout must be positive, got 0")
			}
			return true
		})
	}

	return result
}

// ValidateMatcher checks a tool matcher pattern. An uncompilable pattern is a
// warning, not an error: plenty of legitimate literal tool names are not
// valid regular expressions and the loader treats them as literals.
func (v *Validator) ValidateMatcher(path, pattern string) *Result {
	result := NewResult()

	if _, err := regexp.Compile(pattern); err != nil {
		result.AddWarning(hkerr.Structural, path,
			"matcher %q does not compile as a regular expression; it will only match literally", pattern)
	}

	if !mentionsKnownTool(pattern) {
		result.AddSuggestion("matcher %q does not mention a known tool name; common matchers include %s",
			pattern, strings.Join(knownToolNames[:4], ", "))
	}

	return result
}

// ValidateHookCommand checks a single command entry.
func (v *Validator) ValidateHookCommand(path string, cmd *settings.HookCommand) *Result {
	result := NewResult()

	if cmd.Kind != settings.CommandKind {
		result.AddError(hkerr.Structural, path+".kind",
			"unsupported hook kind %q (expected %q)", cmd.Kind, settings.CommandKind)
	}

	if strings.TrimSpace(cmd.Command) == "" {
		result.AddError(hkerr.Command, path+".command", "command must not be empty")
	} else {
		result.Merge(v.ValidateCommand(path+".command", cmd.Command))
	}

	if cmd.TimeoutSeconds != 0 {
		if cmd.TimeoutSeconds < 0 {
			result.AddError(hkerr.TimeoutBound, path+".timeoutSeconds",
				"timeout must be positive, got %d", cmd.TimeoutSeconds)
		} else if cmd.TimeoutSeconds > v.timeoutWarnThreshold() {
			result.AddWarning(hkerr.TimeoutBound, path+".timeoutSeconds",
				"timeout of %ds exceeds %ds; long-running hooks stall every session",
				cmd.TimeoutSeconds, v.timeoutWarnThreshold())
		}
	}

	return result
}

func (v *Validator) timeoutWarnThreshold() int {
	if v.TimeoutWarnSeconds > 0 {
		return v.TimeoutWarnSeconds
	}
	return DefaultTimeoutWarnSeconds
}

func mentionsKnownTool(pattern string) bool {
	for _, name := range knownToolNames {
		if strings.Contains(pattern, name) {
			return true
		}
	}
	// ".*" and "*" are deliberate match-everything patterns, not typos.
	trimmed := strings.TrimSpace(pattern)
	return trimmed == "*" || trimmed == ".*" || trimmed == ""
}

func eventNames() string {
	names := make([]string, len(settings.Events))
	for i, e := range settings.Events {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}
