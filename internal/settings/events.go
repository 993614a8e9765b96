package settings

// Event identifies a Claude Code lifecycle event that hooks attach to.
type Event string

const (
	EventPreToolUse       Event = "PreToolUse"
	EventPostToolUse      Event = "PostToolUse"
	EventUserPromptSubmit Event = "UserPromptSubmit"
	EventNotification     Event = "Notification"
	EventStop             Event = "Stop"
	EventSubagentStop     Event = "SubagentStop"
	EventSessionEnd       Event = "SessionEnd"
	EventSessionStart     Event = "SessionStart"
	EventPreCompact       Event = "PreCompact"
)

// Events lists all valid hook events in display order.
var Events = []Event{
	EventPreToolUse,
	EventPostToolUse,
	EventUserPromptSubmit,
	EventNotification,
	EventStop,
	EventSubagentStop,
	EventSessionEnd,
	EventSessionStart,
	EventPreCompact,
}

// KnownEvent reports whether name is one of the nine lifecycle events.
func KnownEvent(name Event) bool {
	for _, e := range Events {
		if e == name {
			return true
		}
	}
	return false
}
