// Package settings defines the hook settings document model: the on-disk JSON
// shape, the versioned envelope, and the ownership convention that separates
// hook entries hookwright manages from hand-written ones.
package settings

import (
	"bytes"
	"encoding/json"
	"time"
)

// ManagedBy is the canonical ownership marker value. A hook configuration is
// Managed if and only if it carries {"managed": {"by": "hookwright", ...}}.
// Entries without the marker are Foreign and must never be rewritten,
// reordered, or dropped by merge operations.
const ManagedBy = "hookwright"

// CommandKind is the only supported hook command discriminant.
const CommandKind = "command"

// SchemaURI identifies the current document schema.
const SchemaURI = "https://hookwright.dev/schemas/settings-1.1.json"

// OwnershipTag marks a hook configuration as created by hookwright's factory.
type OwnershipTag struct {
	By string `json:"by"`
	ID string `json:"id,omitempty"`
}

// HookCommand is a single command executed when a hook fires.
type HookCommand struct {
	Kind           string `json:"kind"`
	Command        string `json:"command"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty"`
}

// HookConfiguration groups hook commands behind an optional tool matcher.
//
// Configurations decoded from JSON retain their original bytes, so entries the
// engine does not touch re-serialize without losing fields it does not model.
// The raw form takes precedence on marshal: assigning to the exported fields
// of a parsed configuration does not change what it serializes to. Mutate a
// parsed configuration through its setters, which discard the raw form.
// Configurations built in code (zero raw form) serialize from the typed
// fields.
type HookConfiguration struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
	Managed *OwnershipTag `json:"managed,omitempty"`

	raw json.RawMessage
}

type hookConfigurationAlias HookConfiguration

// UnmarshalJSON decodes the known fields and captures the raw form.
func (c *HookConfiguration) UnmarshalJSON(data []byte) error {
	var a hookConfigurationAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = HookConfiguration(a)
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the captured raw form when present, so undecoded fields
// of foreign entries survive a read-modify-write cycle.
func (c HookConfiguration) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	return json.Marshal(hookConfigurationAlias(c))
}

// SetMatcher replaces the matcher and discards the captured raw form so the
// change survives re-serialization. Fields the model does not know about are
// dropped from the entry once it is mutated.
func (c *HookConfiguration) SetMatcher(matcher string) {
	c.Matcher = matcher
	c.raw = nil
}

// SetHooks replaces the command list and discards the captured raw form.
func (c *HookConfiguration) SetHooks(hooks []HookCommand) {
	c.Hooks = hooks
	c.raw = nil
}

// SetManaged replaces the ownership tag and discards the captured raw form.
func (c *HookConfiguration) SetManaged(tag *OwnershipTag) {
	c.Managed = tag
	c.raw = nil
}

// IsManaged reports whether the configuration carries hookwright's ownership
// tag. Tags written by other tools do not count.
func (c *HookConfiguration) IsManaged() bool {
	return c.Managed != nil && c.Managed.By == ManagedBy
}

// Identity returns the canonical merge identity: the ownership tag ID when
// managed, else the matcher, else "unnamed".
func (c *HookConfiguration) Identity() string {
	if c.IsManaged() && c.Managed.ID != "" {
		return c.Managed.ID
	}
	if c.Matcher != "" {
		return c.Matcher
	}
	return "unnamed"
}

// Serialized returns the compact JSON form used for change detection.
func (c *HookConfiguration) Serialized() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewManagedHook builds a hook configuration owned by hookwright's factory.
func NewManagedHook(id, matcher string, commands ...HookCommand) HookConfiguration {
	return HookConfiguration{
		Matcher: matcher,
		Hooks:   commands,
		Managed: &OwnershipTag{By: ManagedBy, ID: id},
	}
}

// Settings is the hooks map consumed by the hook-plugin loader.
type Settings struct {
	Hooks map[Event][]HookConfiguration `json:"hooks"`
}

// NewSettings returns an empty settings document with a non-nil hooks map.
func NewSettings() *Settings {
	return &Settings{Hooks: make(map[Event][]HookConfiguration)}
}

// MigrationRecord documents one applied schema migration step.
type MigrationRecord struct {
	ToVersion   string    `json:"toVersion"`
	AppliedAt   time.Time `json:"appliedAt"`
	Description string    `json:"description"`
	Changes     []string  `json:"changes,omitempty"`
}

// Meta carries document provenance for versioned settings.
type Meta struct {
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Source     string            `json:"source"` // scope that last wrote the document
	Migrations []MigrationRecord `json:"migrations"`
}

// VersionedSettings is the current on-disk document shape: the hooks map plus
// schema identification and provenance. Legacy documents (bare {"hooks": ...})
// parse into a VersionedSettings with an empty Version.
type VersionedSettings struct {
	Schema  string `json:"$schema,omitempty"`
	Version string `json:"version,omitempty"`
	Settings
	Meta *Meta `json:"meta,omitempty"`

	// Unknown lists unrecognized top-level keys found at parse time. The
	// validator reports them as structural errors; parse itself stays total.
	Unknown []string `json:"-"`
}

// IsLegacy reports whether the document predates the versioned envelope.
func (v *VersionedSettings) IsLegacy() bool {
	return v.Version == ""
}

// MetaMigrations returns the document's migration history, or nil when the
// document carries no meta section.
func (v *VersionedSettings) MetaMigrations() []MigrationRecord {
	if v.Meta == nil {
		return nil
	}
	return v.Meta.Migrations
}
