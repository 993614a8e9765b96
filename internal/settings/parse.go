package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	hkerr "github.com/ariel-frischer/hookwright/internal/errors"
)

// knownTopLevelKeys are the only keys a well-formed document may carry.
// Legacy documents use "hooks" alone; current documents add the envelope.
var knownTopLevelKeys = map[string]bool{
	"hooks":   true,
	"$schema": true,
	"version": true,
	"meta":    true,
}

// Parse decodes a settings document of either generation into its typed form.
// Syntactically invalid JSON is an Integrity error. Unrecognized top-level
// keys are recorded on the result for the validator to judge; Parse itself
// never returns a half-decoded document.
func Parse(data []byte) (*VersionedSettings, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var top map[string]json.RawMessage
	if err := dec.Decode(&top); err != nil {
		return nil, hkerr.NewIntegrity("", "document is not valid JSON", err)
	}

	var doc VersionedSettings
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, hkerr.NewStructural("", fmt.Sprintf("document shape is invalid: %v", err))
	}
	if doc.Hooks == nil {
		doc.Hooks = make(map[Event][]HookConfiguration)
	}

	for key := range top {
		if !knownTopLevelKeys[key] {
			doc.Unknown = append(doc.Unknown, key)
		}
	}
	sort.Strings(doc.Unknown)

	return &doc, nil
}

// Encode serializes a document for disk: two-space indentation and a trailing
// newline, matching what Claude Code itself writes.
func Encode(doc *VersionedSettings) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing settings: %w", err)
	}
	return append(data, '\n'), nil
}
