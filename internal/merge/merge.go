// Package merge computes ownership-aware merges of hook settings documents.
//
// The rule that protects hand-written configuration: entries hookwright
// manages (ownership tag present) are replaced wholesale by whatever the
// incoming document declares, while foreign entries are carried forward
// untouched and in their original order, no matter what the incoming document
// says. Classification happens once, up front, and is carried through both
// merge and diff.
package merge

import (
	"github.com/ariel-frischer/hookwright/internal/settings"
)

// entry is a hook configuration classified once for merging.
type entry struct {
	identity string
	managed  bool
	cfg      settings.HookConfiguration
}

func classify(configs []settings.HookConfiguration) []entry {
	entries := make([]entry, 0, len(configs))
	for i := range configs {
		entries = append(entries, entry{
			identity: configs[i].Identity(),
			managed:  configs[i].IsManaged(),
			cfg:      configs[i],
		})
	}
	return entries
}

// Merge combines an existing document with an incoming one. For every event,
// the result is the existing foreign entries (unchanged, original order)
// followed by all incoming entries. Managed entries from existing are dropped
// in favor of the incoming declaration, including the case where incoming
// declares none.
func Merge(existing, incoming *settings.Settings) *settings.Settings {
	result := settings.NewSettings()

	events := make(map[settings.Event]bool)
	for event := range existing.Hooks {
		events[event] = true
	}
	for event := range incoming.Hooks {
		events[event] = true
	}

	for event := range events {
		var merged []settings.HookConfiguration

		for _, e := range classify(existing.Hooks[event]) {
			if !e.managed {
				merged = append(merged, e.cfg)
			}
		}
		merged = append(merged, incoming.Hooks[event]...)

		if len(merged) > 0 {
			result.Hooks[event] = merged
		}
	}

	return result
}
