package merge

import (
	"bytes"
	"sort"

	"github.com/ariel-frischer/hookwright/internal/settings"
)

// Change describes one hook configuration affected by a prospective merge.
type Change struct {
	Event    settings.Event
	Identity string
}

// Diff summarizes what Merge would do, keyed by merge identity.
type Diff struct {
	Added    []Change // identities present only in incoming
	Modified []Change // identities in both with differing serialized form
	Removed  []Change // managed identities present only in existing
}

// Empty reports whether the merge would change nothing.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}

// Compute calculates the per-event differences between existing and incoming.
// Foreign entries are never reported as removed: they were never candidates
// for removal in the first place.
func Compute(existing, incoming *settings.Settings) (*Diff, error) {
	diff := &Diff{}

	events := make(map[settings.Event]bool)
	for event := range existing.Hooks {
		events[event] = true
	}
	for event := range incoming.Hooks {
		events[event] = true
	}

	for event := range events {
		exEntries := classify(existing.Hooks[event])
		inEntries := classify(incoming.Hooks[event])

		exByID := make(map[string]entry, len(exEntries))
		for _, e := range exEntries {
			exByID[e.identity] = e
		}
		inByID := make(map[string]entry, len(inEntries))
		for _, e := range inEntries {
			inByID[e.identity] = e
		}

		for _, e := range inEntries {
			prior, ok := exByID[e.identity]
			if !ok {
				diff.Added = append(diff.Added, Change{Event: event, Identity: e.identity})
				continue
			}
			same, err := sameSerialized(&prior.cfg, &e.cfg)
			if err != nil {
				return nil, err
			}
			if !same {
				diff.Modified = append(diff.Modified, Change{Event: event, Identity: e.identity})
			}
		}

		for _, e := range exEntries {
			if !e.managed {
				continue
			}
			if _, ok := inByID[e.identity]; !ok {
				diff.Removed = append(diff.Removed, Change{Event: event, Identity: e.identity})
			}
		}
	}

	sortChanges(diff.Added)
	sortChanges(diff.Modified)
	sortChanges(diff.Removed)
	return diff, nil
}

func sameSerialized(a, b *settings.HookConfiguration) (bool, error) {
	aJSON, err := a.Serialized()
	if err != nil {
		return false, err
	}
	bJSON, err := b.Serialized()
	if err != nil {
		return false, err
	}
	return bytes.Equal(aJSON, bJSON), nil
}

func sortChanges(changes []Change) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Event != changes[j].Event {
			return changes[i].Event < changes[j].Event
		}
		return changes[i].Identity < changes[j].Identity
	})
}
