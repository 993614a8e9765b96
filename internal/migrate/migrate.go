// Package migrate detects a settings document's schema version and applies
// the ordered forward migration chain. Migrations run on raw JSON so hook
// entries the engine does not own survive byte-for-byte; the migrated result
// is re-parsed and validated before it is handed back.
package migrate

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	hkerr "github.com/ariel-frischer/hookwright/internal/errors"
	"github.com/ariel-frischer/hookwright/internal/settings"
	"github.com/ariel-frischer/hookwright/internal/validation"
)

const (
	// LegacyVersion is the sentinel for documents without a version field.
	LegacyVersion = "0.0.0"
	// CurrentVersion is the schema version this build writes.
	CurrentVersion = "1.1.0"
)

// Migrator applies schema migrations and sanity-checks the results.
type Migrator struct {
	validator *validation.Validator
	now       func() time.Time
}

// New returns a Migrator using the given validator for post-migration checks.
func New(validator *validation.Validator) *Migrator {
	return &Migrator{validator: validator, now: time.Now}
}

// DetectVersion returns the declared version field, or LegacyVersion when the
// document predates the versioned envelope. A version field holding anything
// other than a string is an error: treating it as legacy would silently
// overwrite whatever the author meant.
func DetectVersion(doc []byte) (string, error) {
	v := gjson.GetBytes(doc, "version")
	if !v.Exists() || (v.Type == gjson.String && v.Str == "") {
		return LegacyVersion, nil
	}
	if v.Type != gjson.String {
		return "", hkerr.NewMigration(
			fmt.Sprintf("version field must be a string, got %s", v.Raw),
			`quote the version field, e.g. "version": "1.0.0"`)
	}
	return v.Str, nil
}

// NeedsMigration reports whether the document's detected version differs from
// the target. A document whose version cannot be detected needs attention, so
// it reports true; Migrate surfaces the underlying error.
func NeedsMigration(doc []byte, target string) bool {
	detected, err := DetectVersion(doc)
	return err != nil || detected != target
}

// Migrate applies the migration chain from the document's detected version up
// to target, stamping the envelope and appending one MigrationRecord per
// applied step. A second call with the same target is a no-op with zero
// applied migrations. A detected version newer than target, or one with no
// forward path, is a hard failure: the engine never downgrades and never
// leaves a document half-migrated.
func (m *Migrator) Migrate(doc []byte, target, scope string) ([]byte, []settings.MigrationRecord, error) {
	detectedStr, err := DetectVersion(doc)
	if err != nil {
		return nil, nil, err
	}
	detected, err := ParseVersion(detectedStr)
	if err != nil {
		return nil, nil, hkerr.NewMigration(fmt.Sprintf("document declares unparseable version %q", detectedStr))
	}
	targetVer, err := ParseVersion(target)
	if err != nil {
		return nil, nil, hkerr.NewMigration(fmt.Sprintf("invalid target version %q", target))
	}

	if detected.Compare(targetVer) == 0 {
		return doc, nil, nil
	}
	if detected.IsNewerThan(targetVer) {
		return nil, nil, hkerr.NewMigration(
			fmt.Sprintf("document version %s is newer than target %s; downgrades are not supported", detectedStr, target),
			"upgrade hookwright to a build that understands this schema")
	}

	now := m.now()
	out := doc
	current := detectedStr
	var applied []settings.MigrationRecord

	for current != target {
		step, ok := stepFrom(current)
		if !ok {
			return nil, nil, hkerr.NewMigration(
				fmt.Sprintf("no migration path from version %s to %s", current, target))
		}

		migrated, changes, err := step.Apply(out, now)
		if err != nil {
			return nil, nil, hkerr.NewMigration(
				fmt.Sprintf("migration to %s failed: %v", step.To, err))
		}

		record := settings.MigrationRecord{
			ToVersion:   step.To,
			AppliedAt:   now.UTC(),
			Description: step.Description,
			Changes:     changes,
		}
		migrated, err = m.stamp(migrated, step.To, scope, now, record)
		if err != nil {
			return nil, nil, err
		}

		applied = append(applied, record)
		out = migrated
		current = step.To
	}

	parsed, err := settings.Parse(out)
	if err != nil {
		return nil, nil, hkerr.NewMigration(fmt.Sprintf("migrated document does not parse: %v", err))
	}
	if result := m.validator.ValidateSettings(parsed); !result.Valid {
		return nil, nil, hkerr.NewMigration(
			fmt.Sprintf("migrated document fails validation: %s", result.Errors[0].String()))
	}

	return out, applied, nil
}

// stamp writes the envelope fields for a completed step and appends its
// migration record, skipping the append when an identical toVersion record is
// already present.
func (m *Migrator) stamp(doc []byte, version, scope string, now time.Time, record settings.MigrationRecord) ([]byte, error) {
	out, err := sjson.SetBytes(doc, "version", version)
	if err != nil {
		return nil, hkerr.NewMigration(fmt.Sprintf("stamping version: %v", err))
	}
	out, err = sjson.SetBytes(out, "$schema", settings.SchemaURI)
	if err != nil {
		return nil, hkerr.NewMigration(fmt.Sprintf("stamping $schema: %v", err))
	}
	out, err = sjson.SetBytes(out, "meta.source", scope)
	if err != nil {
		return nil, hkerr.NewMigration(fmt.Sprintf("stamping meta.source: %v", err))
	}
	out, err = sjson.SetBytes(out, "meta.updatedAt", now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, hkerr.NewMigration(fmt.Sprintf("stamping meta.updatedAt: %v", err))
	}

	for _, existing := range gjson.GetBytes(out, "meta.migrations").Array() {
		if existing.Get("toVersion").Str == record.ToVersion {
			return out, nil
		}
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, hkerr.NewMigration(fmt.Sprintf("encoding migration record: %v", err))
	}
	out, err = sjson.SetRawBytes(out, "meta.migrations.-1", raw)
	if err != nil {
		return nil, hkerr.NewMigration(fmt.Sprintf("appending migration record: %v", err))
	}

	return out, nil
}

func stepFrom(version string) (Step, bool) {
	for _, s := range Steps {
		if s.From == version {
			return s, true
		}
	}
	return Step{}, false
}
