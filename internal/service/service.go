// Package service is the facade over the settings engine. CLI commands call
// only this package; it orchestrates the store for I/O, the validator for
// gating writes, the migrator for imports and upgrades, and the merger for
// ownership-aware imports. The engine never calls back into CLI code.
package service

import (
	"fmt"
	"time"

	"github.com/ariel-frischer/hookwright/internal/config"
	hkerr "github.com/ariel-frischer/hookwright/internal/errors"
	"github.com/ariel-frischer/hookwright/internal/merge"
	"github.com/ariel-frischer/hookwright/internal/migrate"
	"github.com/ariel-frischer/hookwright/internal/settings"
	"github.com/ariel-frischer/hookwright/internal/store"
	"github.com/ariel-frischer/hookwright/internal/validation"
)

// defaultContent is what a missing settings file reads as.
var defaultContent = []byte("{\"hooks\": {}}\n")

// Service exposes the settings engine operations at a given project root.
type Service struct {
	cfg        *config.Configuration
	projectDir string
	store      *store.Store
	validator  *validation.Validator
	migrator   *migrate.Migrator
	now        func() time.Time
}

// New wires the engine components for the given project directory.
func New(cfg *config.Configuration, projectDir string) *Service {
	validator := validation.New()
	if cfg.TimeoutWarnSeconds > 0 {
		validator.TimeoutWarnSeconds = cfg.TimeoutWarnSeconds
	}
	return &Service{
		cfg:        cfg,
		projectDir: projectDir,
		store:      store.New(validator),
		validator:  validator,
		migrator:   migrate.New(validator),
		now:        time.Now,
	}
}

// Store exposes the underlying atomic store for integrity and backup
// operations the CLI surfaces directly.
func (s *Service) Store() *store.Store {
	return s.store
}

// Validator exposes the schema validator for standalone validation commands.
func (s *Service) Validator() *validation.Validator {
	return s.validator
}

// ReadSettings loads and parses the settings document for a scope. A missing
// file yields an empty document; malformed existing content is surfaced as an
// error, never silently discarded.
func (s *Service) ReadSettings(scope Scope) (*settings.VersionedSettings, error) {
	path, err := s.PathFor(scope)
	if err != nil {
		return nil, err
	}

	data, err := s.store.Read(path, defaultContent)
	if err != nil {
		return nil, err
	}

	doc, err := settings.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("settings at %s: %w", path, err)
	}
	return doc, nil
}

// WriteSettings serializes and atomically writes a document for a scope.
func (s *Service) WriteSettings(scope Scope, doc *settings.VersionedSettings) store.Result {
	path, err := s.PathFor(scope)
	if err != nil {
		return store.Result{Err: err}
	}

	data, err := settings.Encode(doc)
	if err != nil {
		return store.Result{Err: err}
	}

	return s.store.Write(path, data, store.DefaultWriteOptions())
}

// UpdateSettings applies fn to the current document and writes the result,
// stamping meta.updatedAt on versioned documents. If the post-update document
// fails validation, the on-disk file is left exactly as before the call.
func (s *Service) UpdateSettings(scope Scope, fn func(*settings.VersionedSettings) error) store.Result {
	doc, err := s.ReadSettings(scope)
	if err != nil {
		return store.Result{Err: err}
	}

	if err := fn(doc); err != nil {
		return store.Result{Err: err}
	}

	if doc.Meta != nil {
		doc.Meta.UpdatedAt = s.now().UTC()
	}

	return s.WriteSettings(scope, doc)
}

// AddHook appends a hook configuration under an event.
func (s *Service) AddHook(scope Scope, event settings.Event, cfg settings.HookConfiguration) store.Result {
	return s.UpdateSettings(scope, func(doc *settings.VersionedSettings) error {
		doc.Hooks[event] = append(doc.Hooks[event], cfg)
		return nil
	})
}

// RemoveHook removes the managed hook with the given identity. Foreign hooks
// are refused: hookwright only deletes entries it owns.
func (s *Service) RemoveHook(scope Scope, identity string) store.Result {
	found := false
	result := s.UpdateSettings(scope, func(doc *settings.VersionedSettings) error {
		for event, configs := range doc.Hooks {
			kept := configs[:0]
			for i := range configs {
				if configs[i].IsManaged() && configs[i].Identity() == identity {
					found = true
					continue
				}
				kept = append(kept, configs[i])
			}
			if len(kept) == 0 {
				delete(doc.Hooks, event)
			} else {
				doc.Hooks[event] = kept
			}
		}
		if !found {
			return hkerr.NewStructural("", fmt.Sprintf("no managed hook with identity %q", identity))
		}
		return nil
	})
	return result
}

// ImportOutcome reports what an import did: migrations applied to the
// incoming document, the merge plan, and the write result.
type ImportOutcome struct {
	Applied []settings.MigrationRecord
	Diff    *merge.Diff
	Write   store.Result
}

// ImportSettings migrates an incoming document to the current schema, merges
// it into the existing document preserving foreign entries, and writes the
// result. With dryRun set, the merge is computed but nothing is written.
func (s *Service) ImportSettings(scope Scope, incoming []byte, dryRun bool) (*ImportOutcome, error) {
	migrated, applied, err := s.migrator.Migrate(incoming, migrate.CurrentVersion, string(scope))
	if err != nil {
		return nil, err
	}

	incomingDoc, err := settings.Parse(migrated)
	if err != nil {
		return nil, fmt.Errorf("incoming settings: %w", err)
	}

	existing, err := s.ReadSettings(scope)
	if err != nil {
		return nil, err
	}

	diff, err := merge.Compute(&existing.Settings, &incomingDoc.Settings)
	if err != nil {
		return nil, err
	}

	outcome := &ImportOutcome{Applied: applied, Diff: diff}
	if dryRun {
		outcome.Write = store.Result{Success: true}
		return outcome, nil
	}

	merged := merge.Merge(&existing.Settings, &incomingDoc.Settings)
	result := s.buildImportDocument(scope, existing, incomingDoc, merged)

	outcome.Write = s.WriteSettings(scope, result)
	return outcome, nil
}

// buildImportDocument assembles the versioned envelope for a merged import.
// An existing versioned document keeps its provenance; otherwise the incoming
// document's migration history seeds it.
func (s *Service) buildImportDocument(scope Scope, existing, incoming *settings.VersionedSettings, merged *settings.Settings) *settings.VersionedSettings {
	now := s.now().UTC()

	meta := &settings.Meta{
		CreatedAt:  now,
		UpdatedAt:  now,
		Source:     string(scope),
		Migrations: incoming.MetaMigrations(),
	}
	if !existing.IsLegacy() && existing.Meta != nil {
		meta.CreatedAt = existing.Meta.CreatedAt
		meta.Migrations = existing.Meta.Migrations
	}

	return &settings.VersionedSettings{
		Schema:   settings.SchemaURI,
		Version:  migrate.CurrentVersion,
		Settings: *merged,
		Meta:     meta,
	}
}

// ExportSettings returns the current on-disk document bytes unchanged.
func (s *Service) ExportSettings(scope Scope) ([]byte, error) {
	path, err := s.PathFor(scope)
	if err != nil {
		return nil, err
	}
	return s.store.Read(path, defaultContent)
}

// MigrateSettings upgrades the on-disk document to the current schema
// version in place. A document already at the current version is a no-op.
func (s *Service) MigrateSettings(scope Scope) ([]settings.MigrationRecord, store.Result, error) {
	path, err := s.PathFor(scope)
	if err != nil {
		return nil, store.Result{}, err
	}

	data, err := s.store.Read(path, defaultContent)
	if err != nil {
		return nil, store.Result{}, err
	}

	migrated, applied, err := s.migrator.Migrate(data, migrate.CurrentVersion, string(scope))
	if err != nil {
		return nil, store.Result{}, err
	}
	if len(applied) == 0 {
		return nil, store.Result{Success: true}, nil
	}

	return applied, s.store.Write(path, migrated, store.DefaultWriteOptions()), nil
}

// RemoveSettingsFile deletes the scope's settings file after taking a backup.
// This is the only deletion path the engine offers.
func (s *Service) RemoveSettingsFile(scope Scope) (string, error) {
	path, err := s.PathFor(scope)
	if err != nil {
		return "", err
	}

	backupPath, err := s.store.BackupAndRemove(path)
	if err != nil {
		return "", err
	}
	return backupPath, nil
}

// CleanupBackups prunes old backups for the scope's settings file.
func (s *Service) CleanupBackups(scope Scope, keep int) ([]string, error) {
	path, err := s.PathFor(scope)
	if err != nil {
		return nil, err
	}
	if keep < 0 {
		keep = s.cfg.BackupKeep
	}
	return s.store.CleanupBackups(path, keep)
}
