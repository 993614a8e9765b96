// Package store is the durable read/write primitive for a settings file.
// Writes are validate-then-commit: content is checked before anything touches
// disk, staged in a temp file on the same filesystem, read back and
// byte-compared, and only then renamed onto the target. The rename is the
// single atomic commit point; every failure before it leaves the target
// exactly as it was.
package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	hkerr "github.com/ariel-frischer/hookwright/internal/errors"
	"github.com/ariel-frischer/hookwright/internal/settings"
	"github.com/ariel-frischer/hookwright/internal/validation"
)

// BackupSuffix joins the original path to the timestamp in backup names.
const BackupSuffix = ".backup."

// DefaultBackupKeep is how many backups retention preserves by default.
const DefaultBackupKeep = 5

// WriteOptions controls a single write call.
type WriteOptions struct {
	Backup              bool
	ValidateBeforeWrite bool
	CreateDirectories   bool
}

// DefaultWriteOptions enables every safety behavior.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Backup: true, ValidateBeforeWrite: true, CreateDirectories: true}
}

// Result reports the outcome of a write or rollback. Failures are returned
// here, never panicked; OS-level errors are caught at this boundary and
// converted into categorized engine errors.
type Result struct {
	Success          bool
	BackupPath       string // set when a backup was created
	Err              error
	BackupErr        error // backup failure; reported but does not block the write
	ValidationErrors []validation.Issue
}

// IntegrityReport is the outcome of VerifyIntegrity.
type IntegrityReport struct {
	Valid    bool
	Err      error
	Settings *settings.VersionedSettings
	Result   *validation.Result
}

// Store performs crash-safe reads and writes for settings files.
type Store struct {
	validator *validation.Validator
	fs        Lister
	now       func() time.Time
}

// New returns a Store using the real filesystem for backup cleanup.
func New(validator *validation.Validator) *Store {
	return NewWithLister(validator, OSLister())
}

// NewWithLister returns a Store with an injected directory lister, used by
// tests to exercise retention without disk access.
func NewWithLister(validator *validation.Validator, fs Lister) *Store {
	return &Store{validator: validator, fs: fs, now: time.Now}
}

// Read returns the file's content, or defaultContent when the path does not
// exist: a missing settings file means "no settings yet", not a failure.
func (s *Store) Read(path string, defaultContent []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultContent, nil
		}
		return nil, hkerr.NewIO(path, "reading settings file", err)
	}
	return data, nil
}

// Write commits content to path atomically. With validation enabled, content
// that does not parse and validate is refused before the target is touched.
// With backup enabled and an existing target, a timestamped copy is taken
// first; a backup failure is reported in the result but does not block the
// primary write.
func (s *Store) Write(path string, content []byte, opts WriteOptions) Result {
	if opts.CreateDirectories {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Result{Err: hkerr.NewIO(path, "creating parent directory", err)}
		}
	}

	if opts.ValidateBeforeWrite {
		doc, err := settings.Parse(content)
		if err != nil {
			return Result{
				Err: err,
				ValidationErrors: []validation.Issue{{
					Category: hkerr.Integrity,
					Message:  err.Error(),
				}},
			}
		}
		if vr := s.validator.ValidateSettings(doc); !vr.Valid {
			return Result{
				Err:              hkerr.NewStructural(path, "settings failed validation"),
				ValidationErrors: vr.Errors,
			}
		}
	}

	var backupPath string
	var backupErr error
	if opts.Backup {
		if _, err := os.Stat(path); err == nil {
			backupPath, backupErr = s.backup(path)
		}
	}

	if err := s.commit(path, content); err != nil {
		return Result{Err: err, BackupPath: backupPath, BackupErr: backupErr}
	}

	return Result{Success: true, BackupPath: backupPath, BackupErr: backupErr}
}

// commit stages content in a temp file beside the target, verifies the bytes
// round-trip, and renames it into place. The temp file lives in the target's
// directory so the rename stays on one filesystem.
func (s *Store) commit(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return hkerr.NewIO(path, "creating temp file", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up the staged file on any failure before the rename
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return hkerr.NewIO(path, "writing temp file", err)
	}
	if err := tmpFile.Close(); err != nil {
		return hkerr.NewIO(path, "closing temp file", err)
	}

	written, err := os.ReadFile(tmpPath)
	if err != nil {
		return hkerr.NewIO(path, "reading back temp file", err)
	}
	if !bytes.Equal(written, content) {
		return hkerr.NewIntegrity(path, "write verification failed: temp file content does not match", nil)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return hkerr.NewIO(path, "renaming temp file into place", err)
	}

	tmpPath = "" // rename succeeded; nothing to clean up
	return nil
}

// backup copies the current target to a timestamped sibling.
func (s *Store) backup(path string) (string, error) {
	backupPath := BackupName(path, s.now())
	if err := copyFile(path, backupPath); err != nil {
		return "", hkerr.NewIO(path, "creating backup", err)
	}
	return backupPath, nil
}

// BackupName returns the backup path for a settings file at the given time.
// Colons and dots in the timestamp are replaced for filesystem safety.
func BackupName(path string, t time.Time) string {
	ts := t.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.ReplaceAll(ts, ":", "-")
	ts = strings.ReplaceAll(ts, ".", "-")
	return path + BackupSuffix + ts
}

// Rollback copies a backup over the target path.
func (s *Store) Rollback(path, backupPath string) Result {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return Result{Err: hkerr.NewIO(backupPath, "reading backup", err)}
	}
	if err := s.commit(path, data); err != nil {
		return Result{Err: err}
	}
	return Result{Success: true, BackupPath: backupPath}
}

// BackupAndRemove takes a timestamped backup of path and then deletes it.
// Removing a missing file is not an error; it returns an empty backup path.
func (s *Store) BackupAndRemove(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", hkerr.NewIO(path, "stat settings file", err)
	}

	backupPath, err := s.backup(path)
	if err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil {
		return backupPath, hkerr.NewIO(path, "removing settings file", err)
	}
	return backupPath, nil
}

// CleanupBackups removes all but the keep most recently modified backups of
// path. Returns the removed paths.
func (s *Store) CleanupBackups(path string, keep int) ([]string, error) {
	if keep < 0 {
		keep = DefaultBackupKeep
	}

	dir := filepath.Dir(path)
	pattern := filepath.Base(path) + BackupSuffix + "*"

	entries, err := s.fs.List(dir)
	if err != nil {
		return nil, err
	}

	var backups []Entry
	for _, e := range entries {
		ok, err := doublestar.Match(pattern, e.Name)
		if err != nil {
			return nil, fmt.Errorf("matching backup pattern: %w", err)
		}
		if ok {
			backups = append(backups, e)
		}
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})

	var removed []string
	for _, e := range backups[min(keep, len(backups)):] {
		full := filepath.Join(dir, e.Name)
		if err := s.fs.Remove(full); err != nil {
			return removed, hkerr.NewIO(full, "removing old backup", err)
		}
		removed = append(removed, full)
	}
	return removed, nil
}

// VerifyIntegrity reads, parses, and validates the file at path. Every
// failure mode is reported in the returned struct, never thrown.
func (s *Store) VerifyIntegrity(path string) IntegrityReport {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return IntegrityReport{Err: hkerr.NewIO(path, "settings file does not exist", err)}
		}
		return IntegrityReport{Err: hkerr.NewIO(path, "reading settings file", err)}
	}

	doc, err := settings.Parse(data)
	if err != nil {
		return IntegrityReport{Err: err}
	}

	result := s.validator.ValidateSettings(doc)
	return IntegrityReport{
		Valid:    result.Valid,
		Settings: doc,
		Result:   result,
	}
}

// copyFile copies src to dst, preserving content but not metadata.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
