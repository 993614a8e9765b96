package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hkerr "github.com/ariel-frischer/hookwright/internal/errors"
	"github.com/ariel-frischer/hookwright/internal/validation"
)

const validDoc = `{
  "hooks": {
    "PostToolUse": [
      {"matcher": "Write", "hooks": [{"kind": "command", "command": "gofmt -w ."}]}
    ]
  }
}
`

func newTestStore() *Store {
	return New(validation.New())
}

func TestReadMissingFileReturnsDefault(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	def := []byte(`{"hooks": {}}`)

	data, err := s.Read(filepath.Join(t.TempDir(), "settings.json"), def)
	require.NoError(t, err)
	assert.Equal(t, def, data)
}

func TestWriteThenRead(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	path := filepath.Join(t.TempDir(), ".claude", "settings.json")

	result := s.Write(path, []byte(validDoc), DefaultWriteOptions())
	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	assert.Empty(t, result.BackupPath, "first write of a new file takes no backup")

	data, err := s.Read(path, nil)
	require.NoError(t, err)
	assert.Equal(t, validDoc, string(data))
}

func TestWriteRefusesInvalidContent(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	tests := map[string]struct {
		content string
		wantCat hkerr.Category
	}{
		"malformed JSON": {
			content: `{"hooks": {`,
			wantCat: hkerr.Integrity,
		},
		"unknown event": {
			content: `{"hooks": {"OnFileSave": [{"hooks": []}]}}`,
			wantCat: hkerr.Structural,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := s.Write(path, []byte(tt.content), DefaultWriteOptions())

			require.Error(t, result.Err)
			assert.False(t, result.Success)
			require.NotEmpty(t, result.ValidationErrors)
			assert.Equal(t, tt.wantCat, result.ValidationErrors[0].Category)

			// The target file is untouched.
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, validDoc, string(data))
		})
	}
}

func TestWriteTakesBackupOfExistingFile(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	path := filepath.Join(t.TempDir(), "settings.json")
	original := `{"hooks": {}}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	result := s.Write(path, []byte(validDoc), DefaultWriteOptions())
	require.NoError(t, result.Err)
	require.NotEmpty(t, result.BackupPath)
	assert.Contains(t, result.BackupPath, BackupSuffix)

	backup, err := os.ReadFile(result.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(backup), "backup holds the pre-write content")
}

func TestWriteSkipsBackupWhenDisabled(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	result := s.Write(path, []byte(validDoc), WriteOptions{ValidateBeforeWrite: true})
	require.NoError(t, result.Err)
	assert.Empty(t, result.BackupPath)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	result := s.Write(path, []byte(validDoc), DefaultWriteOptions())
	require.NoError(t, result.Err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.json", entries[0].Name())
}

func TestWriteCommitFailureLeavesNoResidue(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	dir := t.TempDir()

	// A non-empty directory at the target path makes the rename fail after
	// the temp file has been staged and verified.
	target := filepath.Join(dir, "settings.json")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "occupant"), []byte("x"), 0o644))

	result := s.Write(target, []byte(validDoc), WriteOptions{ValidateBeforeWrite: true})
	require.Error(t, result.Err)
	assert.False(t, result.Success)

	var engineErr *hkerr.EngineError
	require.ErrorAs(t, result.Err, &engineErr)
	assert.Equal(t, hkerr.IO, engineErr.Category)

	// The staged temp file was cleaned up and the target was not touched.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.json", entries[0].Name())

	inside, err := os.ReadDir(target)
	require.NoError(t, err)
	require.Len(t, inside, 1)
	assert.Equal(t, "occupant", inside[0].Name())
}

func TestRollback(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	path := filepath.Join(t.TempDir(), "settings.json")
	original := `{"hooks": {}}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	written := s.Write(path, []byte(validDoc), DefaultWriteOptions())
	require.NoError(t, written.Err)
	require.NotEmpty(t, written.BackupPath)

	rolled := s.Rollback(path, written.BackupPath)
	require.NoError(t, rolled.Err)
	assert.True(t, rolled.Success)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestRollbackMissingBackup(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	dir := t.TempDir()

	result := s.Rollback(filepath.Join(dir, "settings.json"), filepath.Join(dir, "no-such-backup"))
	require.Error(t, result.Err)

	var engineErr *hkerr.EngineError
	require.ErrorAs(t, result.Err, &engineErr)
	assert.Equal(t, hkerr.IO, engineErr.Category)
}

func TestBackupName(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 14, 9, 26, 53, 123_000_000, time.UTC)
	got := BackupName("/home/u/.claude/settings.json", ts)

	assert.Equal(t, "/home/u/.claude/settings.json.backup.2026-03-14T09-26-53-123Z", got)
}

func TestBackupAndRemove(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	backupPath, err := s.BackupAndRemove(path)
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)

	assert.NoFileExists(t, path)
	assert.FileExists(t, backupPath)
}

func TestBackupAndRemoveMissingFile(t *testing.T) {
	t.Parallel()

	s := newTestStore()

	backupPath, err := s.BackupAndRemove(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	assert.Empty(t, backupPath)
}

// fakeLister serves a canned directory listing and records removals.
type fakeLister struct {
	entries []Entry
	removed []string
}

func (f *fakeLister) List(dir string) ([]Entry, error) {
	return f.entries, nil
}

func (f *fakeLister) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

func TestCleanupBackupsRetention(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	fs := &fakeLister{}
	for i := 0; i < 7; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		fs.entries = append(fs.entries, Entry{
			Name:    filepath.Base(BackupName("settings.json", ts)),
			ModTime: ts,
		})
	}
	// Non-backup siblings never match.
	fs.entries = append(fs.entries,
		Entry{Name: "settings.json", ModTime: base},
		Entry{Name: "settings.local.json", ModTime: base},
	)

	s := NewWithLister(validation.New(), fs)

	removed, err := s.CleanupBackups("/project/.claude/settings.json", 5)
	require.NoError(t, err)

	// The two oldest go, the five newest stay.
	want := []string{
		filepath.Join("/project/.claude", filepath.Base(BackupName("settings.json", base.Add(time.Hour)))),
		filepath.Join("/project/.claude", filepath.Base(BackupName("settings.json", base))),
	}
	assert.Equal(t, want, removed)
	assert.Equal(t, want, fs.removed)
}

func TestCleanupBackupsFewerThanKeep(t *testing.T) {
	t.Parallel()

	fs := &fakeLister{entries: []Entry{
		{Name: "settings.json.backup.2026-03-14T00-00-00-000Z", ModTime: time.Now()},
	}}
	s := NewWithLister(validation.New(), fs)

	removed, err := s.CleanupBackups("/project/.claude/settings.json", 5)
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.Empty(t, fs.removed)
}

func TestCleanupBackupsNegativeKeepUsesDefault(t *testing.T) {
	t.Parallel()

	fs := &fakeLister{}
	base := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		fs.entries = append(fs.entries, Entry{
			Name:    filepath.Base(BackupName("settings.json", ts)),
			ModTime: ts,
		})
	}
	s := NewWithLister(validation.New(), fs)

	removed, err := s.CleanupBackups("/project/.claude/settings.json", -1)
	require.NoError(t, err)
	assert.Len(t, removed, 1)
}

func TestVerifyIntegrity(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(validDoc), 0o644))

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte(`{"hooks"`), 0o644))

	report := s.VerifyIntegrity(valid)
	require.NoError(t, report.Err)
	assert.True(t, report.Valid)
	require.NotNil(t, report.Settings)

	report = s.VerifyIntegrity(corrupt)
	require.Error(t, report.Err)
	assert.False(t, report.Valid)

	report = s.VerifyIntegrity(filepath.Join(dir, "missing.json"))
	require.Error(t, report.Err)
}
