package migrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	hkerr "github.com/ariel-frischer/hookwright/internal/errors"
	"github.com/ariel-frischer/hookwright/internal/validation"
)

func newTestMigrator() *Migrator {
	m := New(validation.New())
	m.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return m
}

func TestDetectVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc  string
		want string
	}{
		"legacy without version":  {doc: `{"hooks": {}}`, want: LegacyVersion},
		"empty version string":    {doc: `{"hooks": {}, "version": ""}`, want: LegacyVersion},
		"explicit version":        {doc: `{"hooks": {}, "version": "1.0.0"}`, want: "1.0.0"},
		"current version":         {doc: `{"hooks": {}, "version": "1.1.0"}`, want: "1.1.0"},
		"version among envelopes": {doc: `{"$schema": "x", "version": "1.1.0", "hooks": {}, "meta": {}}`, want: "1.1.0"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := DetectVersion([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectVersionRejectsNonString(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"numeric version": `{"hooks": {}, "version": 2}`,
		"boolean version": `{"hooks": {}, "version": true}`,
		"object version":  `{"hooks": {}, "version": {"major": 1}}`,
		"null version":    `{"hooks": {}, "version": null}`,
	}

	for name, doc := range tests {
		doc := doc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := DetectVersion([]byte(doc))
			require.Error(t, err)

			var engErr *hkerr.EngineError
			require.ErrorAs(t, err, &engErr)
			assert.Equal(t, hkerr.Migration, engErr.Category)
		})
	}
}

func TestMigrateRejectsNonStringVersion(t *testing.T) {
	t.Parallel()

	m := newTestMigrator()
	doc := []byte(`{"hooks": {}, "version": 2}`)

	out, applied, err := m.Migrate(doc, CurrentVersion, "project")
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Empty(t, applied)

	var engErr *hkerr.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, hkerr.Migration, engErr.Category)
	assert.Contains(t, engErr.Message, "version field must be a string")
}

func TestMigrateLegacyToVersioned(t *testing.T) {
	t.Parallel()

	m := newTestMigrator()
	doc := []byte(`{"hooks": {"PostToolUse": [{"matcher": "Write", "hooks": [{"kind": "command", "command": "gofmt -w ."}]}]}}`)

	out, applied, err := m.Migrate(doc, "1.0.0", "project")
	require.NoError(t, err)
	require.Len(t, applied, 1)

	assert.Equal(t, "1.0.0", applied[0].ToVersion)
	assert.Equal(t, "1.0.0", gjson.GetBytes(out, "version").Str)
	assert.NotEmpty(t, gjson.GetBytes(out, "$schema").Str)
	assert.Equal(t, "project", gjson.GetBytes(out, "meta.source").Str)
	assert.NotEmpty(t, gjson.GetBytes(out, "meta.createdAt").Str)
	require.True(t, gjson.GetBytes(out, "meta.migrations").IsArray())
	assert.Len(t, gjson.GetBytes(out, "meta.migrations").Array(), 1)

	// Hook entries pass through the envelope wrap untouched.
	assert.Equal(t, "gofmt -w .",
		gjson.GetBytes(out, "hooks.PostToolUse.0.hooks.0.command").Str)
}

func TestMigrateFullChain(t *testing.T) {
	t.Parallel()

	m := newTestMigrator()
	doc := []byte(`{"hooks": {"PreToolUse": [{"matcher": "Bash", "hooks": [{"type": "command", "command": "echo hi", "timeout": 30}]}]}}`)

	out, applied, err := m.Migrate(doc, CurrentVersion, "global")
	require.NoError(t, err)
	require.Len(t, applied, 2)

	assert.Equal(t, "1.0.0", applied[0].ToVersion)
	assert.Equal(t, CurrentVersion, applied[1].ToVersion)
	assert.Equal(t, CurrentVersion, gjson.GetBytes(out, "version").Str)

	cmd := gjson.GetBytes(out, "hooks.PreToolUse.0.hooks.0")
	assert.Equal(t, "command", cmd.Get("kind").Str)
	assert.False(t, cmd.Get("type").Exists())
	assert.EqualValues(t, 30, cmd.Get("timeoutSeconds").Int())
	assert.False(t, cmd.Get("timeout").Exists())

	assert.Len(t, gjson.GetBytes(out, "meta.migrations").Array(), 2)
}

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()

	m := newTestMigrator()
	doc := []byte(`{"hooks": {}}`)

	once, _, err := m.Migrate(doc, CurrentVersion, "local")
	require.NoError(t, err)

	twice, applied, err := m.Migrate(once, CurrentVersion, "local")
	require.NoError(t, err)
	assert.Empty(t, applied, "second migration must apply nothing")
	assert.Equal(t, string(once), string(twice))
}

func TestMigratePreservesUnmodeledFields(t *testing.T) {
	t.Parallel()

	m := newTestMigrator()
	doc := []byte(`{"hooks": {"Stop": [{"matcher": "Bash", "comment": "team convention", "hooks": [{"kind": "command", "command": "true", "env": {"CI": "1"}}]}]}}`)

	out, _, err := m.Migrate(doc, CurrentVersion, "project")
	require.NoError(t, err)

	assert.Equal(t, "team convention", gjson.GetBytes(out, "hooks.Stop.0.comment").Str)
	assert.Equal(t, "1", gjson.GetBytes(out, "hooks.Stop.0.hooks.0.env.CI").Str)
}

func TestMigrateDowngradeRejected(t *testing.T) {
	t.Parallel()

	m := newTestMigrator()
	doc := []byte(`{"hooks": {}, "version": "1.1.0"}`)

	_, _, err := m.Migrate(doc, "1.0.0", "project")
	require.Error(t, err)

	var engineErr *hkerr.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, hkerr.Migration, engineErr.Category)
	assert.Contains(t, engineErr.Message, "downgrade")
}

func TestMigrateUnknownPath(t *testing.T) {
	t.Parallel()

	m := newTestMigrator()
	doc := []byte(`{"hooks": {}, "version": "1.0.5"}`)

	_, _, err := m.Migrate(doc, CurrentVersion, "project")
	require.Error(t, err)

	var engineErr *hkerr.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, hkerr.Migration, engineErr.Category)
}

func TestMigrateSameVersionNoOp(t *testing.T) {
	t.Parallel()

	m := newTestMigrator()
	doc := []byte(`{"hooks": {}, "version": "1.1.0"}`)

	out, applied, err := m.Migrate(doc, "1.1.0", "project")
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, string(doc), string(out))
}

func TestNeedsMigration(t *testing.T) {
	t.Parallel()

	assert.True(t, NeedsMigration([]byte(`{"hooks": {}}`), CurrentVersion))
	assert.False(t, NeedsMigration([]byte(`{"hooks": {}, "version": "1.1.0"}`), CurrentVersion))
}
