package migrate

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Step is one forward schema transformation. Apply never mutates its input:
// sjson returns fresh byte slices, so a failed step leaves the caller's
// document untouched. Steps operate on raw JSON rather than typed structs so
// fields the engine does not model pass through unharmed.
type Step struct {
	From        string
	To          string
	Description string
	Apply       func(doc []byte, now time.Time) ([]byte, []string, error)
}

// Steps is the ordered, fixed migration chain. Each entry's From must equal
// the previous entry's To.
var Steps = []Step{
	{
		From:        "0.0.0",
		To:          "1.0.0",
		Description: "wrap legacy bare document in the versioned envelope",
		Apply:       wrapLegacyDocument,
	},
	{
		From:        "1.0.0",
		To:          "1.1.0",
		Description: "rename hook command keys type->kind and timeout->timeoutSeconds",
		Apply:       renameCommandKeys,
	},
}

// wrapLegacyDocument stamps the versioned envelope onto a bare {"hooks": ...}
// document. Hook entries are preserved verbatim.
func wrapLegacyDocument(doc []byte, now time.Time) ([]byte, []string, error) {
	var changes []string
	ts := now.UTC().Format(time.RFC3339)

	out, err := sjson.SetBytes(doc, "meta.createdAt", ts)
	if err != nil {
		return nil, nil, fmt.Errorf("stamping meta.createdAt: %w", err)
	}
	changes = append(changes, "added meta with creation timestamp")

	out, err = sjson.SetRawBytes(out, "meta.migrations", []byte("[]"))
	if err != nil {
		return nil, nil, fmt.Errorf("stamping meta.migrations: %w", err)
	}

	if !gjson.GetBytes(out, "hooks").Exists() {
		out, err = sjson.SetRawBytes(out, "hooks", []byte("{}"))
		if err != nil {
			return nil, nil, fmt.Errorf("stamping empty hooks map: %w", err)
		}
		changes = append(changes, "added empty hooks map")
	}

	return out, changes, nil
}

// renameCommandKeys rewrites pre-1.1 hook command fields to their current
// names. Already-renamed commands are left alone, so the step is a no-op on
// documents that never used the old names.
func renameCommandKeys(doc []byte, now time.Time) ([]byte, []string, error) {
	var changes []string
	out := doc

	hooks := gjson.GetBytes(doc, "hooks")
	if !hooks.Exists() || !hooks.IsObject() {
		return out, nil, nil
	}

	var applyErr error
	hooks.ForEach(func(event, configs gjson.Result) bool {
		configs.ForEach(func(ci, cfg gjson.Result) bool {
			cfg.Get("hooks").ForEach(func(hi, cmd gjson.Result) bool {
				base := fmt.Sprintf("hooks.%s.%d.hooks.%d", event.Str, ci.Int(), hi.Int())

				if legacy := cmd.Get("type"); legacy.Exists() && !cmd.Get("kind").Exists() {
					out, applyErr = sjson.SetBytes(out, base+".kind", legacy.Str)
					if applyErr != nil {
						return false
					}
					out, applyErr = sjson.DeleteBytes(out, base+".type")
					if applyErr != nil {
						return false
					}
					changes = append(changes, fmt.Sprintf("%s: renamed type to kind", base))
				}

				if legacy := cmd.Get("timeout"); legacy.Exists() && !cmd.Get("timeoutSeconds").Exists() {
					out, applyErr = sjson.SetBytes(out, base+".timeoutSeconds", legacy.Int())
					if applyErr != nil {
						return false
					}
					out, applyErr = sjson.DeleteBytes(out, base+".timeout")
					if applyErr != nil {
						return false
					}
					changes = append(changes, fmt.Sprintf("%s: renamed timeout to timeoutSeconds", base))
				}

				return true
			})
			return applyErr == nil
		})
		return applyErr == nil
	})
	if applyErr != nil {
		return nil, nil, fmt.Errorf("renaming command keys: %w", applyErr)
	}

	return out, changes, nil
}
