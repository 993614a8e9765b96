package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Version
		wantErr bool
	}{
		"plain":          {input: "1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3, Raw: "1.2.3"}},
		"with v prefix":  {input: "v1.0.0", want: Version{Major: 1, Minor: 0, Patch: 0, Raw: "v1.0.0"}},
		"legacy":         {input: "0.0.0", want: Version{Raw: "0.0.0"}},
		"two components": {input: "1.2", wantErr: true},
		"garbage":        {input: "not-a-version", wantErr: true},
		"empty":          {input: "", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestVersionCompare(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a, b string
		want int
	}{
		"equal":         {a: "1.1.0", b: "1.1.0", want: 0},
		"minor older":   {a: "1.0.0", b: "1.1.0", want: -1},
		"major newer":   {a: "2.0.0", b: "1.9.9", want: 1},
		"patch matters": {a: "1.0.1", b: "1.0.0", want: 1},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := ParseVersion(tt.a)
			require.NoError(t, err)
			b, err := ParseVersion(tt.b)
			require.NoError(t, err)

			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, tt.want > 0, a.IsNewerThan(b))
		})
	}
}
