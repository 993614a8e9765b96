package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Info(), Version)
	assert.Contains(t, Info(), Commit)
}

func TestIsDevBuild(t *testing.T) {
	t.Parallel()

	// The default build is a dev build until ldflags say otherwise.
	assert.Equal(t, Version == "dev", IsDevBuild())
}
