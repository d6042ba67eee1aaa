package cmd

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "notfoundgen "), out)
	assert.Contains(t, out, runtime.Version())
}

func TestVersion_LdflagsWins(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	assert.Equal(t, "v1.2.3", version())
}
