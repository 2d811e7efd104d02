package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "sqlgraph", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"config", "verbose", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing persistent flag %s", name)
	}

	// Check subcommands are registered
	for _, expected := range []string{"version", "relations", "path", "query"} {
		sub, _, err := cmd.Find([]string{expected})
		require.NoError(t, err)
		assert.Equal(t, expected, sub.Name())
	}
}

func TestNewVersionCommand(t *testing.T) {
	// Set test version info
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-01-01"
	GoVersion = "go1.23"

	cmd := NewVersionCommand()
	assert.Equal(t, "version", cmd.Use)

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.Run(cmd, []string{})

	out := buf.String()
	assert.Contains(t, out, "1.0.0-test")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "2025-01-01")
	assert.Contains(t, out, "go1.23")
}
