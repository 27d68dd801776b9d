package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesConsoleAndFile(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })
	dir := t.TempDir()
	var console bytes.Buffer

	logger, closer, err := Init(Options{Dir: dir, Console: &console})
	require.NoError(t, err)

	logger.Info().Str("project", "TWR01").Msg("estimated")
	logger.Debug().Msg("hidden at info level")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "estimated")
	assert.Contains(t, console.String(), "TWR01")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"project":"TWR01"`)
}

func TestInit_VerboseEnablesDebug(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })
	var console bytes.Buffer

	logger, closer, err := Init(Options{Verbose: true, Console: &console})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("model cache miss")
	assert.Contains(t, console.String(), "model cache miss")
}

func TestInit_NonTerminalHasNoColour(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })
	var console bytes.Buffer

	logger, closer, err := Init(Options{Console: &console})
	require.NoError(t, err)
	defer closer.Close()

	logger.Warn().Msg("plain")
	assert.NotContains(t, console.String(), "\x1b[")
}
