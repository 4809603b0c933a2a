package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestParseOptionsYAMLDefaultsSuspendEvery(t *testing.T) {
	opts, err := ParseOptionsYAML([]byte(`skipBitmaps: true`))
	require.NoError(t, err)
	require.True(t, opts.SkipBitmaps)
	require.Equal(t, 50, opts.SuspendEveryMillis)
}

func TestParseOptionsYAMLHonorsAllFields(t *testing.T) {
	raw, err := yaml.Marshal(fileOptions{
		SkipBitmaps:                      true,
		EnableImplicitMoveAfterClose:     true,
		EnableEdgeSplittingOnStyleChange: true,
		Debug:                            true,
		SuspendEvery:                     10,
	})
	require.NoError(t, err)

	opts, err := ParseOptionsYAML(raw)
	require.NoError(t, err)
	require.True(t, opts.SkipBitmaps)
	require.True(t, opts.EnableImplicitMoveAfterClose)
	require.True(t, opts.EnableEdgeSplittingOnStyleChange)
	require.True(t, opts.Debug)
	require.Equal(t, 10, opts.SuspendEveryMillis)
}

func TestLoadOptionsReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0o600))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.True(t, opts.Debug)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
