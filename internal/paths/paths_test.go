package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDir_HonorsXDGConfigHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir, err := ConfigDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "zoomport"), dir)
}

func TestConfigFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	path, err := ConfigFile()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "zoomport", "config.yaml"), path)
}

func TestStateFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	path, err := StateFile()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "zoomport", "state.db"), path)
}
