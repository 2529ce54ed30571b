package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// homedir caches the first lookup, which would defeat t.Setenv.
func isolateHome(t *testing.T) {
	t.Helper()
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	dir, err := Dir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "mnt"), cfg.MountDir)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Probe)
	assert.Equal(t, 15*time.Second, cfg.Timeouts.Connect)
	assert.Equal(t, 20*time.Second, cfg.Timeouts.Unlock)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Bridge)
	assert.Equal(t, 20, cfg.Bridge.ServerAliveInterval)
	assert.Equal(t, 5, cfg.Bridge.ServerAliveCountMax)
	assert.Equal(t, []string{"thunar", "dolphin", "nautilus", "pcmanfm", "nemo"}, cfg.Viewers)
}

func TestPaths(t *testing.T) {
	isolateHome(t)

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, ".luksvault", filepath.Base(dir))

	path, err := ProfilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "profiles.ini"), path)
}
