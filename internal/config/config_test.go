package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, defaults and URL validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))
	require.Error(t, Validate(new(Config)))

	cfg := &Config{RootDir: "/srv/mirai/"}
	require.NoError(t, Validate(cfg))
	require.Equal(t, "/srv/mirai", cfg.RootDir)
	require.Equal(t, DefaultWrapperBaseURL, cfg.WrapperBaseURL)
	require.Equal(t, DefaultShadowBaseURL, cfg.ShadowBaseURL)
	require.Equal(t, DefaultPluginsBaseURL, cfg.PluginsBaseURL)

	cfg = &Config{
		RootDir:       "/srv/mirai",
		ShadowBaseURL: "not a url",
	}
	require.Error(t, Validate(cfg))
}

// TestLayout verifies the derived paths.
func TestLayout(t *testing.T) {
	t.Parallel()

	cfg := New("/app")

	require.Equal(t, "/app/versions.json", cfg.VersionsFile())
	require.Equal(t, "/app/content", cfg.ContentDir())
	require.Equal(t, "/app/plugins", cfg.PluginDir())
	require.Equal(t, "/app/plugins/MiraiAPIHTTP", cfg.PluginConfigDir())
	require.Equal(t, "/app/plugins/MiraiAPIHTTP/setting.yml", cfg.PluginConfigFile())

	require.Equal(t, DefaultRootDir, New("").RootDir)
}

// TestIsFirstStart flips once the content directory exists.
func TestIsFirstStart(t *testing.T) {
	t.Parallel()

	cfg := New(t.TempDir())
	require.True(t, cfg.IsFirstStart())

	require.NoError(t, os.Mkdir(cfg.ContentDir(), DefaultDirPermissions))
	require.False(t, cfg.IsFirstStart())
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bootstrap.yaml")

	cfg := New(dir)
	cfg.PluginsBaseURL = "https://mirror.local/plugins"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

// TestLoad_PartialFileKeepsDefaults checks that omitted keys fall back to defaults.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bootstrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root_dir: /data/mirai\n"), DefaultFilePermissions))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/data/mirai", loaded.RootDir)
	require.Equal(t, DefaultShadowBaseURL, loaded.ShadowBaseURL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
