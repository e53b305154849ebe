package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/mirai-bootstrap/internal/config"
	"github.com/oshokin/mirai-bootstrap/internal/service/bootstrap"
	"github.com/oshokin/mirai-bootstrap/internal/service/fetcher"
	"github.com/oshokin/mirai-bootstrap/internal/service/pluginconfig"
	"github.com/oshokin/mirai-bootstrap/internal/service/startup"
)

const versions = `{
  "wrapper": "2.1",
  "console": "1.0",
  "core-qqandroid": "2.0",
  "mirai-api-http": "1.16"
}`

// artifactServer serves the four jars under the default URL layout and counts hits per path.
type artifactServer struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

func newArtifactServer(t *testing.T, missing ...string) *artifactServer {
	t.Helper()

	jars := map[string]string{
		"/wrapper/wrapper-2.1/mirai-console-wrapper-2.1.jar":        "wrapper-jar",
		"/shadow/mirai-console/mirai-console-1.0.jar":               "console-jar",
		"/shadow/mirai-core-qqandroid/mirai-core-qqandroid-2.0.jar": "core-jar",
		"/plugins/mirai-api-http/mirai-api-http-1.16.jar":           "plugin-jar",
	}

	for _, path := range missing {
		delete(jars, path)
	}

	s := &artifactServer{hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()

		body, ok := jars[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}

		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *artifactServer) totalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.hits {
		total += n
	}

	return total
}

// prepareRoot writes the manifest and a settings file pointing at the test server.
func prepareRoot(t *testing.T, serverURL string) (string, string) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.VersionsFilename), []byte(versions), 0o600))

	cfg := config.New(root)
	cfg.WrapperBaseURL = serverURL + "/wrapper"
	cfg.ShadowBaseURL = serverURL + "/shadow"
	cfg.PluginsBaseURL = serverURL + "/plugins"

	settingsPath := filepath.Join(t.TempDir(), "bootstrap.yaml")
	require.NoError(t, config.Save(settingsPath, cfg))

	return root, settingsPath
}

func runOptions(settingsPath string, env map[string]string) *startup.Options {
	return &startup.Options{
		ConfigPath: settingsPath,
		Mode:       startup.ModeAuto,
		BootstrapOptions: []bootstrap.Option{
			bootstrap.WithFetcher(fetcher.New(fetcher.WithProgressReporter(fetcher.DiscardProgressReporter{}))),
		},
		PluginConfigOptions: []pluginconfig.RunOption{
			pluginconfig.WithLookup(func(key string) (string, bool) {
				v, ok := env[key]
				return v, ok
			}),
		},
	}
}

// TestStartup_DownloadsAndConfigures runs the first start against a local artifact server.
func TestStartup_DownloadsAndConfigures(t *testing.T) {
	t.Parallel()

	server := newArtifactServer(t)
	root, settingsPath := prepareRoot(t, server.URL)

	err := startup.Run(context.Background(), runOptions(settingsPath, map[string]string{
		"MIRAI_HTTP_AUTHKEY": "integration",
	}))
	require.NoError(t, err)

	expected := map[string]string{
		filepath.Join(root, "mirai-console-wrapper-2.1.jar"):               "wrapper-jar",
		filepath.Join(root, "content", "mirai-console-1.0.jar"):            "console-jar",
		filepath.Join(root, "content", "mirai-core-qqandroid-jvm-2.0.jar"): "core-jar",
		filepath.Join(root, "plugins", "mirai-api-http-1.16.jar"):          "plugin-jar",
	}

	for path, body := range expected {
		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr, path)
		require.Equal(t, body, string(data))
	}

	data, err := os.ReadFile(filepath.Join(root, "plugins", "MiraiAPIHTTP", "setting.yml"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Equal(t, 8080, doc["port"])
	require.Equal(t, "integration", doc["authKey"])
	require.Contains(t, doc, "report")

	// A restart finds the marker and only regenerates the settings.
	require.NoError(t, startup.Run(context.Background(), runOptions(settingsPath, map[string]string{
		"MIRAI_HTTP_USE_REPORT": "0",
	})))
	require.Equal(t, 4, server.totalHits())

	data, err = os.ReadFile(filepath.Join(root, "plugins", "MiraiAPIHTTP", "setting.yml"))
	require.NoError(t, err)
	require.NotContains(t, string(data), "report")
	require.NotContains(t, string(data), "integration")
}

// TestStartup_MissingArtifact fails, keeps the other artifacts and retries only the missing one.
func TestStartup_MissingArtifact(t *testing.T) {
	t.Parallel()

	const missingCore = "/shadow/mirai-core-qqandroid/mirai-core-qqandroid-2.0.jar"

	server := newArtifactServer(t, missingCore)
	root, settingsPath := prepareRoot(t, server.URL)

	err := startup.Run(context.Background(), runOptions(settingsPath, nil))
	require.ErrorIs(t, err, bootstrap.ErrBootstrapFailed)

	require.FileExists(t, filepath.Join(root, "content", "mirai-console-1.0.jar"))
	require.NoFileExists(t, filepath.Join(root, "content", "mirai-core-qqandroid-jvm-2.0.jar"))
	require.NoFileExists(t, filepath.Join(root, "plugins", "MiraiAPIHTTP", "setting.yml"))

	// The marker now exists, so a manual retry goes through the fetch mode.
	opts := runOptions(settingsPath, nil)
	opts.Mode = startup.ModeFetch

	err = startup.Run(context.Background(), opts)
	require.ErrorIs(t, err, bootstrap.ErrBootstrapFailed)
	require.Equal(t, 5, server.totalHits())
}
