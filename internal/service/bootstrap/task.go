package bootstrap

import (
	"path/filepath"
	"strings"

	"github.com/oshokin/mirai-bootstrap/internal/config"
	"github.com/oshokin/mirai-bootstrap/internal/domain/manifest"
)

// Task is a single artifact to download.
type Task struct {
	// Name is the manifest component the artifact belongs to.
	Name string
	// URL is the remote location of the artifact.
	URL string
	// DestinationPath is where the artifact is written.
	DestinationPath string
}

// Tasks builds the download list from the manifest versions.
// The result depends only on its inputs.
func Tasks(cfg *config.Config, versions manifest.VersionManifest) []Task {
	return []Task{
		wrapperTask(cfg, versions.Version(manifest.Wrapper)),
		consoleTask(cfg, versions.Version(manifest.Console)),
		coreTask(cfg, versions.Version(manifest.CoreQQAndroid)),
		pluginTask(cfg, manifest.MiraiAPIHTTP, versions.Version(manifest.MiraiAPIHTTP)),
	}
}

func wrapperTask(cfg *config.Config, version string) Task {
	fileName := "mirai-console-wrapper-" + version + ".jar"

	return Task{
		Name:            manifest.Wrapper,
		URL:             joinURL(cfg.WrapperBaseURL, "wrapper-"+version, fileName),
		DestinationPath: filepath.Join(cfg.RootDir, fileName),
	}
}

func consoleTask(cfg *config.Config, version string) Task {
	fileName := "mirai-console-" + version + ".jar"

	return Task{
		Name:            manifest.Console,
		URL:             joinURL(cfg.ShadowBaseURL, "mirai-console", fileName),
		DestinationPath: filepath.Join(cfg.ContentDir(), fileName),
	}
}

// coreTask keeps the "-jvm-" infix in the local name even though the remote file lacks it.
func coreTask(cfg *config.Config, version string) Task {
	return Task{
		Name:            manifest.CoreQQAndroid,
		URL:             joinURL(cfg.ShadowBaseURL, "mirai-core-qqandroid", "mirai-core-qqandroid-"+version+".jar"),
		DestinationPath: filepath.Join(cfg.ContentDir(), "mirai-core-qqandroid-jvm-"+version+".jar"),
	}
}

func pluginTask(cfg *config.Config, plugin, version string) Task {
	fileName := plugin + "-" + version + ".jar"

	return Task{
		Name:            plugin,
		URL:             joinURL(cfg.PluginsBaseURL, plugin, fileName),
		DestinationPath: filepath.Join(cfg.PluginDir(), fileName),
	}
}

// joinURL appends path segments to base without touching its scheme or host.
func joinURL(base string, segments ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
