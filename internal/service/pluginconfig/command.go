package pluginconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/mirai-bootstrap/internal/config"
	"github.com/oshokin/mirai-bootstrap/internal/logger"
)

// RunOption configures a generator run.
type RunOption func(*runOptions)

type runOptions struct {
	lookup LookupFunc
}

// WithLookup replaces the environment lookup.
func WithLookup(lookup LookupFunc) RunOption {
	return func(o *runOptions) {
		o.lookup = lookup
	}
}

// Run reads the settings and rewrites the plugin settings file from scratch.
func Run(ctx context.Context, cfg *config.Config, opts ...RunOption) error {
	ctx = logger.WithName(ctx, "plugin-config")

	o := new(runOptions)
	for _, opt := range opts {
		opt(o)
	}

	settings, err := Load(o.lookup)
	if err != nil {
		return err
	}

	if settings.AuthKey == DefaultAuthKey {
		logger.Warnf(ctx, "%s is not set, the plugin uses a placeholder auth key", EnvName("authkey"))
	}

	if err = Write(cfg.PluginConfigFile(), Build(settings)); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Plugin settings generated",
		"path", cfg.PluginConfigFile(),
		"port", settings.Port,
		"report", settings.UseReport)

	return nil
}

// Write marshals doc and replaces the file at path, creating its directory first.
func Write(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal plugin settings: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), config.DefaultDirPermissions); err != nil {
		return fmt.Errorf("create plugin settings directory: %w", err)
	}

	if err = os.WriteFile(path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write plugin settings: %w", err)
	}

	return nil
}
