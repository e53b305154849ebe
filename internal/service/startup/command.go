package startup

import (
	"context"
	"fmt"

	"github.com/oshokin/mirai-bootstrap/internal/config"
	"github.com/oshokin/mirai-bootstrap/internal/logger"
	"github.com/oshokin/mirai-bootstrap/internal/service/bootstrap"
	"github.com/oshokin/mirai-bootstrap/internal/service/pluginconfig"
)

// Mode selects which steps Run performs.
type Mode int

const (
	// ModeAuto downloads artifacts only on first start, then writes the settings.
	ModeAuto Mode = iota
	// ModeFetch always runs the download step, then writes the settings.
	ModeFetch
	// ModeConfigOnly only writes the settings.
	ModeConfigOnly
)

// Options are inputs accepted by the startup entry point.
type Options struct {
	// ConfigPath is an optional YAML settings file. When empty, defaults rooted at RootDir are used.
	ConfigPath string
	// RootDir overrides the runtime root.
	RootDir string
	// Mode selects the steps to run.
	Mode Mode
	// BootstrapOptions are passed to the download step.
	BootstrapOptions []bootstrap.Option
	// PluginConfigOptions are passed to the settings step.
	PluginConfigOptions []pluginconfig.RunOption
}

// Run resolves the configuration and performs the selected steps.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "mirai-bootstrap")

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	if shouldBootstrap(cfg, opts.Mode) {
		logger.InfoKV(ctx, "Downloading runtime artifacts", "root", cfg.RootDir)

		if err = bootstrap.Run(ctx, cfg, opts.BootstrapOptions...); err != nil {
			return fmt.Errorf("download artifacts: %w", err)
		}
	} else {
		logger.Debug(ctx, "Artifacts are already in place, skipping download")
	}

	if err = pluginconfig.Run(ctx, cfg, opts.PluginConfigOptions...); err != nil {
		return fmt.Errorf("generate plugin settings: %w", err)
	}

	return nil
}

func resolveConfig(opts *Options) (*config.Config, error) {
	if opts.ConfigPath == "" {
		cfg := config.New(opts.RootDir)
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}

		return cfg, nil
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.RootDir != "" {
		cfg.RootDir = opts.RootDir
		if err = config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func shouldBootstrap(cfg *config.Config, mode Mode) bool {
	switch mode {
	case ModeFetch:
		return true
	case ModeConfigOnly:
		return false
	default:
		return cfg.IsFirstStart()
	}
}
