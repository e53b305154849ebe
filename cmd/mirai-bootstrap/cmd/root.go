package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/mirai-bootstrap/internal/config"
	"github.com/oshokin/mirai-bootstrap/internal/logger"
	"github.com/oshokin/mirai-bootstrap/internal/service/startup"
	"github.com/oshokin/mirai-bootstrap/internal/version"
)

var (
	// configPath to the optional bootstrap settings YAML file.
	configPath string

	// rootDir overrides the runtime root directory.
	rootDir string

	// logLevel is the minimum level of printed log entries.
	logLevel string

	// rootCmd downloads artifacts on first start and regenerates plugin settings.
	rootCmd = &cobra.Command{
		Use:               "mirai-bootstrap",
		Short:             "Prepare the mirai runtime and generate HTTP plugin settings",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: applyLogLevel,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, startup.ModeAuto)
		},
	}

	// fetchCmd downloads artifacts regardless of the first-start marker.
	fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Download missing artifacts, then generate plugin settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, startup.ModeFetch)
		},
	}

	// configCmd only regenerates the plugin settings.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Generate plugin settings from MIRAI_HTTP_* variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, startup.ModeConfigOnly)
		},
	}
)

// Execute runs the mirai-bootstrap CLI and exits with non-zero status on error.
// Errors are logged once here; cobra's own error printing is silenced.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.ErrorKV(context.Background(), "mirai-bootstrap failed", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, mode startup.Mode) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	options := &startup.Options{
		ConfigPath: configPath,
		Mode:       mode,
	}

	// A settings file keeps its own root unless --root is given explicitly.
	if configPath == "" || cmd.Flags().Changed("root") {
		options.RootDir = rootDir
	}

	return startup.Run(ctx, options)
}

func applyLogLevel(_ *cobra.Command, _ []string) error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", logLevel)
	}

	logger.SetLevel(level)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to bootstrap settings file")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", config.DefaultRootDir, "runtime root directory")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(fetchCmd, configCmd)
}
