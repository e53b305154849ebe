package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the filesystem layout and download sources of the bot runtime.
// It is built once at startup and passed to every component.
type Config struct {
	// RootDir is the runtime root holding versions.json, content/ and plugins/.
	RootDir string `yaml:"root_dir"`
	// WrapperBaseURL hosts console wrapper releases.
	WrapperBaseURL string `yaml:"wrapper_base_url"`
	// ShadowBaseURL hosts shadowed console and core builds.
	ShadowBaseURL string `yaml:"shadow_base_url"`
	// PluginsBaseURL hosts plugin builds.
	PluginsBaseURL string `yaml:"plugins_base_url"`
}

const (
	// DefaultRootDir is the runtime root inside the container image.
	DefaultRootDir = "/app"

	// DefaultWrapperBaseURL is where console wrapper releases are published.
	DefaultWrapperBaseURL = "https://github.com/mamoe/mirai-console/releases/download"

	// DefaultShadowBaseURL is where shadowed console and core jars are published.
	DefaultShadowBaseURL = "https://raw.githubusercontent.com/mamoe/mirai-repo/master/shadow"

	// DefaultPluginsBaseURL is where plugin jars are published.
	DefaultPluginsBaseURL = "https://raw.githubusercontent.com/mamoe/mirai-plugins/master"

	// VersionsFilename is the version manifest inside the root directory.
	VersionsFilename = "versions.json"

	// ContentDirname holds console and core jars. Its presence marks a completed first start.
	ContentDirname = "content"

	// PluginsDirname holds plugin jars and their settings.
	PluginsDirname = "plugins"

	// PluginConfigDirname is the HTTP plugin settings directory inside plugins/.
	PluginConfigDirname = "MiraiAPIHTTP"

	// PluginConfigFilename is the HTTP plugin settings file.
	PluginConfigFilename = "setting.yml"

	// DefaultDirPermissions is used for every directory the bootstrap creates.
	DefaultDirPermissions os.FileMode = 0o755

	// DefaultFilePermissions is the default file permission for generated settings.
	DefaultFilePermissions os.FileMode = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errRootDirRequired is returned when the root directory is missing.
	errRootDirRequired = errors.New("root directory must be provided")
)

// New returns a configuration rooted at rootDir with default download sources.
func New(rootDir string) *Config {
	if rootDir == "" {
		rootDir = DefaultRootDir
	}

	return &Config{
		RootDir:        filepath.Clean(rootDir),
		WrapperBaseURL: DefaultWrapperBaseURL,
		ShadowBaseURL:  DefaultShadowBaseURL,
		PluginsBaseURL: DefaultPluginsBaseURL,
	}
}

// Load reads configuration from the provided path and validates essential fields.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := New("")
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.RootDir == "" {
		return errRootDirRequired
	}

	cfg.RootDir = filepath.Clean(cfg.RootDir)

	// Set default download sources if not specified.
	if cfg.WrapperBaseURL == "" {
		cfg.WrapperBaseURL = DefaultWrapperBaseURL
	}

	if cfg.ShadowBaseURL == "" {
		cfg.ShadowBaseURL = DefaultShadowBaseURL
	}

	if cfg.PluginsBaseURL == "" {
		cfg.PluginsBaseURL = DefaultPluginsBaseURL
	}

	for name, raw := range map[string]string{
		"wrapper_base_url": cfg.WrapperBaseURL,
		"shadow_base_url":  cfg.ShadowBaseURL,
		"plugins_base_url": cfg.PluginsBaseURL,
	} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}

// VersionsFile returns the path of the version manifest.
func (c *Config) VersionsFile() string {
	return filepath.Join(c.RootDir, VersionsFilename)
}

// ContentDir returns the directory that receives console and core jars.
func (c *Config) ContentDir() string {
	return filepath.Join(c.RootDir, ContentDirname)
}

// PluginDir returns the directory that receives plugin jars.
func (c *Config) PluginDir() string {
	return filepath.Join(c.RootDir, PluginsDirname)
}

// PluginConfigDir returns the HTTP plugin settings directory.
func (c *Config) PluginConfigDir() string {
	return filepath.Join(c.PluginDir(), PluginConfigDirname)
}

// PluginConfigFile returns the HTTP plugin settings file.
func (c *Config) PluginConfigFile() string {
	return filepath.Join(c.PluginConfigDir(), PluginConfigFilename)
}

// IsFirstStart reports whether the content directory is missing,
// which means the artifacts have never been downloaded.
func (c *Config) IsFirstStart() bool {
	_, err := os.Stat(c.ContentDir())

	return errors.Is(err, os.ErrNotExist)
}
