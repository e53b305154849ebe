// Package config describes the runtime layout (root, content and plugin
// directories) and the download sources used by the bootstrap.
//
// Defaults target the container image; a YAML settings file can override them.
package config
