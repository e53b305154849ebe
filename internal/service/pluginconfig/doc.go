// Package pluginconfig writes the HTTP API plugin settings from environment variables.
//
// The file is regenerated on every start and never merged with its previous
// contents, so manual edits are overwritten. Configure the plugin through the
// MIRAI_HTTP_* variables instead. An empty MIRAI_HTTP_PORT means the default
// port; any other value that is not a port number in 1-65535 is an error.
package pluginconfig
