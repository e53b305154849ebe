// Package startup is the container entry point: it downloads artifacts on the
// first start and regenerates the plugin settings on every start.
package startup
