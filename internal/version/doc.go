// Package version exposes build metadata for mirai-bootstrap.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds.
// Short and Full render the version for CLI output, UserAgent labels downloads.
package version
