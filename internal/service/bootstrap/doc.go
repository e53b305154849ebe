// Package bootstrap downloads the runtime artifacts on first start.
//
// It creates the content and plugin directories, reads the version manifest,
// then fetches the console wrapper, console, core and HTTP plugin in parallel.
// Nothing is rolled back when a fetch fails: finished artifacts stay in place
// for the next attempt.
package bootstrap
