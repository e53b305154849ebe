// Package manifest reads the version manifest from disk.
package manifest
