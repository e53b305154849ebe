// Package manifest contains the version manifest that pins every artifact
// the bootstrap downloads.
package manifest
