// Package fetcher downloads artifacts to disk with progress feedback.
//
// A fetch is skipped when the destination already exists, so re-running the
// bootstrap after a partial success only downloads what is missing. A file
// left half-written by an interrupted transfer looks complete and is skipped
// as well; delete it by hand before retrying.
package fetcher
