package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/oshokin/mirai-bootstrap/internal/config"
	"github.com/oshokin/mirai-bootstrap/internal/logger"
	"github.com/oshokin/mirai-bootstrap/internal/version"
)

// defaultChunkSize is the size of a single read from the response body.
const defaultChunkSize = 32 * 1024

// HTTPClient is the subset of *http.Client used by the Fetcher.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher streams remote artifacts to local files.
type Fetcher struct {
	// client issues the download requests.
	client HTTPClient
	// reporter receives progress events for every transfer.
	reporter ProgressReporter
	// chunkSize is the read buffer size for the response body.
	chunkSize int
}

// Option configures the Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithProgressReporter sets the progress sink.
func WithProgressReporter(reporter ProgressReporter) Option {
	return func(f *Fetcher) {
		if reporter != nil {
			f.reporter = reporter
		}
	}
}

// WithChunkSize sets the read buffer size.
func WithChunkSize(size int) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.chunkSize = size
		}
	}
}

// New creates a Fetcher. The default client has no timeout: artifacts are large
// and slow mirrors must not be cut off, at the cost of waiting on a stalled connection.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    new(http.Client),
		reporter:  NewConsoleProgressReporter(os.Stdout),
		chunkSize: defaultChunkSize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads url to destinationPath unless the file already exists.
// A non-success HTTP status is logged and reported as (false, nil) without
// creating the file. Transport and disk failures are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, url, destinationPath string) (bool, error) {
	_, err := os.Stat(destinationPath)
	if err == nil {
		logger.InfoKV(ctx, "Artifact already exists, skipping download", "path", destinationPath)
		return true, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", destinationPath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("build request for %s: %w", url, err)
	}

	req.Header.Set("User-Agent", version.UserAgent())

	logger.DebugKV(ctx, "Requesting artifact", "url", url)

	response, err := f.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch %s: %w", url, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		logger.Errorf(ctx, "Failed to fetch %s, status code: %d.", destinationPath, response.StatusCode)
		logger.Error(ctx, "Please check your version number.")

		return false, nil
	}

	if err = f.save(response, url, destinationPath); err != nil {
		return false, err
	}

	logger.InfoKV(ctx, "Downloaded artifact", "path", destinationPath)

	return true, nil
}

// save streams the response body to path, advancing progress by each chunk read.
func (f *Fetcher) save(response *http.Response, url, path string) error {
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	progress := newDownloadProgress(filepath.Base(path), response.ContentLength, f.reporter)
	buffer := make([]byte, f.chunkSize)

	for {
		n, readErr := response.Body.Read(buffer)
		progress.add(n)

		if n > 0 {
			if _, err = file.Write(buffer[:n]); err != nil {
				_ = file.Close()

				return fmt.Errorf("write %s: %w", path, err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			_ = file.Close()

			return fmt.Errorf("read %s: %w", url, readErr)
		}
	}

	progress.finish()

	if err = file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}
