package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	domain "github.com/oshokin/mirai-bootstrap/internal/domain/manifest"
)

// Repository defines read access to the version manifest.
type Repository interface {
	Load(ctx context.Context) (domain.VersionManifest, error)
}

// FileRepository reads the manifest from a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the manifest.
	path string
}

// NewFileRepository creates a repository that reads JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads and validates the manifest.
func (r *FileRepository) Load(_ context.Context) (domain.VersionManifest, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrManifestUnreadable, err)
	}

	var versions domain.VersionManifest
	if err = json.Unmarshal(contents, &versions); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrManifestMalformed, err)
	}

	if err = versions.Validate(); err != nil {
		return nil, err
	}

	return versions, nil
}
