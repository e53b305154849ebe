package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/mirai-bootstrap/internal/config"
	"github.com/oshokin/mirai-bootstrap/internal/logger"
	repository "github.com/oshokin/mirai-bootstrap/internal/repository/manifest"
	"github.com/oshokin/mirai-bootstrap/internal/service/fetcher"
)

// ErrBootstrapFailed is returned when at least one artifact could not be downloaded.
var ErrBootstrapFailed = errors.New("bootstrap failed")

// Fetcher downloads a single artifact. It reports (false, nil) for a rejected
// request and an error for transport failures.
type Fetcher interface {
	Fetch(ctx context.Context, url, destinationPath string) (bool, error)
}

// Option configures a bootstrap run.
type Option func(*runner)

// WithFetcher replaces the artifact fetcher.
func WithFetcher(f Fetcher) Option {
	return func(r *runner) {
		if f != nil {
			r.fetcher = f
		}
	}
}

// WithRepository replaces the manifest source.
func WithRepository(repo repository.Repository) Option {
	return func(r *runner) {
		if repo != nil {
			r.repo = repo
		}
	}
}

// runner holds the collaborators of a single bootstrap.
type runner struct {
	cfg     *config.Config
	repo    repository.Repository
	fetcher Fetcher
}

// Run prepares the directories, loads the manifest and downloads every artifact.
func Run(ctx context.Context, cfg *config.Config, opts ...Option) error {
	ctx = logger.WithName(ctx, "bootstrap")

	r := &runner{
		cfg:     cfg,
		repo:    repository.NewFileRepository(cfg.VersionsFile()),
		fetcher: fetcher.New(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r.run(ctx)
}

func (r *runner) run(ctx context.Context) error {
	logger.InfoKV(ctx, "Preparing runtime directories", "root", r.cfg.RootDir)

	for _, dir := range []string{r.cfg.ContentDir(), r.cfg.PluginDir()} {
		if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	logger.InfoKV(ctx, "Reading version manifest", "path", r.cfg.VersionsFile())

	versions, err := r.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load version manifest: %w", err)
	}

	tasks := Tasks(r.cfg, versions)

	results, err := r.fetchAll(ctx, tasks)
	if err != nil {
		return err
	}

	var failed []string

	for i, ok := range results {
		if !ok {
			failed = append(failed, tasks[i].Name)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: unable to download %s", ErrBootstrapFailed, strings.Join(failed, ", "))
	}

	logger.Info(ctx, "All artifacts are in place")

	return nil
}

// fetchAll runs every task concurrently and waits for all of them.
// One failure does not cancel the others.
func (r *runner) fetchAll(ctx context.Context, tasks []Task) ([]bool, error) {
	var (
		group   errgroup.Group
		results = make([]bool, len(tasks))
	)

	for i, task := range tasks {
		group.Go(func() error {
			taskCtx := logger.WithKV(ctx, "artifact", task.Name)

			ok, err := r.fetcher.Fetch(taskCtx, task.URL, task.DestinationPath)
			if err != nil {
				return fmt.Errorf("download %s: %w", task.Name, err)
			}

			results[i] = ok

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
