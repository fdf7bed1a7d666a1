package media

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DiscoverOptions configures Discover. All callbacks are optional.
type DiscoverOptions struct {
	Workers int
	Logger  zerolog.Logger

	// OnFound fires once per accepted asset, possibly from several goroutines.
	OnFound func(Asset)
	// OnComplete fires exactly once, after every worker has finished.
	OnComplete func(total int)
}

func (o DiscoverOptions) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// collector gathers assets from concurrent workers
type collector struct {
	mu     sync.Mutex
	assets []Asset
}

func (c *collector) add(a Asset) {
	c.mu.Lock()
	c.assets = append(c.assets, a)
	c.mu.Unlock()
}

func (c *collector) items() []Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assets
}

// Discover walks root and returns every supported asset below it. When root is
// itself a file it is classified on its own. Entries that fail classification
// are logged and skipped; only a root that cannot be read is an error.
func Discover(ctx context.Context, root string, opts DiscoverOptions) ([]Asset, error) {
	logger := opts.Logger
	found := opts.OnFound
	if found == nil {
		found = func(Asset) {}
	}
	complete := opts.OnComplete
	if complete == nil {
		complete = func(int) {}
	}

	logger.Debug().Str("root", root).Msg("gathering assets")

	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", root, err)
	}

	if !fi.IsDir() {
		asset, err := Classify(root)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to add file")
			complete(0)
			return nil, nil
		}
		found(asset)
		complete(1)
		return []Asset{asset}, nil
	}

	workers := opts.workers()
	paths := make(chan string, workers)
	results := &collector{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(paths)
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				logger.Warn().Err(err).Str("path", path).Msg("omitting unreadable entry")
				return nil
			}
			if d.IsDir() {
				return nil
			}
			select {
			case paths <- path:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for path := range paths {
				asset, err := Classify(path)
				if err != nil {
					logger.Warn().Err(err).Msg("omitting")
					continue
				}
				logger.Trace().Object("asset", asset).Msg("entry")
				results.add(asset)
				found(asset)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	assets := results.items()
	complete(len(assets))
	return assets, nil
}
