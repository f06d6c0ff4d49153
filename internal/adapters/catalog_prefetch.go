package adapters

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/types"
)

type prefetchResult struct {
	catalog types.Catalog
	err     error
}

// PrefetchingCatalog fetches many catalogs up front with a bounded number
// of workers and then serves them from memory. Per-package errors are kept
// and returned from Fetch, so one failing package never aborts the batch.
type PrefetchingCatalog struct {
	Source  ports.CatalogPort
	Workers int

	mu      sync.Mutex
	results map[string]prefetchResult
}

func NewPrefetchingCatalog(source ports.CatalogPort, workers int) *PrefetchingCatalog {
	if workers <= 0 {
		workers = 1
	}
	return &PrefetchingCatalog{
		Source:  source,
		Workers: workers,
		results: map[string]prefetchResult{},
	}
}

func (p *PrefetchingCatalog) Prefetch(ctx context.Context, names []string) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.Workers)
	seen := map[string]struct{}{}
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			catalog, err := p.Source.Fetch(groupCtx, name)
			p.mu.Lock()
			p.results[name] = prefetchResult{catalog: catalog, err: err}
			p.mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Int("packages", len(seen)).Int("workers", p.Workers).Msg("catalogs prefetched")
	return ctx.Err()
}

func (p *PrefetchingCatalog) Fetch(ctx context.Context, name string) (types.Catalog, error) {
	p.mu.Lock()
	result, ok := p.results[name]
	p.mu.Unlock()
	if ok {
		return result.catalog, result.err
	}
	catalog, err := p.Source.Fetch(ctx, name)
	p.mu.Lock()
	p.results[name] = prefetchResult{catalog: catalog, err: err}
	p.mu.Unlock()
	return catalog, err
}

var _ ports.CatalogPort = (*PrefetchingCatalog)(nil)
