package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/Jelmerro/nus/internal/adapters"
	"github.com/Jelmerro/nus/internal/types"
)

// ExportCatalog snapshots the catalogs of every registry package in the
// manifest into a YAML file usable as catalog_file in later runs.
func (s Service) ExportCatalog(ctx context.Context, cfg Config, req ExportRequest) (ExportResult, error) {
	output := strings.TrimSpace(req.Output)
	if output == "" {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is required")
	}
	if err := cfg.Validate(); err != nil {
		return ExportResult{}, err
	}
	manifest, err := s.Manifest.Load(cfg.ManifestPath)
	if err != nil {
		return ExportResult{}, err
	}
	workers := cfg.PrefetchWorkers
	if workers <= 0 {
		workers = 1
	}
	names := registryNames(manifest)
	prefetch := adapters.NewPrefetchingCatalog(s.catalogFor(cfg), workers)
	if err := prefetch.Prefetch(ctx, names); err != nil {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeCanceled).
			WithMsg("catalog export canceled").
			WithCause(err)
	}

	result := ExportResult{OutputPath: output}
	catalogs := make([]types.Catalog, 0, len(names))
	for _, name := range names {
		catalog, err := prefetch.Fetch(ctx, name)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("package", name).Msg("skipping package in catalog export")
			result.Failed = append(result.Failed, name)
			continue
		}
		catalog.Name = name
		catalogs = append(catalogs, catalog)
	}
	adapters.SortCatalogs(catalogs)
	if err := s.CatalogWriter.Write(output, catalogs); err != nil {
		return ExportResult{}, err
	}
	result.Packages = len(catalogs)
	return result, nil
}
