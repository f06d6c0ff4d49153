package app

import (
	"io"
	"time"

	"github.com/Jelmerro/nus/internal/adapters"
	"github.com/Jelmerro/nus/internal/ports"
)

type Service struct {
	Manifest       ports.ManifestPort
	Catalog        ports.CatalogPort
	CatalogWriter  ports.CatalogWriterPort
	Prompter       ports.PrompterPort
	Report         ports.ReportPort
	PackageManager ports.PackageManagerPort
	Cleanup        ports.CleanupPort
	Clock          func() time.Time
}

// NewService wires the file, process and report adapters. The catalog is
// left nil so it is chosen per run from the configuration.
func NewService(out io.Writer, prompter ports.PrompterPort) Service {
	return Service{
		Manifest:       adapters.NewManifestFileAdapter(),
		CatalogWriter:  adapters.NewCatalogFileWriter(),
		Prompter:       prompter,
		Report:         adapters.NewReportWriter(out),
		PackageManager: adapters.NewPackageManagerAdapter(),
		Cleanup:        adapters.NewCleanupAdapter(),
		Clock:          time.Now,
	}
}

func (s Service) catalogFor(cfg Config) ports.CatalogPort {
	if s.Catalog != nil {
		return s.Catalog
	}
	if cfg.CatalogFile != "" {
		return adapters.NewCatalogFileAdapter(cfg.CatalogFile)
	}
	return adapters.NewNpmRegistryAdapter(cfg.Registry, cfg.RegistryToken, cfg.HTTPTimeout, cfg.HTTPRetries, cfg.HTTPRetryDelay)
}
