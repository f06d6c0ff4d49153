package ports

import (
	"context"

	"github.com/Jelmerro/nus/internal/types"
)

type CatalogPort interface {
	Fetch(ctx context.Context, name string) (types.Catalog, error)
}

type CatalogWriterPort interface {
	Write(path string, catalogs []types.Catalog) error
}
