package ports

import "github.com/Jelmerro/nus/internal/types"

type ManifestPort interface {
	Load(path string) (types.Manifest, error)
	Save(manifest types.Manifest) error
}
