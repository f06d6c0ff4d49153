package types

import "time"

// LatestTag is the dist-tag every registry package is expected to carry.
const LatestTag = "latest"

// Catalog is the registry view of one package. Versions keeps registry
// order; a zero release time means the publish time is unknown.
type Catalog struct {
	Name         string
	DistTags     map[string]string
	Versions     []string
	ReleaseTimes map[string]time.Time
}

func (c Catalog) Latest() string {
	return c.DistTags[LatestTag]
}

type CatalogSnapshotFile struct {
	Packages map[string]CatalogSnapshotEntry `yaml:"packages"`
}

type CatalogSnapshotEntry struct {
	DistTags map[string]string        `yaml:"dist_tags"`
	Versions []CatalogSnapshotVersion `yaml:"versions"`
}

type CatalogSnapshotVersion struct {
	Version string `yaml:"version"`
	Time    string `yaml:"time,omitempty"`
}

// DefaultPolicy is the policy used when no override matches a package.
const DefaultPolicy = LatestTag
