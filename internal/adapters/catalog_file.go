package adapters

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/types"
)

// CatalogFileAdapter serves catalogs from a YAML snapshot written by
// "nus catalog export". The file is read once, on first use.
type CatalogFileAdapter struct {
	Path   string
	once   sync.Once
	cached types.CatalogSnapshotFile
	err    error
}

func NewCatalogFileAdapter(path string) *CatalogFileAdapter {
	return &CatalogFileAdapter{Path: path}
}

func (a *CatalogFileAdapter) Fetch(ctx context.Context, name string) (types.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return types.Catalog{}, err
	}
	snapshot, err := a.load()
	if err != nil {
		return types.Catalog{}, err
	}
	entry, ok := snapshot.Packages[name]
	if !ok {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not found in catalog file")
	}
	catalog := types.Catalog{
		Name:         name,
		DistTags:     map[string]string{},
		ReleaseTimes: map[string]time.Time{},
	}
	for tag, version := range entry.DistTags {
		if strings.TrimSpace(version) != "" {
			catalog.DistTags[tag] = version
		}
	}
	for _, version := range entry.Versions {
		catalog.Versions = append(catalog.Versions, version.Version)
		if released, ok := parseReleaseTime(version.Time); ok {
			catalog.ReleaseTimes[version.Version] = released
		}
	}
	return catalog, nil
}

func (a *CatalogFileAdapter) load() (types.CatalogSnapshotFile, error) {
	a.once.Do(func() {
		data, err := os.ReadFile(a.Path)
		if err != nil {
			a.err = errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("catalog file not found").
				WithCause(err)
			return
		}
		var snapshot types.CatalogSnapshotFile
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			a.err = errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid catalog file format").
				WithCause(err)
			return
		}
		if snapshot.Packages == nil {
			snapshot.Packages = map[string]types.CatalogSnapshotEntry{}
		}
		a.cached = snapshot
	})
	return a.cached, a.err
}

type CatalogFileWriter struct{}

func NewCatalogFileWriter() CatalogFileWriter {
	return CatalogFileWriter{}
}

func (CatalogFileWriter) Write(path string, catalogs []types.Catalog) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("catalog output path is empty")
	}
	snapshot := types.CatalogSnapshotFile{Packages: map[string]types.CatalogSnapshotEntry{}}
	for _, catalog := range catalogs {
		entry := types.CatalogSnapshotEntry{DistTags: map[string]string{}}
		for tag, version := range catalog.DistTags {
			entry.DistTags[tag] = version
		}
		for _, version := range catalog.Versions {
			entry.Versions = append(entry.Versions, types.CatalogSnapshotVersion{
				Version: version,
				Time:    formatReleaseTime(catalog.ReleaseTimes[version]),
			})
		}
		snapshot.Packages[catalog.Name] = entry
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode catalog file").
			WithCause(err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create catalog output directory").
				WithCause(err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write catalog file").
			WithCause(err)
	}
	return nil
}

// SortCatalogs orders catalogs by name so exported snapshots are stable.
func SortCatalogs(catalogs []types.Catalog) {
	sort.Slice(catalogs, func(i, j int) bool {
		return catalogs[i].Name < catalogs[j].Name
	})
}

var _ ports.CatalogPort = (*CatalogFileAdapter)(nil)
var _ ports.CatalogWriterPort = CatalogFileWriter{}
