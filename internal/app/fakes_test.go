package app

import (
	"context"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/Jelmerro/nus/internal/types"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type memoryManifest struct {
	manifest types.Manifest
	saved    []types.Manifest
	loadErr  error
}

func (m *memoryManifest) Load(path string) (types.Manifest, error) {
	if m.loadErr != nil {
		return types.Manifest{}, m.loadErr
	}
	loaded := m.manifest
	loaded.Path = path
	loaded.Groups = make([]types.DependencyGroup, len(m.manifest.Groups))
	for i, group := range m.manifest.Groups {
		loaded.Groups[i] = types.DependencyGroup{
			Name:    group.Name,
			Entries: append([]types.ManifestEntry(nil), group.Entries...),
		}
	}
	return loaded, nil
}

func (m *memoryManifest) Save(manifest types.Manifest) error {
	m.saved = append(m.saved, manifest)
	return nil
}

type memoryCatalog map[string]types.Catalog

func (c memoryCatalog) Fetch(_ context.Context, name string) (types.Catalog, error) {
	catalog, ok := c[name]
	if !ok {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not found in registry")
	}
	return catalog, nil
}

// cancelingCatalog cancels the run once it has answered a number of
// fetches and then fails the way the registry adapter does.
type cancelingCatalog struct {
	catalog memoryCatalog
	cancel  context.CancelFunc
	after   int

	mu      sync.Mutex
	fetches int
}

func (c *cancelingCatalog) Fetch(ctx context.Context, name string) (types.Catalog, error) {
	c.mu.Lock()
	c.fetches++
	exhausted := c.fetches > c.after
	c.mu.Unlock()
	if exhausted {
		c.cancel()
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeCanceled).
			WithMsg("request canceled").
			WithCause(ctx.Err())
	}
	return c.catalog.Fetch(ctx, name)
}

// yearOld builds a catalog where every version was published a year ago.
func yearOld(latest string, versions ...string) types.Catalog {
	catalog := types.Catalog{
		DistTags:     map[string]string{types.LatestTag: latest},
		Versions:     versions,
		ReleaseTimes: map[string]time.Time{},
	}
	for _, version := range versions {
		catalog.ReleaseTimes[version] = testNow.Add(-365 * 24 * time.Hour)
	}
	return catalog
}

type scriptedPrompter struct {
	answers  []string
	err      error
	requests []types.SelectRequest
}

func (p *scriptedPrompter) Select(_ context.Context, request types.SelectRequest) (string, error) {
	p.requests = append(p.requests, request)
	if p.err != nil {
		return "", p.err
	}
	if len(p.answers) == 0 {
		return request.Wanted, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

type recordingReport struct {
	width    int
	groups   []string
	packages []types.PackageResult
}

func (r *recordingReport) Start(nameWidth int) error {
	r.width = nameWidth
	return nil
}

func (r *recordingReport) Group(name string) error {
	r.groups = append(r.groups, name)
	return nil
}

func (r *recordingReport) Package(result types.PackageResult) error {
	r.packages = append(r.packages, result)
	return nil
}

type recordingPackageManager struct {
	steps []string
}

func (p *recordingPackageManager) Install(_ context.Context, dir string, manager types.PackageManager) error {
	p.steps = append(p.steps, string(manager)+" install "+dir)
	return nil
}

func (p *recordingPackageManager) AuditFix(_ context.Context, dir string, manager types.PackageManager) error {
	p.steps = append(p.steps, string(manager)+" audit fix "+dir)
	return nil
}

func (p *recordingPackageManager) Dedupe(_ context.Context, dir string, manager types.PackageManager) error {
	p.steps = append(p.steps, string(manager)+" dedupe "+dir)
	return nil
}

type recordingCleanup struct {
	dirs []string
}

func (c *recordingCleanup) RemoveInstallState(_ context.Context, dir string) ([]string, error) {
	c.dirs = append(c.dirs, dir)
	return []string{"package-lock.json"}, nil
}

type memoryCatalogWriter struct {
	path     string
	catalogs []types.Catalog
}

func (w *memoryCatalogWriter) Write(path string, catalogs []types.Catalog) error {
	w.path = path
	w.catalogs = catalogs
	return nil
}
