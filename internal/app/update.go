package app

import (
	"context"
	"path/filepath"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/Jelmerro/nus/internal/adapters"
	"github.com/Jelmerro/nus/internal/core"
	"github.com/Jelmerro/nus/internal/policies"
	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/types"
)

// Update resolves every manifest entry in order, prompting where the ask
// scope says so, and writes the manifest once at the end. An interrupted
// prompt or a canceled context returns before anything is written.
func (s Service) Update(ctx context.Context, cfg Config) (UpdateResult, error) {
	if err := cfg.Validate(); err != nil {
		return UpdateResult{}, err
	}
	policy, err := policies.NewVersionPolicy(cfg.Overrides)
	if err != nil {
		return UpdateResult{}, err
	}
	manifest, err := s.Manifest.Load(cfg.ManifestPath)
	if err != nil {
		return UpdateResult{}, err
	}
	assert.NotEmpty(ctx, manifest.Path, "loaded manifest must carry its path")
	if cfg.Indent != "" {
		manifest.Indent = cfg.Indent
	}

	catalog, err := s.prepareCatalog(ctx, cfg, manifest)
	if err != nil {
		return UpdateResult{}, err
	}
	resolver := core.NewPolicyResolver(catalog, cfg.MinimumAge, s.Clock)

	if err := s.Report.Start(manifest.LongestName()); err != nil {
		return UpdateResult{}, err
	}
	var result UpdateResult
	for g := range manifest.Groups {
		group := &manifest.Groups[g]
		if err := s.Report.Group(group.Name); err != nil {
			return UpdateResult{}, err
		}
		for i := range group.Entries {
			entry := &group.Entries[i]
			outcome, err := s.processEntry(ctx, cfg, resolver, policy, group.Name, *entry)
			if err != nil {
				return UpdateResult{}, err
			}
			if err := ctx.Err(); err != nil {
				return UpdateResult{}, errbuilder.New().
					WithCode(errbuilder.CodeCanceled).
					WithMsg("update interrupted").
					WithCause(err)
			}
			if outcome.Changed() {
				entry.Declared = outcome.Updated
				result.Changed++
			}
			if outcome.Status == types.StatusFailed {
				result.Failed++
			}
			result.Results = append(result.Results, outcome)
			if err := s.Report.Package(outcome); err != nil {
				return UpdateResult{}, err
			}
		}
	}

	log.Ctx(ctx).Info().
		Int("packages", len(result.Results)).
		Int("changed", result.Changed).
		Int("failed", result.Failed).
		Bool("dry_run", cfg.DryRun).
		Msg("resolution finished")
	if cfg.DryRun {
		return result, nil
	}
	if result.Changed > 0 {
		if err := s.Manifest.Save(manifest); err != nil {
			return result, err
		}
		result.Saved = true
	}
	removed, err := s.runPackageManager(ctx, cfg, filepath.Dir(manifest.Path))
	result.Removed = removed
	return result, err
}

// Check reports what Update would do without prompting, writing or
// running the package manager.
func (s Service) Check(ctx context.Context, cfg Config) (UpdateResult, error) {
	cfg.DryRun = true
	cfg.Ask = types.AskScopeNone
	cfg.Install = false
	cfg.Audit = false
	cfg.Dedupe = false
	cfg.Clean = false
	return s.Update(ctx, cfg)
}

func (s Service) processEntry(
	ctx context.Context,
	cfg Config,
	resolver core.PolicyResolver,
	policy policies.VersionPolicy,
	group string,
	entry types.ManifestEntry,
) (types.PackageResult, error) {
	class := core.ClassifyVersion(entry.Name, entry.Declared)
	policyValue := policy.PolicyFor(group, entry.Name)
	assert.NotEmpty(ctx, policyValue, "policy lookup must fall back to the default")
	result := types.PackageResult{
		Group:    group,
		Name:     entry.Name,
		Type:     class.Type,
		Declared: entry.Declared,
		Policy:   policyValue,
		Updated:  entry.Declared,
		Status:   types.StatusSkipped,
	}
	if !class.Type.IsRegistry() {
		if class.Type == types.VersionTypeGit && policyValue != types.DefaultPolicy {
			result.Updated = core.ApplyCommitish(entry.Declared, policyValue)
		}
		return result, nil
	}

	current := class.CurrentVersion(entry.Declared)
	decision, catalog, err := resolver.Resolve(ctx, class.QueryName(entry.Name), current, policyValue)
	if err != nil {
		return types.PackageResult{}, err
	}
	result.Latest = catalog.Latest()
	result.Decision = decision
	result.Status = core.ClassifyStatus(current, decision, policyValue, result.Latest)
	if result.Status == types.StatusFailed {
		return result, nil
	}

	chosen := decision.Wanted
	if s.Prompter != nil && core.ShouldAsk(cfg.Ask, result.Status) {
		picked, err := s.Prompter.Select(ctx, types.SelectRequest{
			Name:     entry.Name,
			Versions: catalog.Versions,
			Wanted:   chosen,
		})
		if err != nil {
			return types.PackageResult{}, err
		}
		result.Prompted = true
		if picked != "" && picked != chosen {
			chosen = picked
			result.Decision.Wanted = picked
			result.Status = core.ClassifyStatus(current, result.Decision, policyValue, result.Latest)
		}
	}
	if !core.SameVersion(current, chosen) {
		result.Updated = class.Render(chosen)
	}
	log.Ctx(ctx).Debug().
		Str("package", entry.Name).
		Str("status", string(result.Status)).
		Str("updated", result.Updated).
		Msg("package decided")
	return result, nil
}

// prepareCatalog picks the catalog source and, when workers are
// configured, fetches every registry package up front.
func (s Service) prepareCatalog(ctx context.Context, cfg Config, manifest types.Manifest) (ports.CatalogPort, error) {
	catalog := s.catalogFor(cfg)
	if cfg.PrefetchWorkers <= 0 {
		return catalog, nil
	}
	prefetch := adapters.NewPrefetchingCatalog(catalog, cfg.PrefetchWorkers)
	if err := prefetch.Prefetch(ctx, registryNames(manifest)); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeCanceled).
			WithMsg("catalog prefetch canceled").
			WithCause(err)
	}
	return prefetch, nil
}

func (s Service) runPackageManager(ctx context.Context, cfg Config, dir string) ([]string, error) {
	var removed []string
	if cfg.Clean && s.Cleanup != nil {
		var err error
		removed, err = s.Cleanup.RemoveInstallState(ctx, dir)
		if err != nil {
			return removed, err
		}
		log.Ctx(ctx).Info().Strs("removed", removed).Msg("install state removed")
	}
	if s.PackageManager == nil {
		return removed, nil
	}
	if cfg.Install || cfg.Clean {
		if err := s.PackageManager.Install(ctx, dir, cfg.PackageManager); err != nil {
			return removed, err
		}
	}
	if cfg.Audit {
		if err := s.PackageManager.AuditFix(ctx, dir, cfg.PackageManager); err != nil {
			return removed, err
		}
	}
	if cfg.Dedupe {
		if err := s.PackageManager.Dedupe(ctx, dir, cfg.PackageManager); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// registryNames lists the registry query names of a manifest, aliases
// resolved to their target, without duplicates and in manifest order.
func registryNames(manifest types.Manifest) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, group := range manifest.Groups {
		for _, entry := range group.Entries {
			class := core.ClassifyVersion(entry.Name, entry.Declared)
			if !class.Type.IsRegistry() {
				continue
			}
			name := class.QueryName(entry.Name)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
