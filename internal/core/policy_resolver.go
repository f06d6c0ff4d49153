package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/types"
)

type PolicyResolver struct {
	Catalog    ports.CatalogPort
	MinimumAge time.Duration
	Clock      func() time.Time
}

func NewPolicyResolver(catalog ports.CatalogPort, minimumAge time.Duration, clock func() time.Time) PolicyResolver {
	if clock == nil {
		clock = time.Now
	}
	return PolicyResolver{
		Catalog:    catalog,
		MinimumAge: minimumAge,
		Clock:      clock,
	}
}

// Resolve fetches the catalog for name and decides the next version. The
// catalog is returned so callers can offer its versions to the operator.
// Fetch failures become failed decisions, except cancellation, which is
// returned as an error so the run stops before anything is written.
func (r PolicyResolver) Resolve(ctx context.Context, name string, declared string, policy string) (types.Decision, types.Catalog, error) {
	if r.Catalog == nil {
		return failedDecision(types.FailureCatalogQuery, "no catalog source configured"), types.Catalog{}, nil
	}
	catalog, err := r.Catalog.Fetch(ctx, name)
	if err != nil {
		if canceled(ctx, err) {
			return types.Decision{}, types.Catalog{}, errbuilder.New().
				WithCode(errbuilder.CodeCanceled).
				WithMsg(fmt.Sprintf("resolving %s canceled", name)).
				WithCause(err)
		}
		return failedDecision(types.FailureCatalogQuery, errorReason(err)), types.Catalog{}, nil
	}
	decision := r.Decide(catalog, declared, policy)
	log.Ctx(ctx).Debug().
		Str("package", name).
		Str("policy", policy).
		Str("wanted", decision.Wanted).
		Str("newest", decision.Newest).
		Bool("failed", decision.Failed).
		Msg("policy resolved")
	return decision, catalog, nil
}

// Decide computes the age-gated wanted version and the unfiltered newest
// version for a policy against a fetched catalog.
func (r PolicyResolver) Decide(catalog types.Catalog, declared string, policy string) types.Decision {
	latest := catalog.Latest()
	if latest == "" {
		return failedDecision(types.FailureCatalogQuery, "registry reports no latest tag")
	}
	if catalog.ReleaseTimes == nil {
		return failedDecision(types.FailureCatalogQuery, "registry reports no release times")
	}
	clock := r.Clock
	if clock == nil {
		clock = time.Now
	}
	eligible := ageEligible(catalog, clock().Add(-r.MinimumAge))
	rangeValue := policyRange(policy, catalog.DistTags)

	cache := newVersionCache()
	wanted := bestSatisfying(rangeValue, eligible, cache)
	newest := bestSatisfying(rangeValue, catalog.Versions, cache)

	current := plainVersion(declared)
	if newest != "" && wanted != newest && (wanted == "" || cache.older(wanted, current)) {
		return types.Decision{
			Wanted:  wanted,
			Newest:  newest,
			Failed:  true,
			Failure: types.FailureAgeBlocked,
			Reason:  fmt.Sprintf("%s and newer are younger than %s", newest, formatAge(r.MinimumAge)),
		}
	}
	if wanted == "" {
		decision := failedDecision(types.FailureNoSatisfyingVersion, fmt.Sprintf("no version satisfies %s", policy))
		decision.Newest = newest
		return decision
	}
	return types.Decision{
		Wanted: wanted,
		Newest: newest,
	}
}

// ageEligible keeps versions published at or before the threshold. Versions
// without a release time are never eligible.
func ageEligible(catalog types.Catalog, threshold time.Time) []string {
	eligible := make([]string, 0, len(catalog.Versions))
	for _, version := range catalog.Versions {
		released, ok := catalog.ReleaseTimes[version]
		if !ok || released.IsZero() {
			continue
		}
		if released.After(threshold) {
			continue
		}
		eligible = append(eligible, version)
	}
	return eligible
}

// policyRange turns a dist-tag policy into an upper-bounded range and
// leaves every other policy untouched.
func policyRange(policy string, distTags map[string]string) string {
	if version, ok := distTags[policy]; ok && version != "" {
		return "<=" + version
	}
	return policy
}

func failedDecision(kind types.FailureKind, reason string) types.Decision {
	return types.Decision{
		Failed:  true,
		Failure: kind,
		Reason:  reason,
	}
}

func canceled(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errbuilder.CodeOf(err) == errbuilder.CodeCanceled || errors.Is(err, context.Canceled)
}

func errorReason(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

func formatAge(age time.Duration) string {
	if age%(24*time.Hour) == 0 && age > 0 {
		return fmt.Sprintf("%dd", int(age/(24*time.Hour)))
	}
	return age.String()
}
