package core

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// versionCache memoizes parsed versions and ranges so that a catalog with
// hundreds of versions is parsed once per resolution.
type versionCache struct {
	versions map[string]*semver.Version
	ranges   map[string]*semver.Constraints
	invalid  map[string]struct{}
}

func newVersionCache() *versionCache {
	return &versionCache{
		versions: map[string]*semver.Version{},
		ranges:   map[string]*semver.Constraints{},
		invalid:  map[string]struct{}{},
	}
}

// version returns a parsed semantic version, caching the result.
func (c *versionCache) version(value string) (*semver.Version, error) {
	if parsed, ok := c.versions[value]; ok {
		return parsed, nil
	}
	parsed, err := semver.NewVersion(value)
	if err != nil {
		return nil, err
	}
	c.versions[value] = parsed
	return parsed, nil
}

// constraint returns a parsed range, caching both hits and misses.
func (c *versionCache) constraint(value string) (*semver.Constraints, bool) {
	if parsed, ok := c.ranges[value]; ok {
		return parsed, true
	}
	if _, bad := c.invalid[value]; bad {
		return nil, false
	}
	parsed, err := semver.NewConstraint(value)
	if err != nil {
		c.invalid[value] = struct{}{}
		return nil, false
	}
	c.ranges[value] = parsed
	return parsed, true
}

// compare returns -1, 0, or 1 comparing two version strings. Returns 0 on
// parse errors.
func (c *versionCache) compare(a string, b string) int {
	v1, err := c.version(a)
	if err != nil {
		return 0
	}
	v2, err := c.version(b)
	if err != nil {
		return 0
	}
	return v1.Compare(v2)
}

// older reports whether a is semver-older than b. Unparseable input is
// never older.
func (c *versionCache) older(a string, b string) bool {
	return c.compare(a, b) < 0
}

// bestSatisfying returns the highest candidate satisfying the range, or ""
// when none does. A candidate equal to the range string wins outright,
// which keeps literal versions usable even when they do not parse as a
// range.
func bestSatisfying(rangeValue string, candidates []string, cache *versionCache) string {
	for _, candidate := range candidates {
		if candidate == rangeValue {
			return candidate
		}
	}
	constraint, ok := cache.constraint(rangeValue)
	if !ok {
		return ""
	}
	best := ""
	var bestVersion *semver.Version
	for _, candidate := range candidates {
		parsed, err := cache.version(candidate)
		if err != nil {
			continue
		}
		if !constraint.Check(parsed) {
			continue
		}
		if bestVersion == nil || parsed.GreaterThan(bestVersion) {
			best = candidate
			bestVersion = parsed
		}
	}
	return best
}

// plainVersion strips range operators from a declared version so it can be
// compared with catalog versions ("^1.2.3" -> "1.2.3").
// SameVersion reports whether a declared value names version once range
// operators and a leading v are stripped, so "^18.3.1" names 18.3.1.
func SameVersion(declared string, version string) bool {
	return plainVersion(declared) == version
}

func plainVersion(declared string) string {
	return strings.TrimLeft(strings.TrimSpace(declared), "^~=v ")
}
