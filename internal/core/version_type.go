package core

import (
	"strings"

	"github.com/Jelmerro/nus/internal/types"
)

const (
	aliasMarker = "npm:"
	scopeMarker = "@"
	fileScheme  = "file:"
)

// Classification is the lexical reading of a declared version.
type Classification struct {
	Type         types.VersionType
	AliasTarget  string
	AliasVersion string
}

// ClassifyVersion decides how a manifest entry is resolved from the shape
// of its name and declared version alone. Alias detection comes before the
// path separator check so "npm:@scope/pkg@1.0.0" stays a registry alias.
func ClassifyVersion(name string, declared string) Classification {
	if strings.HasPrefix(declared, aliasMarker) {
		stripped := strings.TrimPrefix(declared, aliasMarker)
		at := strings.LastIndex(stripped, "@")
		if at < 0 {
			return Classification{
				Type:        types.VersionTypeAliasedRegistry,
				AliasTarget: stripped,
			}
		}
		return Classification{
			Type:         types.VersionTypeAliasedRegistry,
			AliasTarget:  stripped[:at],
			AliasVersion: stripped[at+1:],
		}
	}
	if (strings.Contains(name, "/") || strings.Contains(declared, "/")) && !strings.HasPrefix(name, scopeMarker) {
		switch {
		case strings.HasPrefix(declared, "http://"), strings.HasPrefix(declared, "https://"):
			return Classification{Type: types.VersionTypeURL}
		case strings.HasPrefix(declared, fileScheme):
			return Classification{Type: types.VersionTypeFile}
		default:
			return Classification{Type: types.VersionTypeGit}
		}
	}
	return Classification{Type: types.VersionTypeRegistry}
}

// QueryName is the package name the registry knows this entry by.
func (c Classification) QueryName(name string) string {
	if c.Type == types.VersionTypeAliasedRegistry {
		return c.AliasTarget
	}
	return name
}

// CurrentVersion is the version part of the declared string.
func (c Classification) CurrentVersion(declared string) string {
	if c.Type == types.VersionTypeAliasedRegistry {
		return c.AliasVersion
	}
	return declared
}

// Render writes a resolved version back in the declared shape.
func (c Classification) Render(version string) string {
	if c.Type == types.VersionTypeAliasedRegistry {
		return aliasMarker + c.AliasTarget + "@" + version
	}
	return version
}

// ApplyCommitish replaces the commit-ish of a git reference. The new value
// is not validated.
func ApplyCommitish(declared string, commitish string) string {
	ref := strings.TrimPrefix(commitish, "#")
	base := declared
	if hash := strings.Index(base, "#"); hash >= 0 {
		base = base[:hash]
	}
	return base + "#" + ref
}
