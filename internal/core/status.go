package core

import "github.com/Jelmerro/nus/internal/types"

// ClassifyStatus buckets a decision. declared is the current version (the
// alias version for aliased entries, range operators allowed) and latest
// the version of the latest dist-tag.
func ClassifyStatus(declared string, decision types.Decision, policy string, latest string) types.Status {
	if decision.Failed || decision.Wanted == "" {
		return types.StatusFailed
	}
	wanted := decision.Wanted
	if SameVersion(declared, wanted) {
		if policy == types.DefaultPolicy {
			return types.StatusUnchanged
		}
		if wanted != latest {
			return types.StatusBlocked
		}
		// pinned by policy to exactly the latest release
		return types.StatusUnchanged
	}
	if wanted == latest {
		return types.StatusLatest
	}
	return types.StatusSemi
}
