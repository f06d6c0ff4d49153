package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/Jelmerro/nus/internal/types"
)

var askTriggers = map[types.AskScope]map[types.Status]struct{}{
	types.AskScopeAll: {
		types.StatusUnchanged: {},
		types.StatusBlocked:   {},
		types.StatusSemi:      {},
		types.StatusLatest:    {},
	},
	types.AskScopeBlocked:   {types.StatusBlocked: {}},
	types.AskScopeSemi:      {types.StatusSemi: {}},
	types.AskScopeLatest:    {types.StatusLatest: {}},
	types.AskScopeNonLatest: {types.StatusBlocked: {}, types.StatusSemi: {}},
	types.AskScopeChanged:   {types.StatusSemi: {}, types.StatusLatest: {}},
	types.AskScopeNone:      {},
}

// ShouldAsk reports whether the selector runs for a package with the given
// status. Failed and skipped packages never prompt.
func ShouldAsk(scope types.AskScope, status types.Status) bool {
	triggers, ok := askTriggers[scope]
	if !ok {
		return false
	}
	_, hit := triggers[status]
	return hit
}

// ParseAskScope accepts the scope names case-insensitively, with "non-latest"
// as a spelling of "nonlatest" and an empty value meaning none.
func ParseAskScope(value string) (types.AskScope, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "_", "")
	if normalized == "" {
		return types.AskScopeNone, nil
	}
	scope := types.AskScope(normalized)
	if _, ok := askTriggers[scope]; !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown ask scope %q", value))
	}
	return scope, nil
}
