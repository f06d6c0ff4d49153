package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/Jelmerro/nus/internal/types"
)

// VersionPolicy maps manifest entries to the policy they are resolved
// under. When several rules match, the one listed first wins.
type VersionPolicy struct {
	Rules           []types.PolicyRule
	exactByGroup    map[string]map[string]int
	exactAny        map[string]int
	prefixByGroup   map[string][]prefixPattern
	prefixAny       []prefixPattern
	wildcardByGroup map[string]int
	wildcardAny     int
}

func NewVersionPolicy(rules []types.PolicyRule) (VersionPolicy, error) {
	policy := VersionPolicy{
		wildcardAny: -1,
	}
	for _, rule := range rules {
		if strings.TrimSpace(rule.Policy) == "" {
			return VersionPolicy{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("override %q has an empty policy", rule.Match))
		}
		if _, ok := parsePattern(rule.Match); !ok {
			return VersionPolicy{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid override pattern %q", rule.Match))
		}
		policy.Rules = append(policy.Rules, types.PolicyRule{
			Match:  strings.TrimSpace(rule.Match),
			Policy: strings.TrimSpace(rule.Policy),
		})
	}
	policy.compile()
	return policy, nil
}

// PolicyFor returns the policy for a package in a dependency group, or the
// default policy when no rule matches.
func (p VersionPolicy) PolicyFor(group string, name string) string {
	best := -1
	if matches, ok := p.exactByGroup[group]; ok {
		if idx, found := matches[name]; found {
			best = minIndex(best, idx)
		}
	}
	if idx, found := p.exactAny[name]; found {
		best = minIndex(best, idx)
	}
	for _, entry := range p.prefixByGroup[group] {
		if strings.HasPrefix(name, entry.prefix) {
			best = minIndex(best, entry.ruleIndex)
		}
	}
	for _, entry := range p.prefixAny {
		if strings.HasPrefix(name, entry.prefix) {
			best = minIndex(best, entry.ruleIndex)
		}
	}
	if idx, found := p.wildcardByGroup[group]; found {
		best = minIndex(best, idx)
	}
	if p.wildcardAny >= 0 {
		best = minIndex(best, p.wildcardAny)
	}
	if best >= 0 && best < len(p.Rules) {
		return p.Rules[best].Policy
	}
	return types.DefaultPolicy
}

type prefixPattern struct {
	prefix    string
	ruleIndex int
}

type parsedPattern struct {
	group string
	kind  patternKind
	name  string
}

type patternKind int

const (
	patternExact patternKind = iota
	patternPrefix
	patternWildcard
	patternInvalid
)

func (p *VersionPolicy) compile() {
	p.exactByGroup = map[string]map[string]int{}
	p.exactAny = map[string]int{}
	p.prefixByGroup = map[string][]prefixPattern{}
	p.prefixAny = nil
	p.wildcardByGroup = map[string]int{}
	p.wildcardAny = -1
	for idx, rule := range p.Rules {
		parsed, ok := parsePattern(rule.Match)
		if !ok {
			continue
		}
		switch parsed.kind {
		case patternWildcard:
			p.storeWildcard(parsed.group, idx)
		case patternExact:
			p.storeExact(parsed.group, parsed.name, idx)
		case patternPrefix:
			p.storePrefix(parsed.group, parsed.name, idx)
		}
	}
}

func (p *VersionPolicy) storeExact(group string, name string, index int) {
	if group == "" {
		if _, ok := p.exactAny[name]; !ok {
			p.exactAny[name] = index
		}
		return
	}
	if p.exactByGroup[group] == nil {
		p.exactByGroup[group] = map[string]int{}
	}
	if _, ok := p.exactByGroup[group][name]; !ok {
		p.exactByGroup[group][name] = index
	}
}

func (p *VersionPolicy) storePrefix(group string, prefix string, index int) {
	entry := prefixPattern{prefix: prefix, ruleIndex: index}
	if group == "" {
		p.prefixAny = append(p.prefixAny, entry)
		return
	}
	p.prefixByGroup[group] = append(p.prefixByGroup[group], entry)
}

func (p *VersionPolicy) storeWildcard(group string, index int) {
	if group == "" {
		if p.wildcardAny < 0 {
			p.wildcardAny = index
		}
		return
	}
	if _, ok := p.wildcardByGroup[group]; !ok {
		p.wildcardByGroup[group] = index
	}
}

func parsePattern(pattern string) (parsedPattern, bool) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return parsedPattern{kind: patternInvalid}, false
	}
	if trimmed == "*" {
		return parsedPattern{kind: patternWildcard}, true
	}
	parts := strings.SplitN(trimmed, ":", 2)
	if len(parts) == 2 {
		group, ok := parseGroup(parts[0])
		if !ok {
			return parsedPattern{kind: patternInvalid}, false
		}
		name, kind := parseNamePattern(parts[1])
		if kind == patternInvalid {
			return parsedPattern{kind: patternInvalid}, false
		}
		return parsedPattern{group: group, kind: kind, name: name}, true
	}
	name, kind := parseNamePattern(trimmed)
	if kind == patternInvalid {
		return parsedPattern{kind: patternInvalid}, false
	}
	return parsedPattern{kind: kind, name: name}, true
}

func parseGroup(token string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "dependencies", "deps", "prod":
		return "dependencies", true
	case "devdependencies", "dev":
		return "devDependencies", true
	case "optionaldependencies", "optional":
		return "optionalDependencies", true
	case "peerdependencies", "peer":
		return "peerDependencies", true
	default:
		return "", false
	}
}

func parseNamePattern(value string) (string, patternKind) {
	pattern := strings.TrimSpace(value)
	if pattern == "" {
		return "", patternInvalid
	}
	if pattern == "*" {
		return "", patternWildcard
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.TrimSuffix(pattern, "*"), patternPrefix
	}
	return pattern, patternExact
}

func minIndex(current int, candidate int) int {
	if candidate < 0 {
		return current
	}
	if current < 0 || candidate < current {
		return candidate
	}
	return current
}
