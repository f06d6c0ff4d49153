package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/Jelmerro/nus/internal/types"
)

const DefaultManifestPath = "package.json"

// Config is built once at startup and passed by value to every use case.
type Config struct {
	ManifestPath    string
	MinimumAge      time.Duration
	Ask             types.AskScope
	Overrides       []types.PolicyRule
	Registry        string
	RegistryToken   string
	CatalogFile     string
	HTTPTimeout     time.Duration
	HTTPRetries     int
	HTTPRetryDelay  time.Duration
	PrefetchWorkers int
	Install         bool
	Audit           bool
	Dedupe          bool
	Clean           bool
	PackageManager  types.PackageManager
	DryRun          bool
	Indent          string
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ManifestPath) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	if c.MinimumAge < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("minimum age must not be negative")
	}
	switch c.Ask {
	case types.AskScopeAll, types.AskScopeLatest, types.AskScopeNonLatest, types.AskScopeSemi,
		types.AskScopeChanged, types.AskScopeBlocked, types.AskScopeNone:
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown ask scope %q", c.Ask))
	}
	if _, err := ParsePackageManager(string(c.PackageManager)); err != nil {
		return err
	}
	if c.PrefetchWorkers < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("prefetch workers must not be negative")
	}
	if c.HTTPRetries < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("http retries must not be negative")
	}
	return nil
}

// ParseMinimumAge accepts Go durations ("72h", "90m") and whole days ("7d").
// An empty value means no age gating.
func ParseMinimumAge(value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "0" {
		return 0, nil
	}
	if days, ok := strings.CutSuffix(trimmed, "d"); ok {
		count, err := strconv.Atoi(days)
		if err == nil && count >= 0 {
			return time.Duration(count) * 24 * time.Hour, nil
		}
	}
	age, err := time.ParseDuration(trimmed)
	if err != nil || age < 0 {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid minimum age %q", value))
	}
	return age, nil
}

// ParseIndent turns the configured indent into the literal string used in
// the manifest. Empty keeps the indent detected in the file.
func ParseIndent(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "":
		if value != "" && strings.Trim(value, " \t") == "" {
			return value, nil
		}
		return "", nil
	case "tab", "\\t":
		return "\t", nil
	}
	count, err := strconv.Atoi(trimmed)
	if err != nil || count < 1 || count > 8 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid indent %q", value))
	}
	return strings.Repeat(" ", count), nil
}

func ParsePackageManager(value string) (types.PackageManager, error) {
	switch manager := types.PackageManager(strings.ToLower(strings.TrimSpace(value))); manager {
	case "":
		return types.PackageManagerNpm, nil
	case types.PackageManagerNpm, types.PackageManagerPnpm, types.PackageManagerYarn, types.PackageManagerBun:
		return manager, nil
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unknown package manager %q", value))
}
