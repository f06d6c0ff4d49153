package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Jelmerro/nus/internal/adapters"
	"github.com/Jelmerro/nus/internal/app"
	"github.com/Jelmerro/nus/internal/core"
	"github.com/Jelmerro/nus/internal/types"
)

type runOptions struct {
	Manifest         string
	MinimumAge       string
	Ask              string
	Overrides        []string
	Registry         string
	RegistryToken    string
	CatalogFile      string
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
	PrefetchWorkers  int
	Install          bool
	Audit            bool
	Dedupe           bool
	Clean            bool
	PackageManager   string
	DryRun           bool
	Indent           string
}

// addRunFlags registers the flags shared by every command as persistent
// flags on the root, each bound to its config key.
func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Manifest, "manifest", app.DefaultManifestPath, "Path to package.json")
	flags.StringVar(&opts.MinimumAge, "minimum-age", "", "Minimum release age before a version is adopted (e.g. 7d, 72h)")
	flags.StringVar(&opts.Ask, "ask", string(types.AskScopeNone), "Prompt for: all, latest, nonlatest, semi, changed, blocked, none")
	flags.StringArrayVar(&opts.Overrides, "override", nil, "Version policy override as pattern=policy (repeatable)")
	flags.StringVar(&opts.Registry, "registry", adapters.DefaultRegistryURL, "npm registry base URL")
	flags.StringVar(&opts.RegistryToken, "registry-token", "", "Bearer token for the registry")
	flags.StringVar(&opts.CatalogFile, "catalog-file", "", "Resolve from a catalog snapshot file instead of the registry")
	flags.IntVar(&opts.HTTPTimeoutSec, "http-timeout", 60, "HTTP timeout in seconds (0 = default)")
	flags.IntVar(&opts.HTTPRetries, "http-retries", 3, "HTTP retries (0 = default)")
	flags.IntVar(&opts.HTTPRetryDelayMs, "http-retry-delay-ms", 200, "HTTP retry base delay in ms (0 = default)")
	flags.IntVar(&opts.PrefetchWorkers, "prefetch-workers", 0, "Fetch catalogs concurrently before resolving (0 = off)")
	flags.BoolVar(&opts.Install, "install", false, "Run install after updating the manifest")
	flags.BoolVar(&opts.Audit, "audit", false, "Run audit fix after install")
	flags.BoolVar(&opts.Dedupe, "dedupe", false, "Run dedupe after install")
	flags.BoolVar(&opts.Clean, "clean", false, "Remove lock files and node_modules, then install")
	flags.StringVar(&opts.PackageManager, "package-manager", string(types.PackageManagerNpm), "Package manager: npm, pnpm, yarn, bun")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Report without writing the manifest or running the package manager")
	flags.StringVar(&opts.Indent, "indent", "", "Manifest indent: number of spaces or tab (empty = detect)")

	_ = viper.BindPFlag("manifest", flags.Lookup("manifest"))
	_ = viper.BindPFlag("minimum_age", flags.Lookup("minimum-age"))
	_ = viper.BindPFlag("ask", flags.Lookup("ask"))
	_ = viper.BindPFlag("registry", flags.Lookup("registry"))
	_ = viper.BindPFlag("registry_token", flags.Lookup("registry-token"))
	_ = viper.BindPFlag("catalog_file", flags.Lookup("catalog-file"))
	_ = viper.BindPFlag("http_timeout", flags.Lookup("http-timeout"))
	_ = viper.BindPFlag("http_retries", flags.Lookup("http-retries"))
	_ = viper.BindPFlag("http_retry_delay_ms", flags.Lookup("http-retry-delay-ms"))
	_ = viper.BindPFlag("prefetch_workers", flags.Lookup("prefetch-workers"))
	_ = viper.BindPFlag("install", flags.Lookup("install"))
	_ = viper.BindPFlag("audit", flags.Lookup("audit"))
	_ = viper.BindPFlag("dedupe", flags.Lookup("dedupe"))
	_ = viper.BindPFlag("clean", flags.Lookup("clean"))
	_ = viper.BindPFlag("package_manager", flags.Lookup("package-manager"))
	_ = viper.BindPFlag("dry_run", flags.Lookup("dry-run"))
	_ = viper.BindPFlag("indent", flags.Lookup("indent"))
}

// buildConfig merges flags, environment and config file into the
// immutable run configuration.
func buildConfig(cmd *cobra.Command, opts runOptions) (app.Config, error) {
	minimumAge, err := app.ParseMinimumAge(resolveString(cmd, opts.MinimumAge, "minimum_age", "minimum-age"))
	if err != nil {
		return app.Config{}, err
	}
	ask, err := core.ParseAskScope(resolveString(cmd, opts.Ask, "ask", "ask"))
	if err != nil {
		return app.Config{}, err
	}
	manager, err := app.ParsePackageManager(resolveString(cmd, opts.PackageManager, "package_manager", "package-manager"))
	if err != nil {
		return app.Config{}, err
	}
	indent, err := app.ParseIndent(resolveString(cmd, opts.Indent, "indent", "indent"))
	if err != nil {
		return app.Config{}, err
	}
	overrides, err := resolveOverrides(cmd, opts.Overrides)
	if err != nil {
		return app.Config{}, err
	}
	cfg := app.Config{
		ManifestPath:    resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		MinimumAge:      minimumAge,
		Ask:             ask,
		Overrides:       overrides,
		Registry:        resolveString(cmd, opts.Registry, "registry", "registry"),
		RegistryToken:   resolveString(cmd, opts.RegistryToken, "registry_token", "registry-token"),
		CatalogFile:     resolveString(cmd, opts.CatalogFile, "catalog_file", "catalog-file"),
		HTTPTimeout:     time.Duration(resolveInt(cmd, opts.HTTPTimeoutSec, "http_timeout", "http-timeout")) * time.Second,
		HTTPRetries:     resolveInt(cmd, opts.HTTPRetries, "http_retries", "http-retries"),
		HTTPRetryDelay:  time.Duration(resolveInt(cmd, opts.HTTPRetryDelayMs, "http_retry_delay_ms", "http-retry-delay-ms")) * time.Millisecond,
		PrefetchWorkers: resolveInt(cmd, opts.PrefetchWorkers, "prefetch_workers", "prefetch-workers"),
		Install:         resolveBool(cmd, opts.Install, "install", "install"),
		Audit:           resolveBool(cmd, opts.Audit, "audit", "audit"),
		Dedupe:          resolveBool(cmd, opts.Dedupe, "dedupe", "dedupe"),
		Clean:           resolveBool(cmd, opts.Clean, "clean", "clean"),
		PackageManager:  manager,
		DryRun:          resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
		Indent:          indent,
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = app.DefaultManifestPath
	}
	return cfg, cfg.Validate()
}

// resolveOverrides reads --override pattern=policy flags, or the
// "overrides" list of {match, policy} from the config file.
func resolveOverrides(cmd *cobra.Command, values []string) ([]types.PolicyRule, error) {
	if cmd == nil || flagChanged(cmd, "override") {
		return parseOverrideFlags(values)
	}
	var rules []types.PolicyRule
	if err := viper.UnmarshalKey("overrides", &rules); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid overrides in config").
			WithCause(err)
	}
	return rules, nil
}

func parseOverrideFlags(values []string) ([]types.PolicyRule, error) {
	rules := make([]types.PolicyRule, 0, len(values))
	for _, value := range values {
		match, policy, ok := strings.Cut(value, "=")
		if !ok || strings.TrimSpace(match) == "" || strings.TrimSpace(policy) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid override %q, expected pattern=policy", value))
		}
		rules = append(rules, types.PolicyRule{
			Match:  strings.TrimSpace(match),
			Policy: strings.TrimSpace(policy),
		})
	}
	return rules, nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
