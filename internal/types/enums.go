package types

type VersionType string

const (
	VersionTypeRegistry        VersionType = "registry"
	VersionTypeAliasedRegistry VersionType = "alias"
	VersionTypeGit             VersionType = "git"
	VersionTypeURL             VersionType = "url"
	VersionTypeFile            VersionType = "file"
)

func (t VersionType) IsRegistry() bool {
	return t == VersionTypeRegistry || t == VersionTypeAliasedRegistry
}

type Status string

const (
	StatusUnchanged Status = "unchanged"
	StatusBlocked   Status = "blocked"
	StatusSemi      Status = "semi"
	StatusLatest    Status = "latest"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

type AskScope string

const (
	AskScopeAll       AskScope = "all"
	AskScopeLatest    AskScope = "latest"
	AskScopeNonLatest AskScope = "nonlatest"
	AskScopeSemi      AskScope = "semi"
	AskScopeChanged   AskScope = "changed"
	AskScopeBlocked   AskScope = "blocked"
	AskScopeNone      AskScope = "none"
)

type FailureKind string

const (
	FailureNone                FailureKind = ""
	FailureCatalogQuery        FailureKind = "catalog-query-failed"
	FailureNoSatisfyingVersion FailureKind = "no-satisfying-version"
	FailureAgeBlocked          FailureKind = "age-blocked-regression"
)

type PackageManager string

const (
	PackageManagerNpm  PackageManager = "npm"
	PackageManagerPnpm PackageManager = "pnpm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerBun  PackageManager = "bun"
)
