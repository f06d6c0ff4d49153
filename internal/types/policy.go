package types

// PolicyRule pins packages matching Match to Policy. Match is an exact
// name, a prefix ending in "*", or "*", optionally qualified by a
// dependency group ("devDependencies:eslint*").
type PolicyRule struct {
	Match  string `mapstructure:"match" yaml:"match"`
	Policy string `mapstructure:"policy" yaml:"policy"`
}
