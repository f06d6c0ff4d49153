package types

type Decision struct {
	Wanted  string
	Newest  string
	Failed  bool
	Failure FailureKind
	Reason  string
}

// PackageResult is everything the report needs about one manifest entry.
type PackageResult struct {
	Group    string
	Name     string
	Type     VersionType
	Declared string
	Updated  string
	Policy   string
	Latest   string
	Decision Decision
	Status   Status
	Prompted bool
}

func (r PackageResult) Changed() bool {
	return r.Updated != "" && r.Updated != r.Declared
}

type SelectRequest struct {
	Name     string
	Versions []string
	Wanted   string
}
