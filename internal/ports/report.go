package ports

import "github.com/Jelmerro/nus/internal/types"

// ReportPort receives results in manifest order as they are decided.
// Start is called once, before any group, with the width names are
// padded to.
type ReportPort interface {
	Start(nameWidth int) error
	Group(name string) error
	Package(result types.PackageResult) error
}
