package app

import "github.com/Jelmerro/nus/internal/types"

type UpdateResult struct {
	Results []types.PackageResult
	Changed int
	Failed  int
	Saved   bool
	Removed []string
}

type ExportRequest struct {
	Output string
}

type ExportResult struct {
	OutputPath string
	Packages   int
	Failed     []string
}
