package ports

import (
	"context"

	"github.com/Jelmerro/nus/internal/types"
)

type PackageManagerPort interface {
	Install(ctx context.Context, dir string, manager types.PackageManager) error
	AuditFix(ctx context.Context, dir string, manager types.PackageManager) error
	Dedupe(ctx context.Context, dir string, manager types.PackageManager) error
}

type CleanupPort interface {
	RemoveInstallState(ctx context.Context, dir string) ([]string, error)
}
