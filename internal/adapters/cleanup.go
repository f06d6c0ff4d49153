package adapters

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/Jelmerro/nus/internal/ports"
)

// Install state removed before a clean install, in removal order.
var installStateEntries = []string{
	"package-lock.json",
	"npm-shrinkwrap.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"bun.lockb",
	"bun.lock",
	"node_modules",
}

type CleanupAdapter struct{}

func NewCleanupAdapter() CleanupAdapter {
	return CleanupAdapter{}
}

func (CleanupAdapter) RemoveInstallState(ctx context.Context, dir string) ([]string, error) {
	var removed []string
	for _, entry := range installStateEntries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		path := filepath.Join(dir, entry)
		if _, err := os.Lstat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to inspect " + entry).
				WithCause(err)
		}
		if err := os.RemoveAll(path); err != nil {
			return removed, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to remove " + entry).
				WithCause(err)
		}
		removed = append(removed, entry)
	}
	return removed, nil
}

var _ ports.CleanupPort = CleanupAdapter{}
