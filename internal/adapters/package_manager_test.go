package adapters

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jelmerro/nus/internal/types"
)

type recordedCommand struct {
	dir  string
	name string
	args []string
}

func recordingRunner(calls *[]recordedCommand, err error) CommandRunner {
	return func(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, recordedCommand{dir: dir, name: name, args: args})
		if err != nil {
			return []byte("npm ERR! boom\n"), err
		}
		return nil, nil
	}
}

func TestPackageManagerAdapterCommands(t *testing.T) {
	tests := []struct {
		name     string
		manager  types.PackageManager
		expected []recordedCommand
	}{
		{
			name:    "npm",
			manager: types.PackageManagerNpm,
			expected: []recordedCommand{
				{dir: "/project", name: "npm", args: []string{"install"}},
				{dir: "/project", name: "npm", args: []string{"audit", "fix"}},
				{dir: "/project", name: "npm", args: []string{"dedupe"}},
			},
		},
		{
			name:    "pnpm",
			manager: types.PackageManagerPnpm,
			expected: []recordedCommand{
				{dir: "/project", name: "pnpm", args: []string{"install"}},
				{dir: "/project", name: "pnpm", args: []string{"audit", "--fix"}},
				{dir: "/project", name: "pnpm", args: []string{"dedupe"}},
			},
		},
		{
			name:    "bun skips unsupported steps",
			manager: types.PackageManagerBun,
			expected: []recordedCommand{
				{dir: "/project", name: "bun", args: []string{"install"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []recordedCommand
			adapter := PackageManagerAdapter{Run: recordingRunner(&calls, nil)}
			ctx := t.Context()
			require.NoError(t, adapter.Install(ctx, "/project", tt.manager))
			require.NoError(t, adapter.AuditFix(ctx, "/project", tt.manager))
			require.NoError(t, adapter.Dedupe(ctx, "/project", tt.manager))
			assert.Equal(t, tt.expected, calls)
		})
	}
}

func TestPackageManagerAdapterErrors(t *testing.T) {
	var calls []recordedCommand
	adapter := PackageManagerAdapter{Run: recordingRunner(&calls, errors.New("exit status 1"))}

	err := adapter.Install(t.Context(), ".", types.PackageManagerNpm)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "npm install failed")

	err = adapter.Install(t.Context(), ".", types.PackageManager("pip"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestCleanupAdapterRemovesInstallState(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package-lock.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), []byte(""), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "react"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))

	removed, err := NewCleanupAdapter().RemoveInstallState(t.Context(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"package-lock.json", "yarn.lock", "node_modules"}, removed)

	_, err = os.Stat(filepath.Join(dir, "node_modules"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(filepath.Join(dir, "package.json"))
	assert.NoError(t, err)
}
