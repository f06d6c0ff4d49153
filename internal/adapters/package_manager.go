package adapters

import (
	"context"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/shared"
	"github.com/Jelmerro/nus/internal/types"
)

type packageManagerStep string

const (
	stepInstall  packageManagerStep = "install"
	stepAuditFix packageManagerStep = "audit fix"
	stepDedupe   packageManagerStep = "dedupe"
)

// A nil argument list marks a step the package manager has no command for.
var packageManagerCommands = map[types.PackageManager]map[packageManagerStep][]string{
	types.PackageManagerNpm: {
		stepInstall:  {"install"},
		stepAuditFix: {"audit", "fix"},
		stepDedupe:   {"dedupe"},
	},
	types.PackageManagerPnpm: {
		stepInstall:  {"install"},
		stepAuditFix: {"audit", "--fix"},
		stepDedupe:   {"dedupe"},
	},
	types.PackageManagerYarn: {
		stepInstall:  {"install"},
		stepAuditFix: nil,
		stepDedupe:   {"dedupe"},
	},
	types.PackageManagerBun: {
		stepInstall:  {"install"},
		stepAuditFix: nil,
		stepDedupe:   nil,
	},
}

type CommandRunner func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

type PackageManagerAdapter struct {
	Run CommandRunner
}

func NewPackageManagerAdapter() PackageManagerAdapter {
	return PackageManagerAdapter{Run: execRunner}
}

func (a PackageManagerAdapter) Install(ctx context.Context, dir string, manager types.PackageManager) error {
	return a.run(ctx, dir, manager, stepInstall)
}

func (a PackageManagerAdapter) AuditFix(ctx context.Context, dir string, manager types.PackageManager) error {
	return a.run(ctx, dir, manager, stepAuditFix)
}

func (a PackageManagerAdapter) Dedupe(ctx context.Context, dir string, manager types.PackageManager) error {
	return a.run(ctx, dir, manager, stepDedupe)
}

func (a PackageManagerAdapter) run(ctx context.Context, dir string, manager types.PackageManager, step packageManagerStep) error {
	commands, ok := packageManagerCommands[manager]
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown package manager: " + string(manager))
	}
	args := commands[step]
	if args == nil {
		log.Ctx(ctx).Warn().
			Str("package_manager", string(manager)).
			Str("step", string(step)).
			Msg("step not supported by package manager, skipping")
		return nil
	}
	runner := a.Run
	if runner == nil {
		runner = execRunner
	}
	log.Ctx(ctx).Info().
		Str("dir", dir).
		Msgf("running %s %s", manager, strings.Join(args, " "))
	output, err := runner(ctx, dir, string(manager), args...)
	if err != nil {
		if ctx.Err() != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeCanceled).
				WithMsg(string(manager) + " " + string(step) + " canceled").
				WithCause(ctx.Err())
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(string(manager) + " " + string(step) + " failed").
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

var _ ports.PackageManagerPort = PackageManagerAdapter{}
