package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Jelmerro/nus/internal/app"
	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/terminal"
	"github.com/Jelmerro/nus/internal/types"
)

func newUpdateCommand(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Resolve and write new dependency versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd.Context(), cmd, *opts)
		},
	}
}

func runUpdate(ctx context.Context, cmd *cobra.Command, opts runOptions) error {
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}
	service := app.NewService(cmd.OutOrStdout(), newPrompter(ctx, cfg.Ask))
	result, err := service.Update(ctx, cfg)
	if err != nil {
		return err
	}
	logSummary(ctx, result)
	return nil
}

// newPrompter returns nil when prompting is off or stdin is not a
// terminal, in which case every package keeps its resolved version.
func newPrompter(ctx context.Context, scope types.AskScope) ports.PrompterPort {
	if scope == types.AskScopeNone {
		return nil
	}
	if !terminal.IsInteractive(os.Stdin) {
		log.Ctx(ctx).Warn().
			Str("ask", string(scope)).
			Msg("stdin is not a terminal, prompts disabled")
		return nil
	}
	return terminal.NewTTYPrompter(os.Stdin, os.Stderr)
}

func logSummary(ctx context.Context, result app.UpdateResult) {
	event := log.Ctx(ctx).Info().
		Int("changed", result.Changed).
		Int("failed", result.Failed).
		Bool("saved", result.Saved)
	if len(result.Removed) > 0 {
		event = event.Strs("removed", result.Removed)
	}
	event.Msg("update complete")
}
