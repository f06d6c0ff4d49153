package cli

import (
	"github.com/spf13/cobra"

	"github.com/Jelmerro/nus/internal/app"
)

func newCheckCommand(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report available updates without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd, *opts)
			if err != nil {
				return err
			}
			service := app.NewService(cmd.OutOrStdout(), nil)
			result, err := service.Check(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			logSummary(cmd.Context(), result)
			return nil
		},
	}
}
