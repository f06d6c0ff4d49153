package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jelmerro/nus/internal/app"
)

func newCatalogCommand(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with catalog snapshot files",
	}
	cmd.AddCommand(newCatalogExportCommand(opts))
	return cmd
}

func newCatalogExportCommand(opts *runOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Snapshot the catalogs of every registry dependency to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd, *opts)
			if err != nil {
				return err
			}
			service := app.NewService(cmd.OutOrStdout(), nil)
			result, err := service.ExportCatalog(cmd.Context(), cfg, app.ExportRequest{Output: output})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote catalog: %s (%d packages)\n", result.OutputPath, result.Packages)
			return err
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Catalog file to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
