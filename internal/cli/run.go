package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
	"github.com/dsoumyadip/tb-update-handles/internal/metrics"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one refresh and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer opts.close()

			cfg := opts.cfg
			if dryRun {
				cfg.Store.Backend = "memory"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Run.Timeout)
			defer cancel()

			app, err := Build(ctx, cfg, opts.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			status, res, runErr := app.API.RunOnce(ctx)
			if cfg.Metrics.Pushgateway != "" {
				if err := metrics.Push(cfg.Metrics.Pushgateway, cfg.Metrics.Job); err != nil {
					opts.logger.Warn("pushing metrics failed", "error", err)
				}
			}
			if runErr != nil {
				return fmt.Errorf("run %s failed (%s): %w", res.RunID, ingest.Kind(runErr), runErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "write profiles to an in-memory collection instead of the configured store")
	return cmd
}
