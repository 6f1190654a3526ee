package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	http "github.com/dsoumyadip/tb-update-handles/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP trigger (POST /run)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer opts.close()
			if err := opts.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := Build(ctx, opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			s := http.New(app.API, opts.cfg.Run.Timeout, opts.logger)
			return s.ListenAndServe(ctx, opts.cfg.HTTP.ListenAddr)
		},
	}
}
