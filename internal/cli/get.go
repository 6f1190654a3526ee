package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <handle>",
		Short: "Print the stored profile for a handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer opts.close()
			if err := opts.cfg.Validate(); err != nil {
				return err
			}

			app, err := Build(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			doc, err := app.API.Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
}
