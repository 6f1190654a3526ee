// Package cli contains the tb-update-handles commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dsoumyadip/tb-update-handles/internal/config"
	"github.com/dsoumyadip/tb-update-handles/internal/logger"
	"github.com/dsoumyadip/tb-update-handles/internal/telemetry"
)

var version = "dev"

// SetVersion sets the version string reported by the CLI and telemetry.
func SetVersion(v string) {
	version = v
}

type rootOptions struct {
	cfgFile  string
	logLevel string

	cfg      config.Config
	logger   *slog.Logger
	shutdown telemetry.ShutdownFunc
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tb-update-handles",
		Short: "Refresh tracked handle profiles into a document store",
		Long: `tb-update-handles reads the list of tracked handles from an object store,
looks their profiles up in one batched API call and upserts every returned
profile into a document collection keyed by username.

Example usage:
  tb-update-handles run              # one refresh, prints "Success"
  tb-update-handles serve            # HTTP trigger on POST /run
  tb-update-handles get some_handle  # print the stored profile`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (YAML); environment variables override it")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRunCmd(opts),
		newServeCmd(opts),
		newGetCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) init(ctx context.Context) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	o.cfg = cfg

	o.shutdown, err = telemetry.Init(ctx, cfg.OTel, version)
	if err != nil {
		return fmt.Errorf("initialising telemetry: %w", err)
	}
	o.logger = logger.New(cfg.OTel.ServiceName, cfg.Log.Level, cfg.OTel.Enabled)
	slog.SetDefault(o.logger)
	return nil
}

func (o *rootOptions) close() {
	if o.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "telemetry shutdown:", err)
	}
}

// Execute runs the CLI and reports a failure on stderr.
func Execute() error {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
