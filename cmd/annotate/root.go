package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shubham-NM01/doc-uploader/pkg/logging"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "annotate",
		Short:        "Apply signature images to PDF documents",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", string(logging.LevelWarn), "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newApplyCmd(opts),
		newPagesCmd(),
		newMapCmd(),
	)

	return cmd
}

// logger writes to stderr so command output on stdout stays parseable.
func (o *rootOptions) logger() (*slog.Logger, error) {
	cfg := &logging.Config{Level: logging.Level(o.logLevel)}
	if err := cfg.Finalize(&logging.Env{Level: "ANNOTATE_LOG_LEVEL"}); err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return logging.NewWriter(cfg, os.Stderr), nil
}
