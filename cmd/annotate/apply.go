package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shubham-NM01/doc-uploader/internal/signatures"
	"github.com/Shubham-NM01/doc-uploader/pkg/annotate"
)

type applyOptions struct {
	in          string
	requests    string
	out         string
	scale       float64
	maxRequests int
}

func newApplyCmd(root *rootOptions) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Draw signature placements onto a PDF",
		Long: `Reads a PDF and a JSON file of placements, draws every placement that
targets an existing page, and writes the result. The placements file holds
either {"signatures": [...]} or a bare array of placements.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			return runApply(cmd, opts, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "", "source PDF path")
	f.StringVar(&opts.requests, "requests", "", "placements JSON path")
	f.StringVar(&opts.out, "out", "", "output PDF path")
	f.Float64Var(&opts.scale, "scale", annotate.DefaultScaleFactor, "viewer scale factor the placements were captured at")
	f.IntVar(&opts.maxRequests, "max-requests", 0, "reject batches larger than this (0 = unlimited)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("requests")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runApply(cmd *cobra.Command, opts *applyOptions, logger *slog.Logger) error {
	cfg := &annotate.Config{ScaleFactor: opts.scale, MaxRequests: opts.maxRequests}
	if err := cfg.Finalize(nil); err != nil {
		return err
	}

	doc, err := os.ReadFile(opts.in)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	raw, err := os.ReadFile(opts.requests)
	if err != nil {
		return fmt.Errorf("read placements: %w", err)
	}

	var batch signatures.ApplyCommand
	if err := json.Unmarshal(raw, &batch); err != nil {
		return fmt.Errorf("decode placements: %w", err)
	}
	if len(batch.Signatures) == 0 {
		return signatures.ErrEmptyBatch
	}
	if cfg.MaxRequests > 0 && len(batch.Signatures) > cfg.MaxRequests {
		return fmt.Errorf("%w: %d placements, limit %d", signatures.ErrTooMany, len(batch.Signatures), cfg.MaxRequests)
	}

	engine, err := annotate.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := engine.Annotate(doc, batch.Signatures)
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.out, result.Data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "applied: %d\n", result.Applied)
	fmt.Fprintf(out, "skipped: %d\n", len(result.Skipped))
	for _, s := range result.Skipped {
		fmt.Fprintf(out, "  [%d] page %d: %v\n", s.Index, s.PageNumber, s.Err)
	}
	fmt.Fprintf(out, "wrote %s\n", opts.out)

	return nil
}
