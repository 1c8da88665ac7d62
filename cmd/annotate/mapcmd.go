package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/Shubham-NM01/doc-uploader/pkg/annotate"
)

type mapOptions struct {
	pageHeight float64
	x, y       float64
	width      float64
	height     float64
	scale      float64
}

func newMapCmd() *cobra.Command {
	opts := &mapOptions{}

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Convert a viewer rectangle to PDF user space",
		Long: `Converts a placement captured in viewer pixels (top-left origin, scaled)
to the PDF rectangle it would be drawn at (bottom-left origin, points).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(opts.scale > 0) || math.IsInf(opts.scale, 0) {
				return fmt.Errorf("--scale must be a positive finite number")
			}
			if opts.pageHeight <= 0 {
				return fmt.Errorf("--page-height must be positive")
			}
			r := annotate.MapToDocumentSpace(opts.pageHeight, opts.x, opts.y, opts.width, opts.height, opts.scale)
			fmt.Fprintf(cmd.OutOrStdout(), "x=%g y=%g width=%g height=%g\n", r.X, r.Y, r.Width, r.Height)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.pageHeight, "page-height", 792, "page height in points")
	f.Float64Var(&opts.x, "x", 0, "viewer x")
	f.Float64Var(&opts.y, "y", 0, "viewer y")
	f.Float64Var(&opts.width, "width", 0, "viewer width")
	f.Float64Var(&opts.height, "height", 0, "viewer height")
	f.Float64Var(&opts.scale, "scale", annotate.DefaultScaleFactor, "viewer scale factor")

	return cmd
}
