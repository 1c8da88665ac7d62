package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shubham-NM01/doc-uploader/pkg/annotate"
)

func newPagesCmd() *cobra.Command {
	var (
		in     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List page sizes and image counts of a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			pages, err := annotate.Pages(doc)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(pages)
			}

			out := cmd.OutOrStdout()
			for _, p := range pages {
				fmt.Fprintf(out, "page %d: %gx%g pt, %d images\n", p.Number, p.Width, p.Height, p.Images)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "PDF path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	cmd.MarkFlagRequired("in")

	return cmd
}
