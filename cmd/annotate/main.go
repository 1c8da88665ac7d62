// Command annotate applies signature placements to PDF files on disk
// using the same engine the server runs.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
