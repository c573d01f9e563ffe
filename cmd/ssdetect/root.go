package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssdetect/ssdetect/internal/engine"
)

// Exit codes. Runs with per-image errors count as failures so scripts
// can trust a zero exit, and user cancellation gets the conventional
// 128+SIGINT code.
const (
	exitOK        = 0
	exitFailure   = 1
	exitCancelled = 130
)

// NewRootCmd creates the root command for ssdetect.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssdetect",
		Short: "Classify images as screenshots or regular pictures",
		Long: `ssdetect separates screenshots from regular pictures in an image library.

It combines two detection methods: a horizontal edge heuristic that finds
the full-width lines of window chrome and UI panels, and OCR text analysis
that measures how much readable text an image carries. Detected screenshots
can be moved or copied to a separate directory, with sidecar files kept
alongside them.

By default, classification shows an interactive progress display.
Use --script or --json for machine-readable output.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := NewRootCmd().Execute()
	if err == nil {
		return exitOK
	}
	if errors.Is(err, engine.ErrCancelled) {
		// The run summary already reported the partial counts.
		return exitCancelled
	}
	fmt.Fprintln(os.Stderr, err)
	return exitFailure
}
