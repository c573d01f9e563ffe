package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssdetect/ssdetect/internal/config"
	"github.com/ssdetect/ssdetect/internal/detect"
	"github.com/ssdetect/ssdetect/internal/inspect"
	"github.com/ssdetect/ssdetect/internal/log"
	"github.com/ssdetect/ssdetect/internal/model"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <image-file>",
		Short: "Show the detection signals for a single image",
		Long: `Inspect runs every active detection method on one image and prints the
intermediate signals behind the verdict.

Unlike a classification run, inspect does not stop at the first positive
method: it reports the horizontal rows, the OCR region metrics, and any
camera EXIF metadata side by side. Use it to understand a surprising
verdict or to tune the OCR thresholds for your library.

Examples:
  # Full breakdown with both detection methods
  ssdetect inspect photo.jpg

  # Horizontal heuristic only (no OCR engine load)
  ssdetect inspect --mode horizontal photo.jpg

  # Machine-readable breakdown
  ssdetect inspect --json photo.jpg

  # Check how a lower confidence threshold would decide
  ssdetect inspect --ocr-quality 0.4 photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().StringP("mode", "m", "both",
		"Detection mode: horizontal, ocr, or both")
	cmd.Flags().Int("ocr-chars", config.DefaultOCRMinChars,
		"Minimum recognized characters for the base OCR rule")
	cmd.Flags().Float64("ocr-quality", config.DefaultOCRMinConfidence,
		"Minimum mean OCR confidence for the base rule (0.0-1.0)")
	cmd.Flags().Float64("ocr-resize", config.DefaultOCRResizeFactor,
		"Scale factor applied to images before OCR (0.0-1.0]")
	cmd.Flags().Bool("no-gpu", false,
		"Disable GPU acceleration for the OCR engine")
	cmd.Flags().Bool("extra-heuristics", true,
		"Enable the caption and density OCR rules")
	cmd.Flags().BoolP("json", "j", false,
		"Output the breakdown as JSON")

	return cmd
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	params, err := buildInspectParams(cmd)
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Diagnostics go to stderr; the breakdown itself is the output.
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd), "")

	ins := inspect.New(params, logger)
	rep, err := ins.Inspect(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rep)
	}

	printInspection(rep)
	return nil
}

// buildInspectParams resolves the detection parameters from flags.
func buildInspectParams(cmd *cobra.Command) (detect.Params, error) {
	var params detect.Params
	var err error

	modeStr, err := cmd.Flags().GetString("mode")
	if err != nil {
		return params, err
	}
	params.Mode, err = model.ParseDetectionMode(modeStr)
	if err != nil {
		return params, err
	}

	params.OCRMinChars, err = cmd.Flags().GetInt("ocr-chars")
	if err != nil {
		return params, err
	}

	params.OCRMinConfidence, err = cmd.Flags().GetFloat64("ocr-quality")
	if err != nil {
		return params, err
	}

	params.OCRResizeFactor, err = cmd.Flags().GetFloat64("ocr-resize")
	if err != nil {
		return params, err
	}

	noGPU, err := cmd.Flags().GetBool("no-gpu")
	if err != nil {
		return params, err
	}
	params.GPUEnabled = !noGPU

	params.ExtraHeuristics, err = cmd.Flags().GetBool("extra-heuristics")
	if err != nil {
		return params, err
	}

	return params, nil
}

// printInspection prints the human-readable breakdown.
func printInspection(rep *inspect.Report) {
	fmt.Printf("Inspection: %s\n", rep.Path)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nDimensions: %dx%d\n", rep.Width, rep.Height)
	fmt.Printf("Verdict:    %s", rep.Verdict)
	if rep.Method != model.MethodNone {
		fmt.Printf(" (via %s)", rep.Method)
	}
	fmt.Println()

	if rep.Horizontal != nil {
		fmt.Println("\nHorizontal detection:")
		fmt.Printf("  qualifying rows: %d\n", len(rep.Horizontal.Rows))
		if len(rep.Horizontal.Rows) > 0 {
			fmt.Printf("  row positions:   %s\n", formatRows(rep.Horizontal.Rows))
		}
		fmt.Printf("  screenshot:      %v\n", rep.Horizontal.Screenshot)
	}

	switch {
	case rep.OCR != nil:
		fmt.Println("\nOCR analysis:")
		fmt.Printf("  regions:         %d\n", rep.OCR.Regions)
		fmt.Printf("  characters:      %d\n", rep.OCR.Chars)
		fmt.Printf("  avg confidence:  %.2f\n", rep.OCR.AvgConfidence)
		fmt.Printf("  density:         %.1f chars/region\n", rep.OCR.Density)
		fmt.Printf("  high confidence: %d regions\n", rep.OCR.HighConfRegions)
		fmt.Printf("  large blocks:    %d\n", rep.OCR.LargeBlocks)
		fmt.Printf("  bottom third:    %d regions (bottom-heavy: %v)\n",
			rep.OCR.BottomRegions, rep.OCR.BottomHeavy)
		if rep.OCR.Rule != "" {
			fmt.Printf("  matched rule:    %s\n", rep.OCR.Rule)
		}
		fmt.Printf("  screenshot:      %v\n", rep.OCR.Screenshot)
	case rep.OCRError != "":
		fmt.Println("\nOCR analysis:")
		fmt.Printf("  unavailable: %s\n", rep.OCRError)
	}

	fmt.Println("\nEXIF metadata:")
	if len(rep.EXIF) == 0 {
		fmt.Println("  none found")
	} else {
		for _, tag := range rep.EXIF {
			fmt.Printf("  %-18s %s\n", tag.Name+":", tag.Value)
		}
	}
	if rep.CameraEXIF {
		fmt.Println("\n  The camera make/model tags suggest a photograph rather than")
		fmt.Println("  a screen capture.")
	}
}

// formatRows renders row indexes as a compact comma list, elided past
// the first eight.
func formatRows(rows []int) string {
	const maxShown = 8

	parts := make([]string, 0, maxShown+1)
	for i, row := range rows {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("... (%d more)", len(rows)-maxShown))
			break
		}
		parts = append(parts, fmt.Sprintf("y=%d", row))
	}
	return strings.Join(parts, ", ")
}
