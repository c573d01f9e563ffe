package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ssdetect/ssdetect/internal/config"
	"github.com/ssdetect/ssdetect/internal/engine"
	"github.com/ssdetect/ssdetect/internal/history"
	"github.com/ssdetect/ssdetect/internal/log"
	"github.com/ssdetect/ssdetect/internal/model"
	"github.com/ssdetect/ssdetect/internal/report"
	"github.com/ssdetect/ssdetect/internal/tui"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [directory]",
		Short: "Classify every image under a directory",
		Long: `Classify scans a directory recursively and labels every image it finds
as a screenshot or a regular picture.

Detection combines a horizontal edge heuristic (full-width lines of window
chrome and UI panels) with OCR text analysis. Each worker loads its own OCR
engine once and reuses it for every image it processes, so larger worker
counts trade memory for throughput.

Detected screenshots can be moved or copied to a separate directory.
Sidecar files sharing the image's name (such as .xmp edit metadata) are
relocated together with it.

Examples:
  # Classify the current directory
  ssdetect classify

  # Classify a photo library and move screenshots out of it
  ssdetect classify --move ~/screenshots ~/pictures

  # Copy instead of move, keeping the originals in place
  ssdetect classify --copy ~/screenshots ~/pictures

  # Fast pass without OCR
  ssdetect classify --mode horizontal ~/pictures

  # Scripted run with JSON records on stdout
  ssdetect classify --json ~/pictures

  # Write a Markdown report of the run
  ssdetect classify --report run.md ~/pictures

Configuration file (.ssdetect.yaml) example:
  workers: 4
  mode: both
  ocr:
    min_chars: 12
    min_confidence: 0.7
  relocation:
    mode: move
    target: /home/user/screenshots`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClassifyCmd,
	}

	// Relocation flags
	cmd.Flags().String("move", "",
		"Move detected screenshots to the specified directory")
	cmd.Flags().String("copy", "",
		"Copy detected screenshots to the specified directory")

	// Detection flags
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of classification workers (1-32)")
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

	// Output flags
	cmd.Flags().BoolP("json", "j", false,
		"Log JSON records instead of text (implies --script)")
	cmd.Flags().Bool("script", false,
		"Disable the interactive progress display")
	cmd.Flags().StringP("report", "r", "",
		"Write a run report to the specified file (.md, .json, or plain text)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .ssdetect.yaml in current or home directory)")

	// History
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")

	return cmd
}

// runClassifyCmd executes the classify command.
func runClassifyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildClassifyConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := buildRunLogger(cfg)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// First interrupt cancels the run; workers finish their current
	// image and the collector drains what was already produced.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received interrupt, stopping after in-flight work")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runClassify(ctx, cancel, cfg, logger)
}

// buildClassifyConfig resolves the run configuration: defaults, then the
// configuration file, then every flag the user set on the command line.
func buildClassifyConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if len(args) > 0 {
		cfg.RootDir = args[0]
	}

	moveDir, err := cmd.Flags().GetString("move")
	if err != nil {
		return nil, err
	}
	copyDir, err := cmd.Flags().GetString("copy")
	if err != nil {
		return nil, err
	}
	if moveDir != "" && copyDir != "" {
		return nil, config.ErrConflictingRelocation
	}

	// Apply the configuration file before flags so explicit flags win.
	// An explicitly named file must exist; the default search locations
	// are all optional.
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if moveDir != "" {
		cfg.Relocation = model.RelocationMove
		cfg.TargetDir = moveDir
	}
	if copyDir != "" {
		cfg.Relocation = model.RelocationCopy
		cfg.TargetDir = copyDir
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers, err = cmd.Flags().GetInt("workers")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("mode") {
		modeStr, err := cmd.Flags().GetString("mode")
		if err != nil {
			return nil, err
		}
		cfg.Mode, err = model.ParseDetectionMode(modeStr)
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("ocr-chars") {
		cfg.OCRMinChars, err = cmd.Flags().GetInt("ocr-chars")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("ocr-quality") {
		cfg.OCRMinConfidence, err = cmd.Flags().GetFloat64("ocr-quality")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("ocr-resize") {
		cfg.OCRResizeFactor, err = cmd.Flags().GetFloat64("ocr-resize")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("no-gpu") {
		noGPU, err := cmd.Flags().GetBool("no-gpu")
		if err != nil {
			return nil, err
		}
		cfg.GPUEnabled = !noGPU
	}

	if cmd.Flags().Changed("extra-heuristics") {
		cfg.ExtraHeuristics, err = cmd.Flags().GetBool("extra-heuristics")
		if err != nil {
			return nil, err
		}
	}

	cfg.JSONLog, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.ScriptMode, err = cmd.Flags().GetBool("script")
	if err != nil {
		return nil, err
	}
	// JSON output is for machines; a progress display would corrupt it.
	// The same goes for output into a pipe.
	if cfg.JSONLog || !stdoutIsTerminal() {
		cfg.ScriptMode = true
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noSave

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// stdoutIsTerminal reports whether stdout is attached to a terminal.
func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// buildRunLogger creates the run logger: JSON records for --json, text
// records with shortened paths otherwise. Records go to stdout; they are
// the primary output of a run.
func buildRunLogger(cfg *config.Config) *slog.Logger {
	if cfg.JSONLog {
		return log.NewJSONLogger(os.Stdout, cfg.Verbose)
	}
	return log.NewLogger(os.Stdout, cfg.Verbose, cfg.RootDir)
}

// runClassify executes one classification run with the resolved config.
func runClassify(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *slog.Logger) error {
	interactive := !cfg.ScriptMode

	var (
		uiSink *tui.UISink
		uiDone chan struct{}
	)

	sink := engine.Sink(engine.NewLogSink(logger))
	if interactive {
		// The progress display renders on stderr so the log records on
		// stdout stay clean. Keys feed cancellation back into the run.
		uiSink = tui.NewUISink()
		program := tea.NewProgram(tui.NewModel(uiSink.Updates(), cancel), tea.WithOutput(os.Stderr))
		uiDone = make(chan struct{})
		go func() {
			_, _ = program.Run()
			close(uiDone)
		}()
		sink = engine.NewMultiSink(engine.NewLogSink(logger), uiSink)
	}

	eng := engine.New(cfg, engine.WithLogger(logger), engine.WithSink(sink))
	sum, runErr := eng.Run(ctx)

	if uiSink != nil {
		uiSink.Close()
		<-uiDone
	}

	if runErr != nil && !errors.Is(runErr, engine.ErrCancelled) {
		return runErr
	}

	if interactive && sum.Total > 0 {
		fmt.Fprintln(os.Stdout, tui.RenderSummary(tui.SummaryRows(sum)))
	}

	if err := writeRunReport(cfg, &sum); err != nil {
		logger.Error("failed to write report", "path", cfg.ReportFile, "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	saveRunHistory(cfg, &sum, logger)

	if runErr != nil {
		return runErr
	}
	if sum.Errors > 0 {
		return fmt.Errorf("%d of %d files could not be classified", sum.Errors, sum.Total)
	}
	return nil
}

// writeRunReport writes the run report when --report was given. The
// format follows the file extension: .md Markdown, .json JSON, anything
// else plain text.
func writeRunReport(cfg *config.Config, sum *model.RunSummary) error {
	if cfg.ReportFile == "" {
		return nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Write errors surface below

	var w report.Writer
	switch strings.ToLower(filepath.Ext(cfg.ReportFile)) {
	case ".md":
		w = report.NewMarkdownWriter(f)
	case ".json":
		w = report.NewFullJSONWriter(f, getVersion(), report.WithPrettyPrint())
	default:
		w = report.NewSimpleWriter(f)
	}

	if _, err := w.Write(sum); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveRunHistory appends the run summary to the history database unless
// saving is disabled. Runs that enumerated nothing are not worth a row.
// Failures are warnings; a classification run never fails because its
// bookkeeping did.
func saveRunHistory(cfg *config.Config, sum *model.RunSummary, logger *slog.Logger) {
	if !cfg.SaveHistory || sum.Enumerated == 0 {
		return
	}

	db, err := history.Open(cfg.DBDir, history.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close() //nolint:errcheck // Best effort cleanup

	// The run context may already be cancelled; the save still happens.
	id, err := db.SaveRun(context.Background(), sum)
	if err != nil {
		logger.Warn("failed to save run history", "error", err)
		return
	}
	logger.Debug("run history saved", "id", id)
}
