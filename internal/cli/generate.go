// Package cli: generate.go implements the "icongen generate" command.
//
// The generate command is the primary user-facing operation. It
// orchestrates the full CSV-to-output pipeline:
//
//  1. Build configuration (defaults → YAML file → environment → flags)
//  2. Set up logging and probe rasterization capability
//  3. Load the finish palette (plus optional override file)
//  4. Load and validate the CSV matrix
//  5. Run the batch (resolve + emit per row, failures isolated per item)
//  6. Print the human-readable summary
//  7. Optionally push produced files to GitHub
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/strategydeck/icongen/internal/batch"
	"github.com/strategydeck/icongen/internal/config"
	"github.com/strategydeck/icongen/internal/emit"
	"github.com/strategydeck/icongen/internal/logging"
	"github.com/strategydeck/icongen/internal/matrix"
	"github.com/strategydeck/icongen/internal/model"
	"github.com/strategydeck/icongen/internal/palette"
	"github.com/strategydeck/icongen/internal/publish"
	"github.com/strategydeck/icongen/internal/raster"
	"github.com/strategydeck/icongen/internal/resolve"
)

// generateFlags holds the flag values for the generate command.
// These are bound to cobra flags in NewGenerateCommand.
type generateFlags struct {
	configFile    string // --config: YAML config file path
	csvPath       string // --csv: variant matrix CSV
	outputDir     string // --out: output root directory
	mastersDir    string // --masters: master SVG directory
	palettePath   string // --palette: JSONC finish override file
	logLevel      string // --log-level: DEBUG/INFO/WARN/ERROR
	logFile       string // --log-file: rotating log file path
	dryRun        bool   // --dry-run: resolve and validate, write nothing
	validateOnly  bool   // --validate-only: stop after CSV validation
	strict        bool   // --strict: any row failure fails the run
	noPNG         bool   // --no-png: skip PNG export
	pushToGitHub  bool   // --push-to-github: publish after a successful batch
	githubRepo    string // --github-repo: owner/repo target
	commitMessage string // --message: commit message for the push
}

// NewGenerateCommand creates the "generate" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewGenerateCommand() *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate icon variants from the CSV matrix",
		Long: `Generate icon variants from master SVG templates.

Each valid CSV row yields a baked SVG under
<out>/<mode>/<finish>/<size>px/<context>/ and, when rasterization is
available, a PNG sibling at the row's pixel size. Invalid rows are
reported and skipped; the rest of the batch continues.

Examples:
  icongen generate
  icongen generate --csv matrix.csv --out ./icons --masters ./masters
  icongen generate --dry-run
  icongen generate --strict --log-level DEBUG
  icongen generate --push-to-github --github-repo strategydeck/assets`,

		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configFile, "config", "", "YAML config file (default: icongen.yaml if present)")
	cmd.Flags().StringVar(&flags.csvPath, "csv", "", "Path to the variant matrix CSV")
	cmd.Flags().StringVar(&flags.outputDir, "out", "", "Output directory for generated icons")
	cmd.Flags().StringVar(&flags.mastersDir, "masters", "", "Directory containing master SVG files")
	cmd.Flags().StringVar(&flags.palettePath, "palette", "", "JSONC finish palette override file")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Also write logs to this rotating file")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be generated without creating files")
	cmd.Flags().BoolVar(&flags.validateOnly, "validate-only", false, "Validate configuration and CSV, then exit")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Treat any row failure as an overall failure")
	cmd.Flags().BoolVar(&flags.noPNG, "no-png", false, "Skip PNG export even if rasterization is available")
	cmd.Flags().BoolVar(&flags.pushToGitHub, "push-to-github", false, "Push generated files to GitHub after the batch")
	cmd.Flags().StringVar(&flags.githubRepo, "github-repo", "", "GitHub repository in owner/repo form (env: GITHUB_REPO)")
	cmd.Flags().StringVar(&flags.commitMessage, "message", "", "Commit message for the GitHub push")

	return cmd
}

// buildConfig layers CLI flags over the loaded configuration. Only flags
// the user actually set override the file/env layers, so an empty --csv
// never clobbers a configured path.
func buildConfig(cmd *cobra.Command, flags *generateFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return cfg, err
	}

	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("csv") {
		cfg.CSVPath = flags.csvPath
	}
	if set("out") {
		cfg.OutputDir = flags.outputDir
	}
	if set("masters") {
		cfg.MastersDir = flags.mastersDir
	}
	if set("palette") {
		cfg.PalettePath = flags.palettePath
	}
	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if set("log-file") {
		cfg.LogFile = flags.logFile
	}
	if set("dry-run") {
		cfg.DryRun = flags.dryRun
	}
	if set("validate-only") {
		cfg.ValidateOnly = flags.validateOnly
	}
	if set("strict") {
		cfg.Strict = flags.strict
	}
	if set("no-png") {
		cfg.NoPNG = flags.noPNG
	}
	if set("push-to-github") {
		cfg.PushToGitHub = flags.pushToGitHub
	}
	if set("github-repo") {
		cfg.GitHubRepo = flags.githubRepo
	}
	if set("message") {
		cfg.CommitMessage = flags.commitMessage
	}
	return cfg, nil
}

// runGenerate is the main orchestration function for the generate command.
func runGenerate(cmd *cobra.Command, flags *generateFlags) error {
	// Step 1: Configuration. Any problem here is fatal before the first item.
	cfg, err := buildConfig(cmd, flags)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid configuration", err)
	}
	VerboseLog("CSV=%s out=%s masters=%s", cfg.CSVPath, cfg.OutputDir, cfg.MastersDir)

	// Step 2: Logging.
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid logging configuration", err)
	}
	logger.Info("starting icon generation", "csv", cfg.CSVPath, "out", cfg.OutputDir, "dryRun", cfg.DryRun)

	// Step 3: Finish palette, with optional override file.
	pal := palette.Default()
	if cfg.PalettePath != "" {
		pal, err = palette.Load(cfg.PalettePath)
		if err != nil {
			return model.WrapCLIError(model.ExitConfigInvalid, "invalid palette file", err)
		}
		logger.Debug("palette override loaded", "path", cfg.PalettePath, "finishes", pal.Len())
	}

	// Step 4: Rasterization capability, probed once for the whole run.
	var rasterizer raster.Rasterizer
	if cfg.NoPNG {
		logger.Info("PNG export disabled (--no-png)")
	} else {
		rasterizer, err = raster.Detect()
		if err != nil {
			// Informational: the batch proceeds with SVG-only output.
			logger.Info("PNG export unavailable", "reason", err)
		}
	}

	// Step 5: Load and validate the CSV matrix.
	requests, rowErrors, err := matrix.Load(cfg.CSVPath, pal)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "failed to load CSV matrix", err)
	}
	logger.Info("matrix loaded", "valid", len(requests), "rejected", len(rowErrors))
	for _, re := range rowErrors {
		logger.Error("invalid row", "row", re.Row, "error", re.Err)
	}

	if cfg.ValidateOnly {
		return finishValidateOnly(len(requests), rowErrors)
	}

	// Step 6: Run the batch, with interrupt handling at item boundaries.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := resolve.New(cfg.MastersDir, cfg.OutputDir)
	emitter := emit.New(pal, rasterizer, cfg.DryRun, logger)
	runner := batch.New(resolver, emitter, logger)
	runner.DryRun = cfg.DryRun
	runner.Progress = func(ev batch.ProgressEvent) {
		logger.Info("progress",
			"item", fmt.Sprintf("%d/%d", ev.Index, ev.Total),
			"variant", ev.Request.String())
	}

	summary := runner.Run(ctx, requests)

	// Step 7: Human-readable summary on stdout.
	printSummary(summary, rowErrors)

	if summary.Cancelled {
		return model.NewCLIError(model.ExitInterrupted, "generation interrupted")
	}
	if summary.AllFailed() {
		return model.NewCLIError(model.ExitBatchFailed,
			fmt.Sprintf("all %d items failed", summary.TotalRequested))
	}
	if cfg.Strict && (len(summary.Failed) > 0 || len(rowErrors) > 0) {
		return model.NewCLIError(model.ExitValidationFailed,
			fmt.Sprintf("strict mode: %d row(s) rejected, %d item(s) failed",
				len(rowErrors), len(summary.Failed)))
	}

	// Step 8: Optional GitHub push, only after a successful real batch.
	if cfg.PushToGitHub && !cfg.DryRun && len(summary.Files) > 0 {
		if err := pushToGitHub(ctx, cfg, summary, logger); err != nil {
			return model.WrapCLIError(model.ExitPublishFailed, "GitHub push failed", err)
		}
	}

	logger.Info("icon generation completed")
	return nil
}

// finishValidateOnly reports the validation outcome and maps it to an
// exit status: non-zero when any row was rejected.
func finishValidateOnly(valid int, rowErrors []matrix.RowError) error {
	fmt.Printf("Validation: %d valid row(s), %d rejected\n", valid, len(rowErrors))
	for _, re := range rowErrors {
		fmt.Printf("  row %d: %v\n", re.Row, re.Err)
	}
	if len(rowErrors) > 0 {
		return model.NewCLIError(model.ExitValidationFailed,
			fmt.Sprintf("validation failed: %d row(s) rejected", len(rowErrors)))
	}
	fmt.Println("Validation completed successfully")
	return nil
}

// printSummary writes the final human-readable report to stdout: counts,
// then one line per rejected row and per failed item, each with the row
// index, error kind, and message. Enough to fix the CSV or masters
// without re-running at debug level.
func printSummary(summary *model.BatchSummary, rowErrors []matrix.RowError) {
	if summary.DryRun {
		fmt.Printf("Dry run: %d variant(s) would be generated", summary.Succeeded)
	} else {
		fmt.Printf("Generated %d variant(s), %d PNG export(s)", summary.Succeeded, summary.PNGExported)
	}
	fmt.Printf("; %d failed, %d row(s) rejected (%.2fs)\n",
		len(summary.Failed), len(rowErrors), summary.Elapsed.Seconds())

	for _, re := range rowErrors {
		fmt.Printf("  row %d [%s] %v\n", re.Row, model.KindValidation, re.Err)
	}
	for _, f := range summary.Failed {
		fmt.Printf("  row %d [%s] %s\n", f.Row, f.Kind, f.Message)
	}
	if summary.Cancelled {
		fmt.Printf("  interrupted after %d of %d item(s)\n",
			summary.Succeeded+len(summary.Failed), summary.TotalRequested)
	}
}

// pushToGitHub invokes the publish collaborator with the batch's produced
// files. The commit message defaults to a description of the batch.
func pushToGitHub(ctx context.Context, cfg config.Config, summary *model.BatchSummary, logger *slog.Logger) error {
	message := cfg.CommitMessage
	if message == "" {
		message = fmt.Sprintf("Generate %d icon variants", summary.Succeeded)
	}

	client, err := publish.New(cfg.GitHubRepo, cfg.GitHubToken, logger)
	if err != nil {
		return err
	}
	return client.Push(ctx, cfg.OutputDir, summary.Files, message)
}
