// Package cli: validate.go implements the "icongen validate" command.
//
// The validate command is a standalone front for the loader's validation
// pass: it checks the configuration and every CSV row, prints a per-row
// report, and exits non-zero when anything is rejected. It never touches
// the output directory. Equivalent to "generate --validate-only" for
// users who think of validation as its own verb.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/strategydeck/icongen/internal/config"
	"github.com/strategydeck/icongen/internal/matrix"
	"github.com/strategydeck/icongen/internal/model"
	"github.com/strategydeck/icongen/internal/palette"
)

// validateFlags holds the flag values for the validate command.
type validateFlags struct {
	configFile  string // --config: YAML config file path
	csvPath     string // --csv: variant matrix CSV
	mastersDir  string // --masters: master SVG directory
	palettePath string // --palette: JSONC finish override file
}

// NewValidateCommand creates the "validate" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewValidateCommand() *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and CSV matrix without generating",
		Long: `Validate the run configuration and every row of the CSV matrix.

Each rejected row is reported with its row number and reason. Nothing is
written to the output directory.

Examples:
  icongen validate
  icongen validate --csv matrix.csv --masters ./masters`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configFile, "config", "", "YAML config file (default: icongen.yaml if present)")
	cmd.Flags().StringVar(&flags.csvPath, "csv", "", "Path to the variant matrix CSV")
	cmd.Flags().StringVar(&flags.mastersDir, "masters", "", "Directory containing master SVG files")
	cmd.Flags().StringVar(&flags.palettePath, "palette", "", "JSONC finish palette override file")

	return cmd
}

// loadValidateConfig layers the validate command's flags over the loaded
// configuration and runs startup validation.
func loadValidateConfig(cmd *cobra.Command, flags *validateFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("csv") {
		cfg.CSVPath = flags.csvPath
	}
	if cmd.Flags().Changed("masters") {
		cfg.MastersDir = flags.mastersDir
	}
	if cmd.Flags().Changed("palette") {
		cfg.PalettePath = flags.palettePath
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runValidate loads the config and matrix, then reports the outcome via
// the shared validate-only reporter.
func runValidate(cmd *cobra.Command, flags *validateFlags) error {
	cfg, err := loadValidateConfig(cmd, flags)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid configuration", err)
	}

	pal := palette.Default()
	if cfg.PalettePath != "" {
		pal, err = palette.Load(cfg.PalettePath)
		if err != nil {
			return model.WrapCLIError(model.ExitConfigInvalid, "invalid palette file", err)
		}
	}

	requests, rowErrors, err := matrix.Load(cfg.CSVPath, pal)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "failed to load CSV matrix", err)
	}

	return finishValidateOnly(len(requests), rowErrors)
}
