// Package cli: palette.go implements the "icongen palette" command.
//
// The palette command prints the finish table in effect, so users can
// check which finish names the CSV may reference before editing the
// matrix. With --palette it shows the merged result of the override file.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strategydeck/icongen/internal/model"
	"github.com/strategydeck/icongen/internal/palette"
)

// NewPaletteCommand creates the "palette" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewPaletteCommand() *cobra.Command {
	var palettePath string

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List the available finishes and their colors",
		Long: `List every finish name the CSV matrix may reference, with its color.

With --palette, the override file is merged over the built-in table
before printing, so the output reflects exactly what a generate run with
the same flag would use.

Examples:
  icongen palette
  icongen palette --palette brand-overrides.jsonc`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPalette(palettePath)
		},
	}

	cmd.Flags().StringVar(&palettePath, "palette", "", "JSONC finish palette override file")

	return cmd
}

// runPalette prints the finish table, sorted by name.
func runPalette(palettePath string) error {
	pal := palette.Default()
	if palettePath != "" {
		var err error
		pal, err = palette.Load(palettePath)
		if err != nil {
			return model.WrapCLIError(model.ExitConfigInvalid, "invalid palette file", err)
		}
	}

	for _, name := range pal.Finishes() {
		color, _ := pal.Color(name)
		fmt.Printf("%-20s %s\n", name, color)
	}
	return nil
}
