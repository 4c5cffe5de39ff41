package palette

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/tidwall/jsonc"

	"github.com/strategydeck/icongen/internal/model"
)

// Color tokens from the StrategyDECK brand sheet. The background tokens
// (paper, slate950) are mode-dependent; the rest are finish foregrounds.
const (
	tokenPaper       = "#FFFFFF"
	tokenSlate950    = "#060607"
	tokenBrandOrange = "#FF6A00"
	tokenInk         = "#000000"
	tokenCopper      = "#B87333"
	tokenBurntOrange = "#CC5500"
	tokenMatte       = "#333333"
	tokenEmbossed    = "#F5F5F5"
)

// Master placeholder tokens. The master SVGs paint their background rect
// brand orange and their icon shapes white; baking replaces the foreground
// placeholder with the finish color and the background placeholder with
// the mode background in a single pass, since each placeholder also
// appears as a legitimate output color of the other substitution.
const (
	MasterBackgroundToken = tokenBrandOrange
	MasterForegroundToken = tokenPaper
)

// defaultFinishes is the built-in finish table. Never mutated; Default
// copies it so overrides cannot leak into later runs.
var defaultFinishes = map[string]string{
	"flat-orange":    tokenBrandOrange,
	"matte-carbon":   tokenMatte,
	"satin-black":    tokenInk,
	"burnt-orange":   tokenBurntOrange,
	"copper-foil":    tokenCopper,
	"embossed-paper": tokenEmbossed,
}

// hexColorRegex validates override colors: #RGB or #RRGGBB.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Palette is an immutable finish-to-color lookup table.
// Construct one with Default or Load; the zero value is not usable.
type Palette struct {
	finishes map[string]string
}

// Default returns a palette containing only the built-in finish table.
func Default() *Palette {
	finishes := make(map[string]string, len(defaultFinishes))
	for name, color := range defaultFinishes {
		finishes[name] = color
	}
	return &Palette{finishes: finishes}
}

// overrideFile is the on-disk shape of a palette override file.
// The file is JSONC: comments and trailing commas are stripped before
// parsing, so palette files can carry inline notes.
type overrideFile struct {
	// Finishes maps finish names to hex colors. Entries extend the
	// built-in table; an entry whose name matches a built-in finish
	// replaces its color.
	Finishes map[string]string `json:"finishes"`
}

// Load returns the default palette extended by the override file at path.
// A missing or malformed file is a configuration problem, fatal to the
// run, so errors are reported as model.ConfigError.
func Load(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapConfigError(fmt.Sprintf("palette file %s not readable", path), err)
	}

	var override overrideFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &override); err != nil {
		return nil, model.WrapConfigError(fmt.Sprintf("palette file %s is not valid JSONC", path), err)
	}

	pal := Default()
	for name, color := range override.Finishes {
		if name == "" {
			return nil, model.NewConfigError(fmt.Sprintf("palette file %s: empty finish name", path))
		}
		if !hexColorRegex.MatchString(color) {
			return nil, model.NewConfigError(
				fmt.Sprintf("palette file %s: finish %q has invalid color %q (expected #RGB or #RRGGBB)", path, name, color))
		}
		pal.finishes[name] = color
	}
	return pal, nil
}

// Color returns the foreground color for a finish and whether the finish
// is known.
func (p *Palette) Color(finish string) (string, bool) {
	color, ok := p.finishes[finish]
	return color, ok
}

// Has reports whether the finish exists in the palette.
func (p *Palette) Has(finish string) bool {
	_, ok := p.finishes[finish]
	return ok
}

// Background returns the background color substituted into the master
// for the given mode: paper for light, slate for dark.
func (p *Palette) Background(mode model.Mode) string {
	if mode == model.ModeDark {
		return tokenSlate950
	}
	return tokenPaper
}

// Finishes returns the known finish names in sorted order.
func (p *Palette) Finishes() []string {
	names := make([]string, 0, len(p.finishes))
	for name := range p.finishes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of finishes in the palette.
func (p *Palette) Len() int {
	return len(p.finishes)
}
