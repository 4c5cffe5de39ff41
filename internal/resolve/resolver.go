package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/strategydeck/icongen/internal/matrix"
	"github.com/strategydeck/icongen/internal/model"
)

// Master SVG filenames expected under the masters directory.
const (
	// MicroMaster is the simplified master used for small sizes, where the
	// standard artwork loses legibility.
	MicroMaster = "strategy_icon_micro.svg"

	// StandardMaster is the full-detail master used for larger sizes.
	StandardMaster = "strategy_icon_standard.svg"
)

// MicroThreshold is the inclusive upper bound, in pixels, for micro-master
// selection. 32px uses the micro master; 33px uses the standard master.
// Fixed policy, not configurable.
const MicroThreshold = 32

// Resolver resolves variant requests against a masters directory and an
// output directory. The zero value is not usable; construct with New.
type Resolver struct {
	mastersDir string
	outputDir  string
}

// New creates a Resolver for the given masters and output directories.
func New(mastersDir, outputDir string) *Resolver {
	return &Resolver{mastersDir: mastersDir, outputDir: outputDir}
}

// MasterFor returns the master filename selected for a size.
func MasterFor(sizePx int) string {
	if sizePx <= MicroThreshold {
		return MicroMaster
	}
	return StandardMaster
}

// Resolve produces the emission plan for one request: the selected master
// (verified to exist) and the output SVG/PNG paths.
//
// Failure modes, all per-item:
//   - *model.MissingMasterError when the selected master file is absent
//   - *model.ValidationError when the joined output path escapes the
//     output directory
func (r *Resolver) Resolve(req model.VariantRequest) (*model.ResolvedVariant, error) {
	masterPath := filepath.Join(r.mastersDir, MasterFor(req.SizePx))
	info, err := os.Stat(masterPath)
	if err != nil || info.IsDir() {
		return nil, &model.MissingMasterError{SizePx: req.SizePx, Path: masterPath}
	}

	// The relative layout is shared with the matrix loader's duplicate
	// detection, so both always agree on where a request lands.
	relSVG := matrix.RelativeSVGPath(req)
	if err := r.checkUnderOutput(relSVG, req.Row); err != nil {
		return nil, err
	}

	svgPath := filepath.Join(r.outputDir, filepath.FromSlash(relSVG))
	base := matrix.BaseName(req)

	return &model.ResolvedVariant{
		Request:    req,
		MasterPath: masterPath,
		OutputDir:  filepath.Dir(svgPath),
		SVGPath:    svgPath,
		PNGPath:    filepath.Join(filepath.Dir(svgPath), base+".png"),
		BaseName:   base,
	}, nil
}

// checkUnderOutput rejects any relative output path that would resolve
// outside the output directory. The loader already screens individual
// fields for separators; this is the belt at the point where the full
// path is assembled.
func (r *Resolver) checkUnderOutput(rel string, row int) error {
	cleaned := filepath.Clean(filepath.Join(r.outputDir, filepath.FromSlash(rel)))
	root := filepath.Clean(r.outputDir)
	if cleaned != root && !strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
		return &model.ValidationError{
			Row:     row,
			Field:   "(output)",
			Message: fmt.Sprintf("output path %s escapes output directory %s", rel, r.outputDir),
		}
	}
	return nil
}
