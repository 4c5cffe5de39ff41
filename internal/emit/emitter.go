package emit

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/strategydeck/icongen/internal/model"
	"github.com/strategydeck/icongen/internal/palette"
	"github.com/strategydeck/icongen/internal/raster"
)

// Emitter writes icon variants to disk. Construct with New; the zero
// value writes nothing useful.
type Emitter struct {
	pal        *palette.Palette
	rasterizer raster.Rasterizer // nil means PNG export unavailable
	dryRun     bool
	log        *slog.Logger
}

// New creates an Emitter. A nil rasterizer disables PNG export; a nil
// logger falls back to slog.Default().
func New(pal *palette.Palette, rasterizer raster.Rasterizer, dryRun bool, log *slog.Logger) *Emitter {
	if log == nil {
		log = slog.Default()
	}
	return &Emitter{pal: pal, rasterizer: rasterizer, dryRun: dryRun, log: log}
}

// Emit materializes one resolved variant. On success the result reports
// what was written (or, in dry-run mode, what would have been).
//
// Failure modes, all per-item: *model.TemplateError for unreadable or
// malformed master content, *model.FileSystemError for directory-creation
// or write failures. A rasterizer error on one item is downgraded to a
// warning: the SVG result stands and only the PNG is skipped.
func (e *Emitter) Emit(rv *model.ResolvedVariant) (*model.EmitResult, error) {
	master, err := os.ReadFile(rv.MasterPath)
	if err != nil {
		return nil, &model.TemplateError{Path: rv.MasterPath, Message: fmt.Sprintf("not readable: %v", err)}
	}

	baked, err := Bake(master, rv.MasterPath, rv.Request.Mode, rv.Request.Finish, e.pal)
	if err != nil {
		return nil, err
	}

	result := &model.EmitResult{}

	if e.dryRun {
		e.log.Info("dry-run: would generate", "svg", rv.SVGPath, "png", e.wouldPNG(rv))
		return result, nil
	}

	// MkdirAll succeeds when the directory already exists, which also makes
	// concurrent creation of shared parents safe if the batch is ever
	// parallelized.
	if err := os.MkdirAll(rv.OutputDir, 0o755); err != nil {
		return nil, &model.FileSystemError{Op: "mkdir", Path: rv.OutputDir, Err: err}
	}

	n, err := writeFileAtomic(rv.SVGPath, baked)
	if err != nil {
		return nil, err
	}
	result.SVGWritten = true
	result.BytesWritten += n
	result.Files = append(result.Files, rv.SVGPath)
	e.log.Debug("generated SVG", "path", rv.SVGPath, "bytes", n)

	if e.rasterizer == nil {
		e.log.Debug("rasterization unavailable, skipping PNG", "path", rv.PNGPath)
		return result, nil
	}

	n, err = e.exportPNG(rv, baked)
	if err != nil {
		// Non-fatal, mirroring the behavior users rely on when the
		// rasterizer chokes on an exotic master: keep the SVG, skip the PNG.
		e.log.Warn("PNG export failed, keeping SVG only",
			"path", rv.PNGPath, "error", err)
		return result, nil
	}
	result.PNGWritten = true
	result.BytesWritten += n
	result.Files = append(result.Files, rv.PNGPath)
	e.log.Debug("exported PNG", "path", rv.PNGPath, "bytes", n)

	return result, nil
}

// wouldPNG reports whether a non-dry run would have produced the PNG.
func (e *Emitter) wouldPNG(rv *model.ResolvedVariant) string {
	if e.rasterizer == nil {
		return "(skipped, no rasterizer)"
	}
	return rv.PNGPath
}

// Bake substitutes the variant colors into the master SVG text.
//
// The masters paint their background rect with the brand-orange
// placeholder and their shapes white. Both placeholders are replaced in a
// single pass so an inserted color is never re-matched as a placeholder
// (the light-mode background is white, and the flat-orange finish equals
// the background placeholder).
//
// This is a plain text transform, not an XML parse. Content that does not
// contain an <svg> root is rejected with a *model.TemplateError.
func Bake(master []byte, masterPath string, mode model.Mode, finish string, pal *palette.Palette) ([]byte, error) {
	doc := string(master)
	if !strings.Contains(doc, "<svg") {
		return nil, &model.TemplateError{Path: masterPath, Message: "content has no <svg> root element"}
	}

	fg, ok := pal.Color(finish)
	if !ok {
		// Loader validation guarantees known finishes; reaching this means
		// the emitter was handed an unvalidated request.
		return nil, &model.ValidationError{Field: "finish", Message: fmt.Sprintf("unknown finish %q", finish)}
	}

	baked := strings.NewReplacer(
		palette.MasterForegroundToken, fg,
		palette.MasterBackgroundToken, pal.Background(mode),
	).Replace(doc)
	return []byte(baked), nil
}

// exportPNG rasterizes the baked SVG at the request size and writes the
// PNG atomically.
func (e *Emitter) exportPNG(rv *model.ResolvedVariant, baked []byte) (int64, error) {
	img, err := e.rasterizer.Render(baked, rv.Request.SizePx)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return 0, err
	}
	return writeFileAtomic(rv.PNGPath, buf.Bytes())
}

// writeFileAtomic writes data to path via a temp file in the same
// directory, syncing and closing before the rename. Either the complete
// file appears at path or nothing does; the temp file is removed on every
// failure path.
func writeFileAtomic(path string, data []byte) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, &model.FileSystemError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	cleanup := func(op string, cause error) (int64, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, &model.FileSystemError{Op: op, Path: path, Err: cause}
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, &model.FileSystemError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, &model.FileSystemError{Op: "rename", Path: path, Err: err}
	}
	return int64(len(data)), nil
}
