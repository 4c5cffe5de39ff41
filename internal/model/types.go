package model

import (
	"fmt"
	"strings"
	"time"
)

// Mode represents the color mode of an icon variant. The mode selects the
// background token substituted into the master SVG: light variants get the
// paper background, dark variants get the slate background.
type Mode string

const (
	// ModeLight renders the icon on the paper (white) background.
	ModeLight Mode = "light"

	// ModeDark renders the icon on the slate (near-black) background.
	ModeDark Mode = "dark"
)

// String returns the string representation of Mode.
// This method satisfies the fmt.Stringer interface.
func (m Mode) String() string {
	return string(m)
}

// IsValid checks whether the Mode value is one of the two recognized modes.
func (m Mode) IsValid() bool {
	return m == ModeLight || m == ModeDark
}

// ParseMode converts a string to a Mode.
// Returns an error if the string does not match any valid mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid mode: %q (valid: light, dark)", s)
	}
	return mode, nil
}

// VariantRequest describes one desired icon variant, parsed from a single
// CSV matrix row. Requests are created by the matrix loader and consumed
// read-only by the resolver and emitter; they are never mutated after load.
type VariantRequest struct {
	// Row is the 1-based data row index in the CSV matrix (header excluded).
	// Diagnostics and the batch summary reference this index so users can
	// locate the offending row without counting lines themselves.
	Row int `json:"row"`

	// Mode is the color mode of the variant (light or dark).
	Mode Mode `json:"mode"`

	// Finish is the surface finish name. Must exist in the finish palette.
	Finish string `json:"finish"`

	// SizePx is the square pixel size of the variant. Always > 0.
	SizePx int `json:"sizePx"`

	// Context is the usage context (e.g. "app", "favicon", "print").
	// It becomes the final directory component of the output path.
	Context string `json:"context"`

	// Filename is the explicit output filename from the CSV, or empty when
	// the row left the field blank and the name is derived instead.
	Filename string `json:"filename,omitempty"`
}

// String returns a compact human-readable identifier for the request,
// used in progress lines and failure messages.
func (r VariantRequest) String() string {
	return fmt.Sprintf("%s/%s/%dpx/%s", r.Mode, r.Finish, r.SizePx, r.Context)
}

// ResolvedVariant is the fully resolved output plan for one request:
// which master to read and where the outputs go. Paths are absolute or
// relative to the process working directory, matching the configured
// output directory, and are guaranteed to resolve under it.
type ResolvedVariant struct {
	// Request is the variant request this plan was resolved from.
	Request VariantRequest `json:"request"`

	// MasterPath is the selected master SVG file. Existence is verified
	// during resolution, before any emission work starts.
	MasterPath string `json:"masterPath"`

	// OutputDir is the directory the variant's files are written into:
	// outputDir/{mode}/{finish}/{size}px/{context}.
	OutputDir string `json:"outputDir"`

	// SVGPath is the destination path of the baked SVG file.
	SVGPath string `json:"svgPath"`

	// PNGPath is the destination path of the rasterized PNG file.
	// The file is only produced when rasterization is available.
	PNGPath string `json:"pngPath"`

	// BaseName is the output filename without extension, shared by the
	// SVG and PNG siblings.
	BaseName string `json:"baseName"`
}

// EmitResult reports what the emitter actually produced for one variant.
type EmitResult struct {
	// SVGWritten is true when the baked SVG reached disk (always false
	// in dry-run mode).
	SVGWritten bool `json:"svgWritten"`

	// PNGWritten is true when the PNG export was performed. False either
	// because rasterization is unavailable (informational, not a failure)
	// or because the run was a dry run.
	PNGWritten bool `json:"pngWritten"`

	// BytesWritten is the total size of all files written for this variant.
	BytesWritten int64 `json:"bytesWritten"`

	// Files lists the paths written, in write order (SVG first).
	// Empty in dry-run mode.
	Files []string `json:"files,omitempty"`
}

// ItemFailure records one failed variant inside a batch summary.
type ItemFailure struct {
	// Row is the CSV data row index of the failed request.
	Row int `json:"row"`

	// Kind classifies the failure (validation, missing-master, template,
	// filesystem).
	Kind ErrorKind `json:"kind"`

	// Message is a short human-readable description of the failure.
	Message string `json:"message"`

	// Request is the request that failed, kept for diagnostics.
	Request VariantRequest `json:"request"`
}

// BatchSummary aggregates the outcome of one batch run. It is owned and
// mutated exclusively by the batch runner while the run is in progress and
// is read-only once the run returns.
type BatchSummary struct {
	// TotalRequested is the number of valid requests the batch started with.
	TotalRequested int `json:"totalRequested"`

	// Succeeded is the number of variants emitted (or, in dry-run mode,
	// the number that would have been emitted).
	Succeeded int `json:"succeeded"`

	// PNGExported counts variants whose PNG sibling was produced.
	PNGExported int `json:"pngExported"`

	// Failed lists per-item failures ordered by original request index.
	Failed []ItemFailure `json:"failed,omitempty"`

	// Files lists every path written during the run, in emission order.
	// This is the input to the optional GitHub publish step.
	Files []string `json:"files,omitempty"`

	// DryRun records whether the batch ran in dry-run mode.
	DryRun bool `json:"dryRun"`

	// Cancelled is true when the run was interrupted before reaching the
	// end of the request list. Items processed before the interrupt are
	// still accounted for in the other fields.
	Cancelled bool `json:"cancelled"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// AllFailed reports whether a non-empty batch produced no successful items.
// This is the condition under which a normal (non-strict) run is still
// considered an overall failure.
func (s *BatchSummary) AllFailed() bool {
	return s.TotalRequested > 0 && s.Succeeded == 0
}
