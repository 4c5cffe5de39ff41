package matrix

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/strategydeck/icongen/internal/model"
	"github.com/strategydeck/icongen/internal/palette"
)

// Column headers required in the matrix CSV. Filename is optional: a
// missing column or a blank cell both trigger filename derivation.
const (
	colMode     = "Mode"
	colFinish   = "Finish"
	colSize     = "Size (px)"
	colContext  = "Context"
	colFilename = "Filename"
)

// IconBaseName is the stem used when deriving output filenames for rows
// with a blank Filename cell.
const IconBaseName = "strategy_icon"

// RowError pairs a rejected CSV data row with the validation error that
// rejected it. Row indexes are 1-based and exclude the header.
type RowError struct {
	// Row is the 1-based data row index.
	Row int

	// Err is the *model.ValidationError describing the rejection.
	Err error
}

func (e RowError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the underlying validation error to errors.As.
func (e RowError) Unwrap() error { return e.Err }

// Load reads the CSV matrix at csvPath and returns the valid variant
// requests in CSV row order, plus the per-row validation errors for the
// rejected rows.
//
// A missing, unreadable, or non-UTF-8 file, and a header missing required
// columns, are configuration failures returned as the third value; row
// errors never are.
func Load(csvPath string, pal *palette.Palette) ([]model.VariantRequest, []RowError, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, model.WrapConfigError(fmt.Sprintf("CSV file not found: %s", csvPath), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, model.WrapConfigError(fmt.Sprintf("failed to read CSV file %s", csvPath), err)
	}
	if !utf8.Valid(data) {
		return nil, nil, model.NewConfigError(fmt.Sprintf("CSV file %s is not valid UTF-8", csvPath))
	}
	// Tolerate a UTF-8 BOM, common in spreadsheet exports.
	data = []byte(strings.TrimPrefix(string(data), "\uFEFF"))

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, model.NewConfigError(fmt.Sprintf("CSV file %s is empty", csvPath))
	}
	if err != nil {
		return nil, nil, model.WrapConfigError(fmt.Sprintf("failed to parse CSV header in %s", csvPath), err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		requests  []model.VariantRequest
		rowErrors []RowError
		// seenPaths maps each resolved relative output SVG path to the row
		// that claimed it, for duplicate detection across the whole matrix.
		seenPaths = map[string]int{}
	)

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Err: &model.ValidationError{
				Row: row, Field: "(row)", Message: fmt.Sprintf("malformed CSV record: %v", err),
			}})
			continue
		}

		req, verr := parseRow(row, record, columns, pal)
		if verr != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Err: verr})
			continue
		}

		// Duplicate-output detection: two rows resolving to the same SVG
		// path would silently overwrite each other. The later row loses.
		rel := RelativeSVGPath(req)
		if firstRow, dup := seenPaths[rel]; dup {
			rowErrors = append(rowErrors, RowError{Row: row, Err: &model.ValidationError{
				Row:     row,
				Field:   "(output)",
				Message: fmt.Sprintf("output path %s collides with row %d", rel, firstRow),
			}})
			continue
		}
		seenPaths[rel] = row

		requests = append(requests, req)
	}

	return requests, rowErrors, nil
}

// indexColumns maps the required column names to their positions in the
// header. Missing required columns are a configuration failure, since no
// row in the file can be valid without them.
func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colMode, colFinish, colSize, colContext} {
		if _, ok := columns[required]; !ok {
			return nil, model.NewConfigError(fmt.Sprintf("CSV header missing required column %q", required))
		}
	}
	return columns, nil
}

// cell returns the trimmed value of a named column within a record, or
// empty when the column is absent or the record is short.
func cell(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseRow validates a single CSV record into a VariantRequest.
// Returns a *model.ValidationError describing the first problem found in
// the row; field-level problems within one row are not accumulated, since
// a single actionable message per row keeps the summary readable.
func parseRow(row int, record []string, columns map[string]int, pal *palette.Palette) (model.VariantRequest, *model.ValidationError) {
	var req model.VariantRequest

	modeRaw := cell(record, columns, colMode)
	if modeRaw == "" {
		return req, &model.ValidationError{Row: row, Field: colMode, Message: "missing or empty"}
	}
	mode, err := model.ParseMode(modeRaw)
	if err != nil {
		return req, &model.ValidationError{Row: row, Field: colMode,
			Message: fmt.Sprintf("invalid mode %q (valid: light, dark)", modeRaw)}
	}

	finish := cell(record, columns, colFinish)
	if finish == "" {
		return req, &model.ValidationError{Row: row, Field: colFinish, Message: "missing or empty"}
	}
	if !pal.Has(finish) {
		return req, &model.ValidationError{Row: row, Field: colFinish,
			Message: fmt.Sprintf("unknown finish %q (valid: %s)", finish, strings.Join(pal.Finishes(), ", "))}
	}
	if !safePathComponent(finish) {
		return req, &model.ValidationError{Row: row, Field: colFinish,
			Message: fmt.Sprintf("finish %q must not contain path separators", finish)}
	}

	sizeRaw := cell(record, columns, colSize)
	if sizeRaw == "" {
		return req, &model.ValidationError{Row: row, Field: colSize, Message: "missing or empty"}
	}
	size, err := strconv.Atoi(sizeRaw)
	if err != nil {
		return req, &model.ValidationError{Row: row, Field: colSize,
			Message: fmt.Sprintf("size must be a number, got %q", sizeRaw)}
	}
	if size <= 0 {
		return req, &model.ValidationError{Row: row, Field: colSize,
			Message: fmt.Sprintf("size must be positive, got %d", size)}
	}

	ctx := cell(record, columns, colContext)
	if ctx == "" {
		return req, &model.ValidationError{Row: row, Field: colContext, Message: "missing or empty"}
	}
	if !safePathComponent(ctx) {
		return req, &model.ValidationError{Row: row, Field: colContext,
			Message: fmt.Sprintf("context %q must not contain path separators", ctx)}
	}

	filename := cell(record, columns, colFilename)
	if filename != "" && !safePathComponent(filename) {
		return req, &model.ValidationError{Row: row, Field: colFilename,
			Message: fmt.Sprintf("filename %q must not contain path separators", filename)}
	}

	req = model.VariantRequest{
		Row:      row,
		Mode:     mode,
		Finish:   finish,
		SizePx:   size,
		Context:  ctx,
		Filename: filename,
	}
	return req, nil
}

// safePathComponent reports whether the value is usable as a single path
// component: no separators, no parent/current-dir names, no NUL.
func safePathComponent(value string) bool {
	if value == "." || value == ".." {
		return false
	}
	return !strings.ContainsAny(value, "/\\\x00")
}

// BaseName returns the output filename stem for a request: the explicit
// Filename with its extension stripped, or the derived
// "strategy_icon-{mode}-{finish}-{size}px" name. Rerunning an identical
// CSV yields identical output paths.
func BaseName(req model.VariantRequest) string {
	if req.Filename != "" {
		name := req.Filename
		if ext := path.Ext(name); ext != "" {
			name = strings.TrimSuffix(name, ext)
		}
		return name
	}
	return fmt.Sprintf("%s-%s-%s-%dpx", IconBaseName, req.Mode, req.Finish, req.SizePx)
}

// RelativeSVGPath returns the output SVG path for a request, relative to
// the output directory. Shared between duplicate detection here and path
// resolution in the resolver so the two can never disagree.
func RelativeSVGPath(req model.VariantRequest) string {
	return path.Join(string(req.Mode), req.Finish, fmt.Sprintf("%dpx", req.SizePx), req.Context, BaseName(req)+".svg")
}
