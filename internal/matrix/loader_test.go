package matrix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategydeck/icongen/internal/model"
	"github.com/strategydeck/icongen/internal/palette"
)

const matrixHeader = "Mode,Finish,Size (px),Context,Filename\n"

// writeCSV writes a matrix file into a temp dir and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matrix.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadValidMatrix verifies that valid rows load in CSV order with all
// fields parsed.
func TestLoadValidMatrix(t *testing.T) {
	path := writeCSV(t, matrixHeader+
		"light,flat-orange,32,app,\n"+
		"dark,copper-foil,64,web,custom-name.png\n"+
		"light,satin-black,16,favicon,\n")

	requests, rowErrors, err := Load(path, palette.Default())
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, requests, 3)

	assert.Equal(t, model.VariantRequest{
		Row: 1, Mode: model.ModeLight, Finish: "flat-orange", SizePx: 32, Context: "app",
	}, requests[0])
	assert.Equal(t, model.VariantRequest{
		Row: 2, Mode: model.ModeDark, Finish: "copper-foil", SizePx: 64, Context: "web",
		Filename: "custom-name.png",
	}, requests[1])
	assert.Equal(t, 3, requests[2].Row, "row order must match CSV order")
}

// TestLoadSkipsInvalidRows verifies the skip-and-continue policy: bad rows
// are collected as errors while the valid rows still load.
func TestLoadSkipsInvalidRows(t *testing.T) {
	path := writeCSV(t, matrixHeader+
		"light,flat-orange,0,app,\n"+ // size zero
		"dark,copper-foil,-5,web,\n"+ // negative size
		"light,neon-pink,32,app,\n"+ // unknown finish
		"sepia,flat-orange,32,app,\n"+ // unknown mode
		"dark,satin-black,abc,web,\n"+ // non-numeric size
		"dark,satin-black,48,web,\n") // valid

	requests, rowErrors, err := Load(path, palette.Default())
	require.NoError(t, err)

	require.Len(t, requests, 1, "only the valid row should survive")
	assert.Equal(t, 6, requests[0].Row)

	require.Len(t, rowErrors, 5)
	for _, re := range rowErrors {
		var verr *model.ValidationError
		require.True(t, errors.As(re.Err, &verr), "row errors must be validation errors")
		assert.Equal(t, re.Row, verr.Row)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5},
		[]int{rowErrors[0].Row, rowErrors[1].Row, rowErrors[2].Row, rowErrors[3].Row, rowErrors[4].Row},
		"row errors preserve CSV order")
}

// TestLoadRejectsPathUnsafeFields verifies the traversal guard on
// context, finish-like, and filename fields.
func TestLoadRejectsPathUnsafeFields(t *testing.T) {
	path := writeCSV(t, matrixHeader+
		"light,flat-orange,32,../escape,\n"+
		"light,flat-orange,32,app,../../evil.svg\n"+
		"light,flat-orange,32,sub/dir,\n")

	requests, rowErrors, err := Load(path, palette.Default())
	require.NoError(t, err)
	assert.Empty(t, requests)
	require.Len(t, rowErrors, 3)
	assert.Contains(t, rowErrors[0].Err.Error(), "path separators")
}

// TestLoadDetectsDuplicateOutputs verifies that two rows resolving to the
// same output path are detected and the later row rejected.
func TestLoadDetectsDuplicateOutputs(t *testing.T) {
	// Rows 1 and 2: identical mode/finish/size/context, both blank
	// Filename, so both derive the same name. Row 3 collides with row 1
	// via an explicit Filename that matches the derived one.
	path := writeCSV(t, matrixHeader+
		"light,flat-orange,32,app,\n"+
		"light,flat-orange,32,app,\n"+
		"light,flat-orange,32,app,strategy_icon-light-flat-orange-32px.png\n"+
		"light,flat-orange,32,app,different.png\n")

	requests, rowErrors, err := Load(path, palette.Default())
	require.NoError(t, err)

	require.Len(t, requests, 2, "first claimant and the distinct filename survive")
	assert.Equal(t, 1, requests[0].Row)
	assert.Equal(t, 4, requests[1].Row)

	require.Len(t, rowErrors, 2)
	assert.Equal(t, 2, rowErrors[0].Row)
	assert.Contains(t, rowErrors[0].Err.Error(), "collides with row 1")
	assert.Equal(t, 3, rowErrors[1].Row)
}

// TestLoadMissingColumns verifies that an incomplete header is a fatal
// configuration error, not a row error.
func TestLoadMissingColumns(t *testing.T) {
	path := writeCSV(t, "Mode,Finish,Context\nlight,flat-orange,app\n")

	_, _, err := Load(path, palette.Default())
	require.Error(t, err)
	assert.Equal(t, model.KindConfig, model.Classify(err))
	assert.Contains(t, err.Error(), "Size (px)")
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.csv"), palette.Default())
	require.Error(t, err)
	assert.Equal(t, model.KindConfig, model.Classify(err))
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	_, _, err := Load(path, palette.Default())
	require.Error(t, err)
	assert.Equal(t, model.KindConfig, model.Classify(err))
}

func TestLoadRejectsNonUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.csv")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x41}, 0o644))

	_, _, err := Load(path, palette.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

// TestLoadToleratesBOM verifies spreadsheet-exported files with a UTF-8
// BOM still parse.
func TestLoadToleratesBOM(t *testing.T) {
	path := writeCSV(t, "\uFEFF"+matrixHeader+"light,flat-orange,32,app,\n")

	requests, rowErrors, err := Load(path, palette.Default())
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, requests, 1)
}

// TestLoadHeaderOnly verifies a matrix with no data rows loads as an
// empty, error-free batch.
func TestLoadHeaderOnly(t *testing.T) {
	path := writeCSV(t, matrixHeader)

	requests, rowErrors, err := Load(path, palette.Default())
	require.NoError(t, err)
	assert.Empty(t, requests)
	assert.Empty(t, rowErrors)
}

// TestBaseNameDerivation verifies derived names are a pure function of
// mode, finish, and size, the idempotent-rerun guarantee.
func TestBaseNameDerivation(t *testing.T) {
	req := model.VariantRequest{Mode: model.ModeDark, Finish: "copper-foil", SizePx: 64, Context: "app"}
	assert.Equal(t, "strategy_icon-dark-copper-foil-64px", BaseName(req))
	// Same inputs, same name.
	assert.Equal(t, BaseName(req), BaseName(req))

	explicit := req
	explicit.Filename = "hero-icon.png"
	assert.Equal(t, "hero-icon", BaseName(explicit), "explicit filename drops its extension")

	noExt := req
	noExt.Filename = "hero-icon"
	assert.Equal(t, "hero-icon", BaseName(noExt))
}

func TestRelativeSVGPath(t *testing.T) {
	req := model.VariantRequest{Mode: model.ModeLight, Finish: "satin-black", SizePx: 16, Context: "favicon"}
	assert.Equal(t, "light/satin-black/16px/favicon/strategy_icon-light-satin-black-16px.svg",
		RelativeSVGPath(req))
}
