package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategydeck/icongen/internal/matrix"
	"github.com/strategydeck/icongen/internal/model"
)

// chdir switches the working directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// TestNewRootCommand verifies the subcommand wiring and the global flag.
func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	names := map[string]bool{}
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["generate"], "generate subcommand registered")
	assert.True(t, names["validate"], "validate subcommand registered")
	assert.True(t, names["palette"], "palette subcommand registered")

	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}

// TestBuildConfigFlagPrecedence verifies that only flags the user set
// override the file/env layers.
func TestBuildConfigFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	// Config file supplies csvPath and a log level.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icongen.yaml"),
		[]byte("csvPath: from-file.csv\nlogLevel: WARN\n"), 0o644))

	cmd := NewGenerateCommand()
	flags := &generateFlags{}
	// Re-bind: NewGenerateCommand owns its flags struct, so drive the
	// layering helper directly with a command whose flags were parsed.
	cmd.Flags().Set("csv", "from-flag.csv")
	flags.csvPath = "from-flag.csv"

	cfg, err := buildConfig(cmd, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-flag.csv", cfg.CSVPath, "set flag wins over file")
	assert.Equal(t, "WARN", cfg.LogLevel, "unset flag leaves the file value")
}

const testMaster = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 48 48">
<rect width="48" height="48" fill="#FF6A00"/>
<path d="M8 8h32v32H8z" fill="#FFFFFF"/>
</svg>`

// setupRun creates a masters dir, CSV matrix, and output dir for an
// end-to-end generate invocation, returning the three paths.
func setupRun(t *testing.T, csv string) (mastersDir, csvPath, outDir string) {
	t.Helper()
	dir := t.TempDir()

	mastersDir = filepath.Join(dir, "masters")
	require.NoError(t, os.Mkdir(mastersDir, 0o755))
	for _, name := range []string{"strategy_icon_micro.svg", "strategy_icon_standard.svg"} {
		require.NoError(t, os.WriteFile(filepath.Join(mastersDir, name), []byte(testMaster), 0o644))
	}

	csvPath = filepath.Join(dir, "matrix.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	outDir = filepath.Join(dir, "out")
	return mastersDir, csvPath, outDir
}

// execute runs the root command with args and returns its error.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	chdir(t, t.TempDir()) // keep the default icongen.yaml lookup inert

	root := NewRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

// TestGenerateEndToEnd runs the full pipeline through the CLI and checks
// the emitted layout.
func TestGenerateEndToEnd(t *testing.T) {
	masters, csv, out := setupRun(t,
		"Mode,Finish,Size (px),Context,Filename\n"+
			"light,flat-orange,16,app,\n"+
			"dark,satin-black,64,web,\n")

	err := execute(t, "generate", "--csv", csv, "--out", out, "--masters", masters, "--no-png")
	require.NoError(t, err)

	svg := filepath.Join(out, "light", "flat-orange", "16px", "app",
		"strategy_icon-light-flat-orange-16px.svg")
	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#FF6A00", "flat-orange foreground survives baking")

	_, err = os.Stat(filepath.Join(out, "dark", "satin-black", "64px", "web",
		"strategy_icon-dark-satin-black-64px.svg"))
	assert.NoError(t, err)
}

// TestGenerateDryRunWritesNothing verifies the dry-run contract over a
// five-row matrix: success, zero files on disk.
func TestGenerateDryRunWritesNothing(t *testing.T) {
	masters, csv, out := setupRun(t,
		"Mode,Finish,Size (px),Context,Filename\n"+
			"light,flat-orange,16,app,\n"+
			"light,flat-orange,32,app,\n"+
			"dark,satin-black,64,web,\n"+
			"dark,copper-foil,128,web,\n"+
			"light,burnt-orange,256,print,\n")

	err := execute(t, "generate", "--csv", csv, "--out", out, "--masters", masters, "--dry-run", "--no-png")
	require.NoError(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "dry run must not create the output dir")
}

// TestGenerateAllFailed verifies the exit contract when every item fails:
// the command errors with ExitBatchFailed.
func TestGenerateAllFailed(t *testing.T) {
	masters, csv, out := setupRun(t,
		"Mode,Finish,Size (px),Context,Filename\n"+
			"light,flat-orange,64,app,\n")
	// Remove the standard master so the only request has nothing to use.
	require.NoError(t, os.Remove(filepath.Join(masters, "strategy_icon_standard.svg")))

	err := execute(t, "generate", "--csv", csv, "--out", out, "--masters", masters, "--no-png")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitBatchFailed, cliErr.Code)
}

// TestGenerateStrictFailsOnRejectedRows verifies strict mode turns a
// partial success into a failure.
func TestGenerateStrictFailsOnRejectedRows(t *testing.T) {
	masters, csv, out := setupRun(t,
		"Mode,Finish,Size (px),Context,Filename\n"+
			"light,flat-orange,16,app,\n"+
			"light,neon-pink,16,app,\n")

	// Without strict: partial success, exit 0.
	err := execute(t, "generate", "--csv", csv, "--out", out, "--masters", masters, "--no-png")
	require.NoError(t, err)

	// With strict: the rejected row fails the run.
	err = execute(t, "generate", "--csv", csv, "--out", out, "--masters", masters, "--no-png", "--strict")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitValidationFailed, cliErr.Code)
}

// TestValidateCommand verifies the validate subcommand's exit behavior on
// clean and dirty matrices.
func TestValidateCommand(t *testing.T) {
	masters, csv, _ := setupRun(t,
		"Mode,Finish,Size (px),Context,Filename\n"+
			"light,flat-orange,16,app,\n")

	require.NoError(t, execute(t, "validate", "--csv", csv, "--masters", masters))

	_, badCSV, _ := setupRun(t,
		"Mode,Finish,Size (px),Context,Filename\n"+
			"sepia,flat-orange,16,app,\n")

	err := execute(t, "validate", "--csv", badCSV, "--masters", masters)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitValidationFailed, cliErr.Code)
}

// TestPaletteCommand verifies the palette listing runs clean with and
// without an override file.
func TestPaletteCommand(t *testing.T) {
	require.NoError(t, execute(t, "palette"))

	override := filepath.Join(t.TempDir(), "palette.jsonc")
	require.NoError(t, os.WriteFile(override, []byte(`{"finishes": {"neon-pink": "#FF10F0"}}`), 0o644))
	require.NoError(t, execute(t, "palette", "--palette", override))
}

// TestFinishValidateOnly verifies the validate-only exit contract: clean
// validation returns nil, rejected rows map to ExitValidationFailed.
func TestFinishValidateOnly(t *testing.T) {
	assert.NoError(t, finishValidateOnly(5, nil))

	rowErrors := []matrix.RowError{{
		Row: 2,
		Err: &model.ValidationError{Row: 2, Field: "Mode", Message: "invalid mode \"sepia\""},
	}}
	err := finishValidateOnly(1, rowErrors)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitValidationFailed, cliErr.Code)
}
