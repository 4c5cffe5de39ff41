package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseMode verifies mode parsing: case-insensitive, whitespace
// tolerant, and rejecting anything outside light/dark.
func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"light", ModeLight, false},
		{"dark", ModeDark, false},
		{"LIGHT", ModeLight, false},
		{" dark ", ModeDark, false},
		{"sepia", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q should be rejected", tt.input)
		} else {
			require.NoError(t, err, "input %q should parse", tt.input)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestModeIsValid(t *testing.T) {
	assert.True(t, ModeLight.IsValid())
	assert.True(t, ModeDark.IsValid())
	assert.False(t, Mode("sepia").IsValid())
	assert.False(t, Mode("").IsValid())
}

// TestVariantRequestString verifies the compact identifier used in
// progress and failure output.
func TestVariantRequestString(t *testing.T) {
	req := VariantRequest{Row: 3, Mode: ModeDark, Finish: "copper-foil", SizePx: 64, Context: "app"}
	assert.Equal(t, "dark/copper-foil/64px/app", req.String())
}

// TestClassify verifies that each domain error type maps to its kind,
// including through wrapping.
func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{NewConfigError("bad path"), KindConfig},
		{&ValidationError{Row: 2, Field: "Mode", Message: "invalid"}, KindValidation},
		{&MissingMasterError{SizePx: 64, Path: "masters/strategy_icon_standard.svg"}, KindMissingMaster},
		{&TemplateError{Path: "m.svg", Message: "no svg root"}, KindTemplate},
		{&FileSystemError{Op: "write", Path: "out.svg", Err: errors.New("disk full")}, KindFilesystem},
		{errors.New("plain"), KindUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "error %v", tt.err)
		// Wrapping must not change the classification.
		assert.Equal(t, tt.want, Classify(fmt.Errorf("wrapped: %w", tt.err)))
	}
}

func TestValidationErrorMessage(t *testing.T) {
	withRow := &ValidationError{Row: 5, Field: "Size (px)", Message: "size must be positive, got -5"}
	assert.Equal(t, "row 5: Size (px): size must be positive, got -5", withRow.Error())

	noRow := &ValidationError{Field: "finish", Message: "unknown"}
	assert.Equal(t, "finish: unknown", noRow.Error())
}

// TestCLIErrorUnwrap verifies that CLIError participates in error chains
// so errors.As can still find the domain error behind it.
func TestCLIErrorUnwrap(t *testing.T) {
	cause := NewConfigError("CSV file not found")
	cliErr := WrapCLIError(ExitConfigInvalid, "invalid configuration", cause)

	assert.Equal(t, ExitConfigInvalid, cliErr.Code)
	assert.Contains(t, cliErr.Error(), "CSV file not found")

	var configErr *ConfigError
	require.True(t, errors.As(cliErr, &configErr))
	assert.Equal(t, "CSV file not found", configErr.Message)
}

func TestBatchSummaryAllFailed(t *testing.T) {
	empty := &BatchSummary{}
	assert.False(t, empty.AllFailed(), "empty batch is not a total failure")

	partial := &BatchSummary{TotalRequested: 3, Succeeded: 1}
	assert.False(t, partial.AllFailed())

	total := &BatchSummary{TotalRequested: 3, Succeeded: 0}
	assert.True(t, total.AllFailed())
}
