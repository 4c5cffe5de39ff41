package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/strategydeck/icongen/internal/model"
)

// Default paths, relative to the working directory. All of them can be
// overridden by the config file, environment, or CLI flags.
const (
	DefaultCSVPath    = "strategy_icon_variant_matrix.csv"
	DefaultOutputDir  = "assets/icons"
	DefaultMastersDir = "assets/masters"
	DefaultLogLevel   = "INFO"
)

// DefaultConfigFile is the config file consulted when --config is not
// given. Its absence is not an error.
const DefaultConfigFile = "icongen.yaml"

// Config holds all run settings. Built once at startup via Load and
// read-only afterwards.
//
// YAML tags name the keys in icongen.yaml; env tags name the environment
// override variables. The GitHub token deliberately has no YAML tag: credentials
// come from the environment only, never from a checked-in file.
type Config struct {
	// CSVPath is the variant matrix file.
	CSVPath string `yaml:"csvPath" env:"ICONGEN_CSV_PATH"`

	// OutputDir is the root of the generated icon tree.
	OutputDir string `yaml:"outputDir" env:"ICONGEN_OUTPUT_DIR"`

	// MastersDir holds the micro and standard master SVGs.
	MastersDir string `yaml:"mastersDir" env:"ICONGEN_MASTERS_DIR"`

	// PalettePath is an optional JSONC finish-palette override file.
	PalettePath string `yaml:"palettePath" env:"ICONGEN_PALETTE_PATH"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR (case-insensitive).
	LogLevel string `yaml:"logLevel" env:"ICONGEN_LOG_LEVEL"`

	// LogFile, when non-empty, duplicates log output into a rotating file.
	LogFile string `yaml:"logFile" env:"ICONGEN_LOG_FILE"`

	// DryRun validates and resolves everything but writes no files.
	DryRun bool `yaml:"dryRun" env:"ICONGEN_DRY_RUN"`

	// ValidateOnly loads and validates the config and CSV, then stops
	// before any emission.
	ValidateOnly bool `yaml:"validateOnly" env:"ICONGEN_VALIDATE_ONLY"`

	// Strict makes any per-item failure fail the overall run.
	Strict bool `yaml:"strict" env:"ICONGEN_STRICT"`

	// NoPNG disables PNG export even when rasterization is available.
	NoPNG bool `yaml:"noPNG" env:"ICONGEN_NO_PNG"`

	// PushToGitHub uploads produced files to GitHubRepo after a
	// successful batch.
	PushToGitHub bool `yaml:"pushToGitHub" env:"ICONGEN_PUSH_TO_GITHUB"`

	// GitHubRepo is the target repository in owner/repo form.
	GitHubRepo string `yaml:"githubRepo" env:"GITHUB_REPO"`

	// GitHubToken authenticates the publish step. Environment only.
	GitHubToken string `yaml:"-" env:"GITHUB_TOKEN"`

	// CommitMessage is the commit message used by the publish step.
	// Empty means a generated default describing the batch.
	CommitMessage string `yaml:"commitMessage" env:"ICONGEN_COMMIT_MESSAGE"`
}

// Defaults returns a Config populated with built-in defaults.
func Defaults() Config {
	return Config{
		CSVPath:    DefaultCSVPath,
		OutputDir:  DefaultOutputDir,
		MastersDir: DefaultMastersDir,
		LogLevel:   DefaultLogLevel,
	}
}

// Load builds a Config by layering, in order: defaults, the YAML config
// file (explicit path, or DefaultConfigFile when present), and environment
// overrides. CLI flags are applied by the caller on top of the result,
// since only the CLI layer knows which flags were actually set.
//
// An explicitly named config file must exist; the default file is optional.
func Load(configFile string) (Config, error) {
	cfg := Defaults()

	path := configFile
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, model.WrapConfigError(fmt.Sprintf("config file %s is not valid YAML", path), err)
		}
	case os.IsNotExist(err) && !explicit:
		// No default config file; defaults stand.
	default:
		return cfg, model.WrapConfigError(fmt.Sprintf("config file %s not readable", path), err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, model.WrapConfigError("environment overrides", err)
	}
	return cfg, nil
}

// logLevels are the recognized --log-level values.
var logLevels = map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}

// Validate checks the configuration once at startup. Any failure here is
// fatal: no batch item is processed with an invalid config.
func (c *Config) Validate() error {
	if c.CSVPath == "" {
		return model.NewConfigError("csv path must not be empty")
	}
	if c.OutputDir == "" {
		return model.NewConfigError("output directory must not be empty")
	}
	if c.MastersDir == "" {
		return model.NewConfigError("masters directory must not be empty")
	}

	if _, err := os.Stat(c.CSVPath); err != nil {
		return model.WrapConfigError(fmt.Sprintf("CSV file not found: %s", c.CSVPath), err)
	}
	info, err := os.Stat(c.MastersDir)
	if err != nil {
		return model.WrapConfigError(fmt.Sprintf("masters directory not found: %s", c.MastersDir), err)
	}
	if !info.IsDir() {
		return model.NewConfigError(fmt.Sprintf("masters path is not a directory: %s", c.MastersDir))
	}

	if !logLevels[strings.ToUpper(c.LogLevel)] {
		return model.NewConfigError(
			fmt.Sprintf("invalid log level %q (valid: DEBUG, INFO, WARN, ERROR)", c.LogLevel))
	}

	if c.PushToGitHub {
		if c.GitHubRepo == "" {
			return model.NewConfigError("push-to-github requires a repository (--github-repo or GITHUB_REPO)")
		}
		if !strings.Contains(c.GitHubRepo, "/") {
			return model.NewConfigError(
				fmt.Sprintf("github repository %q must be in owner/repo form", c.GitHubRepo))
		}
	}
	return nil
}
