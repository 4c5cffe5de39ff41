// Package logging configures the process logger: an slog text handler on
// stderr at the requested level, optionally duplicated into a rotating
// log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/strategydeck/icongen/internal/model"
)

// levelNames maps the recognized --log-level values to slog levels.
var levelNames = map[string]slog.Level{
	"DEBUG": slog.LevelDebug,
	"INFO":  slog.LevelInfo,
	"WARN":  slog.LevelWarn,
	"ERROR": slog.LevelError,
}

// ParseLevel converts a level name (case-insensitive) to an slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	level, ok := levelNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, model.NewConfigError(
			fmt.Sprintf("unknown log level %q (valid: DEBUG, INFO, WARN, ERROR)", name))
	}
	return level, nil
}

// Setup builds the run logger. Console output goes to stderr so stdout
// stays reserved for command output. When file is non-empty, log lines
// are also written to a size-rotated file (50 MB, 3 backups); its parent
// directory is created if needed.
func Setup(levelName, file string) (*slog.Logger, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, model.WrapConfigError(fmt.Sprintf("cannot create log directory for %s", file), err)
		}
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
		})
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), nil
}
