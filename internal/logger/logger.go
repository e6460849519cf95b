// Package logger builds the structured loggers used by the command.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig holds rotation settings for a log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default rotation settings for path.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// New returns a logger at the given level writing to stderr and, if
// file is not empty, to a rotated log file.
func New(level, file string) (*zap.Logger, error) {
	var fc FileConfig
	if file != "" {
		fc = DefaultFileConfig(file)
	}
	return NewWithWriters(level, fc, os.Stderr)
}

// NewWithWriters is like New but writes console output to console,
// which may be nil to disable it.
func NewWithWriters(level string, fc FileConfig, console io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core
	if console != nil {
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			MessageKey:       "msg",
			EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
			EncodeLevel:      zapcore.CapitalLevelEncoder,
			EncodeDuration:   zapcore.StringDurationEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(console), lvl))
	}
	if fc.Path != "" {
		w := &lumberjack.Logger{
			Filename:   fc.Path,
			MaxSize:    fc.MaxSizeMB,
			MaxBackups: fc.MaxBackups,
			MaxAge:     fc.MaxAgeDays,
			Compress:   fc.Compress,
			LocalTime:  true,
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
