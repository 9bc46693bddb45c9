// Package logging sets up the structured JSON logger shared by the server and
// the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*slog.Logger
	// LogFile is empty when logging to stderr.
	LogFile string
	closer  io.Closer
}

func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%s: invalid log level", level)
}

// New logs to a rotating file under dir, or to stderr when dir is empty.
func New(name, level, dir string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	l := &Logger{}
	var w io.Writer = os.Stderr
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   filepath.Join(dir, name+".slog"),
			MaxSize:    64, // MB
			MaxAge:     14,
			MaxBackups: 8,
			Compress:   true,
		}
		w, l.LogFile, l.closer = lj, lj.Filename, lj
	}
	l.Logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))

	attrs := []any{
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		attrs = append(attrs, slog.String("go", bi.GoVersion), slog.String("module", bi.Main.Version))
	}
	l.Debug("logger started", attrs...)
	return l, nil
}

func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
