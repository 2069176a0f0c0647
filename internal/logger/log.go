package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/6045054-web/CHENGHUI/internal/config"

	"gopkg.in/lumberjack.v2"
)

// redacted attribute keys, matched case-insensitively
var sensitive = map[string]bool{
	"password":      true,
	"token":         true,
	"authorization": true,
	"api_key":       true,
}

// Init installs the process-wide JSON logger. The returned Closer releases the log file.
func Init(cfg config.LogConfig) io.Closer {
	w, closer := output(cfg)
	slog.SetDefault(New(w, cfg.Level))
	Info("log.ready", "level", cfg.Level, "file", cfg.File)
	return closer
}

// New builds a JSON logger writing to w. Debug level also records the call site.
func New(w io.Writer, level string) *slog.Logger {
	lvl := parseLevel(level)
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: redact,
	})
	return slog.New(h).With("app", "chenghui")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func output(cfg config.LogConfig) (io.Writer, io.Closer) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
		writers = append(writers, file)
		closer = file
	}
	switch len(writers) {
	case 0:
		return os.Stdout, closer
	case 1:
		return writers[0], closer
	}
	return io.MultiWriter(writers...), closer
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if sensitive[strings.ToLower(a.Key)] && a.Value.Kind() == slog.KindString && a.Value.String() != "" {
		a.Value = slog.StringValue("***")
	}
	return a
}

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

// parseLevel accepts slog level names such as "debug" or "WARN+2"; anything else is info.
func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
