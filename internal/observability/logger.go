package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger writes JSON to stdout. level overrides the env default when it
// names a slog level (debug, info, warn, error).
func NewLogger(env, level string) *slog.Logger {
	return newLogger(os.Stdout, env, level)
}

func newLogger(w io.Writer, env, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: resolveLevel(env, level),
	})

	return slog.New(NewContextHandler(handler))
}

func resolveLevel(env, level string) slog.Level {
	var lvl slog.Level
	if strings.TrimSpace(level) != "" && lvl.UnmarshalText([]byte(strings.TrimSpace(level))) == nil {
		return lvl
	}

	if env == "dev" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
