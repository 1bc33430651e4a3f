// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// New returns a logger writing to w. format is "text" or "json"; any other
// format panics since it is validated by the config layer first.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(level),
		AddSource: true,
	}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	case "text":
		opts.ReplaceAttr = shortSource
		return slog.New(slog.NewTextHandler(w, opts))
	default:
		panic(fmt.Sprintf("invalid log format: %s", format))
	}
}

// shortSource keeps the package dir and file name of the source attribute
func shortSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	src, ok := a.Value.Any().(*slog.Source)
	if !ok {
		return a
	}
	parts := strings.Split(filepath.ToSlash(src.File), "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	src.File = strings.Join(parts, "/")
	return a
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
