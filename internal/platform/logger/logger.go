// Package logger は log/slog による構造化ロガーを初期化します。
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New は指定した出力先・レベル・形式（json / text）のロガーを生成します。
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch format {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	return slog.New(h).With(slog.String("service", "forecast_backend")), nil
}

// Init は標準出力向けロガーを生成し、slog のデフォルトに設定します。
func Init(level, format string) (*slog.Logger, error) {
	l, err := New(os.Stdout, level, format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return l, nil
}
