// Package log настраивает slog для приложения: уровень, формат, необязательный
// файл с ротацией и сокращение data URI.
package log

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"ficchat/internal/pkg/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel преобразует строку в slog.Level. Неизвестные значения дают Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup создает логгер по конфигурации. Консольные записи идут в w; если задан
// cfg.File, JSON-копия пишется в файл с ротацией. Возвращаемый io.Closer
// закрывает файл (или ничего не делает).
func Setup(cfg config.Logging, w io.Writer) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var console slog.Handler
	switch cfg.Format {
	case "json":
		console = slog.NewJSONHandler(w, opts)
	default:
		console = slog.NewTextHandler(w, opts)
	}

	if strings.TrimSpace(cfg.File) == "" {
		return slog.New(NewDataURIElider(console)), nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // дней
		Compress:   true,
	}
	fileHandler := slog.NewJSONHandler(file, opts)

	return slog.New(NewDataURIElider(fanout{console, fileHandler})), file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// fanout рассылает записи в несколько обработчиков.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make(fanout, len(f))
	for i, h := range f {
		res[i] = h.WithAttrs(attrs)
	}
	return res
}

func (f fanout) WithGroup(name string) slog.Handler {
	res := make(fanout, len(f))
	for i, h := range f {
		res[i] = h.WithGroup(name)
	}
	return res
}
