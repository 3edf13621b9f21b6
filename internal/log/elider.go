package log

import (
	"context"
	"log/slog"
	"regexp"

	"ficchat/internal/pkg/datauri"
)

// payloadLimit: сколько символов payload data URI оставлять в логах.
const payloadLimit = 24

// DataURIElider — обертка для slog.Handler, которая сокращает data URI в логах.
// Изображения в переписке хранятся как base64 и иначе занимают мегабайты лога.
type DataURIElider struct {
	handler slog.Handler
}

// NewDataURIElider создает новый обработчик с сокращением data URI
func NewDataURIElider(handler slog.Handler) *DataURIElider {
	return &DataURIElider{
		handler: handler,
	}
}

var dataURIRegex = regexp.MustCompile(`data:[^,\s"']*,[^\s"'<>)]+`)

// elideDataURIs заменяет длинные data URI в тексте на сокращенные
func elideDataURIs(text string) string {
	return dataURIRegex.ReplaceAllStringFunc(text, func(uri string) string {
		return datauri.Elide(uri, payloadLimit)
	})
}

// Enabled реализует интерфейс slog.Handler
func (h *DataURIElider) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle реализует интерфейс slog.Handler
func (h *DataURIElider) Handle(ctx context.Context, record slog.Record) error {
	// Clone() не копирует атрибуты в независимую память, поэтому собираем
	// новую запись и добавляем атрибуты заново.
	r := slog.NewRecord(record.Time, record.Level, elideDataURIs(record.Message), record.PC)

	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(slog.Attr{
			Key:   a.Key,
			Value: elideValue(a.Value),
		})
		return true
	})

	return h.handler.Handle(ctx, r)
}

// WithAttrs реализует интерфейс slog.Handler
func (h *DataURIElider) WithAttrs(attrs []slog.Attr) slog.Handler {
	elided := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		elided[i] = slog.Attr{
			Key:   attr.Key,
			Value: elideValue(attr.Value),
		}
	}
	return &DataURIElider{
		handler: h.handler.WithAttrs(elided),
	}
}

// WithGroup реализует интерфейс slog.Handler
func (h *DataURIElider) WithGroup(name string) slog.Handler {
	return &DataURIElider{
		handler: h.handler.WithGroup(name),
	}
}

// elideValue рекурсивно сокращает значения атрибутов
func elideValue(value slog.Value) slog.Value {
	switch value.Kind() {
	case slog.KindString:
		return slog.StringValue(elideDataURIs(value.String()))
	case slog.KindAny:
		if err, ok := value.Any().(error); ok {
			return slog.StringValue(elideDataURIs(err.Error()))
		}
		return value
	case slog.KindLogValuer:
		return elideValue(value.Resolve())
	case slog.KindGroup:
		group := value.Group()
		elided := make([]slog.Attr, len(group))
		for i, attr := range group {
			elided[i] = slog.Attr{
				Key:   attr.Key,
				Value: elideValue(attr.Value),
			}
		}
		return slog.GroupValue(elided...)
	default:
		return value
	}
}
