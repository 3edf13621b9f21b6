package ports

import (
	"ficchat/internal/domain"
)

// DataSource определяет интерфейс для получения исходного текста сценария.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
}

// ScriptParser определяет интерфейс для разбора сценария вида "Имя: реплика".
type ScriptParser interface {
	// Parse никогда не завершается ошибкой: в худшем случае результат пуст.
	Parse(script string, existingUsers []domain.User) domain.ParseResult
}

// MarkupGenerator определяет интерфейс генератора переносимой HTML-разметки.
type MarkupGenerator interface {
	Generate(messages []domain.Message, users []domain.User) string
	// Export дополняет фрагмент таблицей стилей.
	Export(messages []domain.Message, users []domain.User) domain.ExportData
}

// AvatarGenerator строит изображение аватара по имени и необязательному seed.
type AvatarGenerator func(name, seed string) string

// IDGenerator выдает новые уникальные идентификаторы.
type IDGenerator func() string

// Exporter определяет интерфейс для вывода результата.
type Exporter interface {
	// Export принимает снимок переписки и выводит его в целевой формат.
	Export(conv domain.Conversation) error
}
