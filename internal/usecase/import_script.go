package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ficchat/internal/cache"
	"ficchat/internal/domain"
	"ficchat/internal/ports"
	"ficchat/internal/store"
)

// ImportSummary описывает результат импорта одного сценария.
type ImportSummary struct {
	Messages int
	NewUsers int
	// Duplicate означает, что такой же текст уже импортировался и был пропущен.
	Duplicate bool
}

// ImportScriptUseCase разбирает сценарий и вливает результат в хранилище.
type ImportScriptUseCase struct {
	parser ports.ScriptParser
	store  *store.ConversationStore
	seen   *cache.ScriptCache
	logger *slog.Logger
}

// NewImportScriptUseCase создает новый экземпляр ImportScriptUseCase.
// seen может быть nil, тогда повторы не отслеживаются.
func NewImportScriptUseCase(
	parser ports.ScriptParser,
	st *store.ConversationStore,
	seen *cache.ScriptCache,
	logger *slog.Logger,
) *ImportScriptUseCase {
	return &ImportScriptUseCase{
		parser: parser,
		store:  st,
		seen:   seen,
		logger: logger.With("component", "import"),
	}
}

// Import загружает сценарий из источника, разбирает его относительно текущего
// состава участников и добавляет пользователей и сообщения одной пачкой.
func (uc *ImportScriptUseCase) Import(ctx context.Context, src ports.DataSource) (ImportSummary, error) {
	if err := ctx.Err(); err != nil {
		return ImportSummary{}, err
	}

	data, err := src.Fetch()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("не удалось загрузить сценарий: %w", err)
	}

	hash := cache.HashScript(data)
	if uc.seen != nil && !uc.seen.MarkNew(hash) {
		uc.logger.Warn("script already imported, skipping", "hash", hash[:12])
		return ImportSummary{Duplicate: true}, nil
	}

	// разбор и слияние под одной блокировкой хранилища
	result := uc.store.Merge(func(users []domain.User) domain.ParseResult {
		return uc.parser.Parse(string(data), users)
	})
	if result.Empty() {
		uc.logger.Warn("script produced no messages")
	}

	summary := ImportSummary{
		Messages: len(result.NewMessages),
		NewUsers: len(result.NewUsers),
	}
	uc.logger.Info(fmt.Sprintf("imported %d messages, %d new characters", summary.Messages, summary.NewUsers))
	for _, u := range result.NewUsers {
		uc.logger.Debug("new character", "id", u.ID, "name", u.Name, "avatar", u.Avatar)
	}
	return summary, nil
}

// ImportAll импортирует источники по порядку и останавливается на первой ошибке.
func (uc *ImportScriptUseCase) ImportAll(ctx context.Context, sources []ports.DataSource) (ImportSummary, error) {
	var total ImportSummary
	for i, src := range sources {
		s, err := uc.Import(ctx, src)
		if err != nil {
			return total, fmt.Errorf("источник %d: %w", i+1, err)
		}
		total.Messages += s.Messages
		total.NewUsers += s.NewUsers
	}
	if uc.seen != nil {
		uc.logger.Debug("import finished", "distinct_scripts", uc.seen.Len())
	}
	return total, nil
}
