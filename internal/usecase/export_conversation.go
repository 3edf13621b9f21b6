package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ficchat/internal/ports"
	"ficchat/internal/store"
)

// NamedExporter связывает экспортер с названием формата для логов и ошибок.
type NamedExporter struct {
	Format   string
	Exporter ports.Exporter
}

// ExportConversationUseCase прогоняет снимок переписки через экспортеры.
type ExportConversationUseCase struct {
	store     *store.ConversationStore
	exporters []NamedExporter
	logger    *slog.Logger
}

// NewExportConversationUseCase создает новый экземпляр ExportConversationUseCase.
func NewExportConversationUseCase(st *store.ConversationStore, exporters []NamedExporter, logger *slog.Logger) *ExportConversationUseCase {
	return &ExportConversationUseCase{
		store:     st,
		exporters: exporters,
		logger:    logger.With("component", "export"),
	}
}

// Export берет один снимок и передает его всем экспортерам по очереди.
// Останавливается на первой ошибке или при отмене контекста.
func (uc *ExportConversationUseCase) Export(ctx context.Context) error {
	conv := uc.store.Snapshot()
	uc.logger.Info("exporting conversation",
		"title", conv.Title,
		"users", len(conv.Users),
		"messages", len(conv.Messages),
		"formats", len(uc.exporters),
	)

	for _, e := range uc.exporters {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("экспорт прерван: %w", err)
		}
		if err := e.Exporter.Export(conv); err != nil {
			return fmt.Errorf("экспорт в %s: %w", e.Format, err)
		}
		uc.logger.Debug("format done", "format", e.Format)
	}
	return nil
}
