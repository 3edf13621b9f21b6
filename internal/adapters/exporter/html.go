package exporter

import (
	"fmt"
	"log/slog"
	"os"

	"ficchat/internal/domain"
	"ficchat/internal/ports"
)

// HTMLExporter записывает HTML-фрагмент и таблицу стилей в два файла.
type HTMLExporter struct {
	generator ports.MarkupGenerator
	dir       string
	baseName  string
	logger    *slog.Logger
}

// NewHTMLExporter создает новый экземпляр HTMLExporter.
func NewHTMLExporter(generator ports.MarkupGenerator, dir, baseName string, logger *slog.Logger) ports.Exporter {
	return &HTMLExporter{
		generator: generator,
		dir:       dir,
		baseName:  baseName,
		logger:    logger.With("component", "html_exporter"),
	}
}

// Export записывает <base>.html и <base>.css.
func (e *HTMLExporter) Export(conv domain.Conversation) error {
	data := e.generator.Export(conv.Messages, conv.Users)

	htmlPath, err := outputPath(e.dir, e.baseName, ".html")
	if err != nil {
		return err
	}
	if err := os.WriteFile(htmlPath, []byte(data.HTML), 0o644); err != nil {
		return fmt.Errorf("failed to write html: %w", err)
	}

	cssPath, err := outputPath(e.dir, e.baseName, ".css")
	if err != nil {
		return err
	}
	if err := os.WriteFile(cssPath, []byte(data.CSS), 0o644); err != nil {
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}

	e.logger.Info("markup exported", "html", htmlPath, "css", cssPath)
	return nil
}
