package exporter

import (
	"fmt"
	"log/slog"

	"ficchat/internal/domain"
	"ficchat/internal/ports"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Chat"

// XLSXExporter сохраняет сообщения в таблицу: одна строка на сообщение.
type XLSXExporter struct {
	dir      string
	baseName string
	logger   *slog.Logger
}

// NewXLSXExporter создает новый экземпляр XLSXExporter.
func NewXLSXExporter(dir, baseName string, logger *slog.Logger) ports.Exporter {
	return &XLSXExporter{
		dir:      dir,
		baseName: baseName,
		logger:   logger.With("component", "xlsx_exporter"),
	}
}

// Export записывает <base>.xlsx.
func (e *XLSXExporter) Export(conv domain.Conversation) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Error("failed to close excel file", slog.String("error", err.Error()))
		}
	}()

	// новая книга всегда содержит лист Sheet1
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"#", "Kind", "Author", "Side", "Content"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	users := conv.UserIndex()
	row := 2
	for _, msg := range conv.Messages {
		if !domain.Renderable(msg, users) {
			continue
		}

		var author, side string
		if user, ok := domain.Resolve(msg, users); ok {
			author = user.Name
			side = string(user.Side)
		}

		values := []any{row - 1, string(msg.Kind()), author, side, plainContent(msg)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
		row++
	}

	path, err := outputPath(e.dir, e.baseName, ".xlsx")
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("table exported", "path", path, "rows", row-2)
	return nil
}
