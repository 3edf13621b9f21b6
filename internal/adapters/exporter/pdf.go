package exporter

import (
	"fmt"
	"image/color"
	"log/slog"

	"ficchat/internal/domain"
	"ficchat/internal/ports"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin      = 15.0 // мм
	pdfBubbleWidth = 120.0
	pdfLineHeight  = 6.0
)

// PDFExporter сохраняет переписку как документ для печати.
// Встроенный Helvetica поддерживает только cp1252, остальные символы заменяются.
type PDFExporter struct {
	dir      string
	baseName string
	logger   *slog.Logger
}

// NewPDFExporter создает новый экземпляр PDFExporter.
func NewPDFExporter(dir, baseName string, logger *slog.Logger) ports.Exporter {
	return &PDFExporter{
		dir:      dir,
		baseName: baseName,
		logger:   logger.With("component", "pdf_exporter"),
	}
}

// Export записывает <base>.pdf.
func (e *PDFExporter) Export(conv domain.Conversation) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(conv.Title, true)
	pdf.SetAuthor("ficchat", false)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 16)
	setTextColor(pdf, colorText)
	pdf.CellFormat(0, 10, tr(conv.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	users := conv.UserIndex()
	written := 0
	for _, msg := range conv.Messages {
		if msg.Kind() == domain.KindTime {
			pdf.SetFont("Helvetica", "I", 9)
			setTextColor(pdf, colorMuted)
			pdf.MultiCell(0, 5, tr(msg.Content()), "", "C", false)
			pdf.Ln(2)
			written++
			continue
		}

		user, ok := domain.Resolve(msg, users)
		if !ok {
			continue
		}

		if user.IsSelf() {
			pdf.SetFont("Helvetica", "", 11)
			setFillColor(pdf, colorSent)
			setTextColor(pdf, colorWhite)
			pdf.SetX(pageW - pdfMargin - pdfBubbleWidth)
			pdf.MultiCell(pdfBubbleWidth, pdfLineHeight, tr(plainContent(msg)), "", "R", true)
		} else {
			pdf.SetFont("Helvetica", "B", 9)
			setTextColor(pdf, colorMuted)
			pdf.CellFormat(0, 5, tr(user.Name), "", 1, "L", false, 0, "")

			pdf.SetFont("Helvetica", "", 11)
			setFillColor(pdf, colorRecv)
			setTextColor(pdf, colorText)
			pdf.MultiCell(pdfBubbleWidth, pdfLineHeight, tr(plainContent(msg)), "", "L", true)
		}
		pdf.Ln(2)
		written++
	}

	if conv.Footer != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		setTextColor(pdf, colorMuted)
		pdf.MultiCell(0, 5, tr(conv.Footer), "", "C", false)
	}

	path, err := outputPath(e.dir, e.baseName, ".pdf")
	if err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	e.logger.Info("transcript exported", "path", path, "messages", written)
	return nil
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
