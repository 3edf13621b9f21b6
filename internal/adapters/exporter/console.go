package exporter

import (
	"fmt"
	"io"
	"strings"

	"ficchat/internal/domain"
	"ficchat/internal/ports"

	"github.com/mattn/go-runewidth"
)

// ConsoleExporter выводит переписку в виде текстовой стенограммы.
// Свои сообщения выравниваются вправо, чужие идут с префиксом "Имя:",
// системные отметки центрируются.
type ConsoleExporter struct {
	out   io.Writer
	width int
}

// NewConsoleExporter создает новый экземпляр ConsoleExporter.
func NewConsoleExporter(out io.Writer, width int) ports.Exporter {
	if width <= 0 {
		width = 80
	}
	return &ConsoleExporter{
		out:   out,
		width: width,
	}
}

// Export выводит стенограмму в поток.
func (e *ConsoleExporter) Export(conv domain.Conversation) error {
	var sb strings.Builder

	title := "--- " + conv.Title + " ---"
	sb.WriteString(center(title, e.width) + "\n")

	users := conv.UserIndex()
	bubbleWidth := e.width * 3 / 4

	for _, msg := range conv.Messages {
		if msg.Kind() == domain.KindTime {
			for _, line := range wrapString(msg.Content(), e.width) {
				sb.WriteString(center(line, e.width) + "\n")
			}
			continue
		}

		user, ok := domain.Resolve(msg, users)
		if !ok {
			continue
		}

		content := plainContent(msg)
		if user.IsSelf() {
			for _, line := range wrapString(content, bubbleWidth) {
				sb.WriteString(padLeft(line, e.width) + "\n")
			}
			continue
		}

		prefix := user.Name + ": "
		indent := strings.Repeat(" ", runewidth.StringWidth(prefix))
		for i, line := range wrapString(content, bubbleWidth) {
			if i == 0 {
				sb.WriteString(prefix + line + "\n")
			} else {
				sb.WriteString(indent + line + "\n")
			}
		}
	}

	if conv.Footer != "" {
		sb.WriteString(center(conv.Footer, e.width) + "\n")
	}

	if _, err := io.WriteString(e.out, sb.String()); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
