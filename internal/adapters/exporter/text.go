package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ficchat/internal/domain"

	"github.com/mattn/go-runewidth"
)

// imagePlaceholder заменяет изображение в текстовых форматах.
const imagePlaceholder = "[image]"

// plainContent возвращает текстовое представление сообщения.
func plainContent(msg domain.Message) string {
	if msg.Kind() == domain.KindImage {
		return imagePlaceholder
	}
	return msg.Content()
}

// outputPath собирает путь к файлу результата и создает каталог при необходимости.
func outputPath(dir, base, ext string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	return filepath.Join(dir, base+ext), nil
}

// cutWidth возвращает количество рун от начала, помещающихся в width
// колонок. Хотя бы одна руна берется всегда, иначе перенос не продвинется.
func cutWidth(runes []rune, width int) int {
	i := 0
	current := 0
	for i < len(runes) {
		w := runewidth.RuneWidth(runes[i])
		if current+w > width {
			break
		}
		current += w
		i++
	}
	if i == 0 && len(runes) > 0 {
		i = 1
	}
	return i
}

// wrapString переносит строку по словам с учетом ширины символов на экране.
// Слово длиннее строки разрезается посередине. Переводы строк сохраняются.
func wrapString(s string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width)...)
	}
	return lines
}

func wrapParagraph(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var currentLine strings.Builder
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)

		if wordWidth > width {
			if currentLine.Len() > 0 {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
			}
			runes := []rune(word)
			for len(runes) > 0 {
				i := cutWidth(runes, width)
				lines = append(lines, string(runes[:i]))
				runes = runes[i:]
			}
			continue
		}

		lineLen := runewidth.StringWidth(currentLine.String())
		if lineLen > 0 && lineLen+1+wordWidth > width {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
		}

		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	return lines
}

// padLeft выравнивает строку по правому краю.
func padLeft(s string, width int) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}

// center выравнивает строку по центру.
func center(s string, width int) string {
	n := (width - runewidth.StringWidth(s)) / 2
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}
