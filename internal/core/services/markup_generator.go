package services

import (
	"strings"

	"ficchat/internal/domain"
	"ficchat/internal/ports"
)

// htmlEscaper экранирует пять специальных символов HTML.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML экранирует текст для вставки в текстовый узел или атрибут HTML.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// HTMLGenerator реализует интерфейс MarkupGenerator.
type HTMLGenerator struct{}

// NewHTMLGenerator создает новый экземпляр HTMLGenerator.
func NewHTMLGenerator() ports.MarkupGenerator {
	return &HTMLGenerator{}
}

// Generate строит HTML-фрагмент с классами chat-*. Сообщения, чей автор
// отсутствует в списке участников, пропускаются.
func (g *HTMLGenerator) Generate(messages []domain.Message, users []domain.User) string {
	index := domain.IndexUsers(users)

	var sb strings.Builder
	sb.WriteString(`<div class="chat-container">`)
	sb.WriteString("\n")

	for _, msg := range messages {
		if msg.Kind() == domain.KindTime {
			sb.WriteString("  <div class=\"chat-row time\">\n")
			sb.WriteString("    <span class=\"chat-time-text\">" + EscapeHTML(msg.Content()) + "</span>\n")
			sb.WriteString("  </div>\n")
			continue
		}

		user, ok := domain.Resolve(msg, index)
		if !ok {
			continue
		}

		bubble := renderBubble(msg)
		if user.IsSelf() {
			sb.WriteString("  <div class=\"chat-row sent\">\n")
			sb.WriteString("    " + bubble + "\n")
			sb.WriteString("  </div>\n")
			continue
		}

		name := EscapeHTML(user.Name)
		sb.WriteString("  <div class=\"chat-group\">\n")
		sb.WriteString("    <div class=\"chat-name\">" + name + "</div>\n")
		sb.WriteString("    <div class=\"chat-row recv\">\n")
		sb.WriteString("      <img src=\"" + user.Avatar + "\" class=\"chat-avatar\" alt=\"" + name + "\" />\n")
		sb.WriteString("      " + bubble + "\n")
		sb.WriteString("    </div>\n")
		sb.WriteString("  </div>\n")
	}

	sb.WriteString("</div>")
	return sb.String()
}

func renderBubble(msg domain.Message) string {
	if msg.Kind() == domain.KindImage {
		// src вставляется как есть: это data URI или абсолютный URL
		return `<div class="chat-bubble image-bubble"><img src="` + msg.Content() +
			`" style="max-width:100%; border-radius: 12px;" alt="Image" /></div>`
	}
	return `<div class="chat-bubble">` + EscapeHTML(msg.Content()) + `</div>`
}

// Export возвращает HTML-фрагмент вместе с таблицей стилей для work skin.
func (g *HTMLGenerator) Export(messages []domain.Message, users []domain.User) domain.ExportData {
	return domain.ExportData{
		HTML: g.Generate(messages, users),
		CSS:  WorkSkinCSS,
	}
}
