package services

import (
	"strings"

	"ficchat/internal/core/avatar"
	"ficchat/internal/domain"
	"ficchat/internal/ports"

	"github.com/google/uuid"
)

// systemSpeakers — имена, которые превращают реплику в системную отметку.
// Сравнение без учета регистра. Участник с таким именем тоже станет отметкой.
var systemSpeakers = map[string]struct{}{
	"time":     {},
	"date":     {},
	"narrator": {},
	"旁白":       {},
	"时间":       {},
}

// ScriptParserImpl реализует интерфейс ScriptParser.
type ScriptParserImpl struct {
	newID  ports.IDGenerator
	avatar ports.AvatarGenerator
}

// ScriptParserOption настраивает ScriptParserImpl.
type ScriptParserOption func(*ScriptParserImpl)

// WithIDGenerator задает генератор идентификаторов (по умолчанию uuid).
func WithIDGenerator(gen ports.IDGenerator) ScriptParserOption {
	return func(p *ScriptParserImpl) {
		if gen != nil {
			p.newID = gen
		}
	}
}

// WithAvatarGenerator задает построитель аватаров для новых участников.
func WithAvatarGenerator(gen ports.AvatarGenerator) ScriptParserOption {
	return func(p *ScriptParserImpl) {
		if gen != nil {
			p.avatar = gen
		}
	}
}

// NewScriptParser создает новый экземпляр ScriptParserImpl.
func NewScriptParser(opts ...ScriptParserOption) ports.ScriptParser {
	p := &ScriptParserImpl{
		newID:  uuid.NewString,
		avatar: avatar.Derive,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse превращает сценарий в новых участников и сообщения.
// Переданный список участников не изменяется.
func (p *ScriptParserImpl) Parse(script string, existingUsers []domain.User) domain.ParseResult {
	var result domain.ParseResult

	// Имя в нижнем регистре -> ID, существующие участники плюс созданные в этом вызове
	known := make(map[string]string, len(existingUsers))
	for _, u := range existingUsers {
		known[strings.ToLower(u.Name)] = u.ID
	}

	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		speaker, content, ok := splitLine(line)
		if !ok {
			// Строка без двоеточия считается свободной ремаркой
			result.NewMessages = append(result.NewMessages, domain.TimeMessage{
				ID:   p.newID(),
				Text: line,
			})
			continue
		}

		key := strings.ToLower(speaker)
		if _, isSystem := systemSpeakers[key]; isSystem {
			result.NewMessages = append(result.NewMessages, domain.TimeMessage{
				ID:   p.newID(),
				Text: content,
			})
			continue
		}

		userID, exists := known[key]
		if !exists {
			userID = p.newID()
			result.NewUsers = append(result.NewUsers, domain.User{
				ID:     userID,
				Name:   speaker,
				Avatar: p.avatar(speaker, userID),
				Side:   domain.SideOther,
			})
			known[key] = userID
		}

		result.NewMessages = append(result.NewMessages, domain.TextMessage{
			ID:       p.newID(),
			AuthorID: userID,
			Text:     content,
		})
	}

	return result
}

// splitLine делит строку по первому двоеточию (":" или "："). Имя и текст
// должны быть непустыми, иначе строка не считается репликой.
func splitLine(line string) (speaker, content string, ok bool) {
	idx := strings.IndexAny(line, ":：")
	if idx <= 0 {
		return "", "", false
	}

	colonLen := len(":")
	if strings.HasPrefix(line[idx:], "：") {
		colonLen = len("：")
	}

	rest := line[idx+colonLen:]
	if rest == "" {
		return "", "", false
	}

	return strings.TrimSpace(line[:idx]), strings.TrimSpace(rest), true
}
