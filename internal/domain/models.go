package domain

import "strings"

// Side определяет, с какой стороны экрана отображаются сообщения участника.
type Side string

const (
	// SideSelf — "я", сообщения справа.
	SideSelf Side = "self"
	// SideOther — собеседник, сообщения слева.
	SideOther Side = "other"
)

// ParseSide разбирает строковое значение стороны. Пустая строка означает SideOther.
func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "other", "left", "recv":
		return SideOther, true
	case "self", "right", "sent":
		return SideSelf, true
	default:
		return "", false
	}
}

// User представляет участника переписки.
type User struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar" yaml:"avatar"` // URI изображения (обычно data URI)
	Side   Side   `json:"side" yaml:"side"`
}

// IsSelf сообщает, отображается ли участник справа.
func (u User) IsSelf() bool {
	return u.Side == SideSelf
}

// MessageKind определяет тип сообщения.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindTime  MessageKind = "time"
)

// Message — закрытый вариантный тип. Реализации: TextMessage, ImageMessage, TimeMessage.
type Message interface {
	MessageID() string
	Kind() MessageKind
	// Content возвращает текст, URI изображения или системную подпись.
	Content() string
	// WithContent возвращает копию сообщения с новым содержимым.
	WithContent(content string) Message
	isMessage()
}

// TextMessage описывает текстовое сообщение участника.
type TextMessage struct {
	ID       string
	AuthorID string
	Text     string
}

// ImageMessage описывает изображение от участника. Source содержит URI.
type ImageMessage struct {
	ID       string
	AuthorID string
	Source   string
}

// TimeMessage — системная отметка (время, дата, реплика рассказчика). Автора нет.
type TimeMessage struct {
	ID   string
	Text string
}

func (m TextMessage) MessageID() string  { return m.ID }
func (m TextMessage) Kind() MessageKind  { return KindText }
func (m TextMessage) Content() string    { return m.Text }
func (m ImageMessage) MessageID() string { return m.ID }
func (m ImageMessage) Kind() MessageKind { return KindImage }
func (m ImageMessage) Content() string   { return m.Source }
func (m TimeMessage) MessageID() string  { return m.ID }
func (m TimeMessage) Kind() MessageKind  { return KindTime }
func (m TimeMessage) Content() string    { return m.Text }

func (m TextMessage) WithContent(content string) Message {
	m.Text = content
	return m
}

func (m ImageMessage) WithContent(content string) Message {
	m.Source = content
	return m
}

func (m TimeMessage) WithContent(content string) Message {
	m.Text = content
	return m
}

func (TextMessage) isMessage()  {}
func (ImageMessage) isMessage() {}
func (TimeMessage) isMessage()  {}

// AuthorOf возвращает ID автора сообщения. Для TimeMessage ok == false.
func AuthorOf(m Message) (authorID string, ok bool) {
	switch msg := m.(type) {
	case TextMessage:
		return msg.AuthorID, true
	case ImageMessage:
		return msg.AuthorID, true
	default:
		return "", false
	}
}

// WithID возвращает копию сообщения с указанным ID.
func WithID(m Message, id string) Message {
	switch msg := m.(type) {
	case TextMessage:
		msg.ID = id
		return msg
	case ImageMessage:
		msg.ID = id
		return msg
	case TimeMessage:
		msg.ID = id
		return msg
	default:
		return m
	}
}

// ParseResult — результат разбора сценария. Не сохраняется, вливается в хранилище одной пачкой.
type ParseResult struct {
	NewUsers    []User
	NewMessages []Message
}

// Empty сообщает, что разбор ничего не дал.
func (r ParseResult) Empty() bool {
	return len(r.NewUsers) == 0 && len(r.NewMessages) == 0
}

// Conversation — снимок переписки: участники и сообщения в порядке добавления.
type Conversation struct {
	Title    string
	Footer   string
	Users    []User
	Messages []Message
}

// UserIndex строит отображение ID -> User.
func (c Conversation) UserIndex() map[string]User {
	return IndexUsers(c.Users)
}

// IndexUsers строит отображение ID -> User для произвольного списка.
func IndexUsers(users []User) map[string]User {
	index := make(map[string]User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}
	return index
}

// Resolve возвращает автора сообщения. Для системных сообщений и "висячих"
// ссылок на удаленных участников ok == false.
func Resolve(m Message, users map[string]User) (User, bool) {
	authorID, hasAuthor := AuthorOf(m)
	if !hasAuthor {
		return User{}, false
	}
	u, ok := users[authorID]
	return u, ok
}

// Renderable сообщает, можно ли отрисовать сообщение. Системные отрисовываются
// всегда, остальные только при существующем авторе.
func Renderable(m Message, users map[string]User) bool {
	if m.Kind() == KindTime {
		return true
	}
	_, ok := Resolve(m, users)
	return ok
}

// ExportData — переносимая разметка: HTML-фрагмент и таблица стилей к нему.
type ExportData struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}
