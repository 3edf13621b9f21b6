// Package store хранит единственную активную переписку. Все изменения идут
// через явные операции; наружу отдаются только копии.
package store

import (
	"errors"
	"fmt"
	"sync"

	"ficchat/internal/core/avatar"
	"ficchat/internal/domain"
	"ficchat/internal/ports"

	"github.com/google/uuid"
)

// DefaultTitle — заголовок переписки по умолчанию.
const DefaultTitle = "Group Chat"

var (
	ErrNoUsers         = errors.New("в переписке должен быть хотя бы один участник")
	ErrLastUser        = errors.New("нельзя удалить последнего участника")
	ErrUserNotFound    = errors.New("участник не найден")
	ErrDuplicateUser   = errors.New("участник с таким ID уже существует")
	ErrMessageNotFound = errors.New("сообщение не найдено")
)

// UserPatch описывает частичное обновление участника. nil-поля не меняются.
type UserPatch struct {
	Name   *string
	Avatar *string
	Side   *domain.Side
}

// ConversationStore управляет участниками и сообщениями одной переписки.
type ConversationStore struct {
	title    string
	footer   string
	users    []domain.User
	messages []domain.Message
	newID    ports.IDGenerator
	mutex    sync.RWMutex
}

// Option настраивает ConversationStore.
type Option func(*ConversationStore)

// WithIDGenerator задает генератор идентификаторов для новых записей.
func WithIDGenerator(gen ports.IDGenerator) Option {
	return func(cs *ConversationStore) {
		if gen != nil {
			cs.newID = gen
		}
	}
}

// WithTitle задает заголовок переписки.
func WithTitle(title string) Option {
	return func(cs *ConversationStore) {
		cs.title = title
	}
}

// WithFooter задает подпись под перепиской.
func WithFooter(footer string) Option {
	return func(cs *ConversationStore) {
		cs.footer = footer
	}
}

// NewConversationStore создает хранилище со стартовым составом участников.
func NewConversationStore(users []domain.User, opts ...Option) (*ConversationStore, error) {
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	cs := &ConversationStore{
		title: DefaultTitle,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(cs)
	}

	for _, u := range users {
		if _, err := cs.addUserLocked(u); err != nil {
			return nil, err
		}
	}

	return cs, nil
}

// Title возвращает заголовок переписки.
func (cs *ConversationStore) Title() string {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()
	return cs.title
}

// SetTitle меняет заголовок переписки.
func (cs *ConversationStore) SetTitle(title string) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	cs.title = title
}

// SetFooter меняет подпись под перепиской.
func (cs *ConversationStore) SetFooter(footer string) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	cs.footer = footer
}

// AddUser добавляет участника. Пустой ID генерируется, пустой аватар строится по имени.
func (cs *ConversationStore) AddUser(u domain.User) (domain.User, error) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	return cs.addUserLocked(u)
}

func (cs *ConversationStore) addUserLocked(u domain.User) (domain.User, error) {
	if u.ID == "" {
		u.ID = cs.newID()
	}
	if cs.userIndexLocked(u.ID) >= 0 {
		return domain.User{}, fmt.Errorf("%w: %s", ErrDuplicateUser, u.ID)
	}
	if u.Avatar == "" {
		u.Avatar = avatar.Derive(u.Name, "")
	}
	if u.Side == "" {
		u.Side = domain.SideOther
	}

	cs.users = append(cs.users, u)
	return u, nil
}

// UpdateUser применяет частичное обновление к участнику.
func (cs *ConversationStore) UpdateUser(id string, patch UserPatch) (domain.User, error) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	i := cs.userIndexLocked(id)
	if i < 0 {
		return domain.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}

	u := &cs.users[i]
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Avatar != nil {
		u.Avatar = *patch.Avatar
	}
	if patch.Side != nil {
		u.Side = *patch.Side
	}
	return *u, nil
}

// DeleteUser удаляет участника. Его сообщения остаются и при отрисовке пропускаются.
func (cs *ConversationStore) DeleteUser(id string) error {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	i := cs.userIndexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	if len(cs.users) <= 1 {
		return ErrLastUser
	}

	cs.users = append(cs.users[:i], cs.users[i+1:]...)
	return nil
}

// User возвращает участника по ID.
func (cs *ConversationStore) User(id string) (domain.User, error) {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	i := cs.userIndexLocked(id)
	if i < 0 {
		return domain.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return cs.users[i], nil
}

// Users возвращает копию списка участников.
func (cs *ConversationStore) Users() []domain.User {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()
	return append([]domain.User(nil), cs.users...)
}

// AddMessage добавляет сообщение в конец переписки и присваивает ему ID.
// Автор текстового сообщения или изображения должен существовать.
func (cs *ConversationStore) AddMessage(msg domain.Message) (domain.Message, error) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if authorID, ok := domain.AuthorOf(msg); ok && cs.userIndexLocked(authorID) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, authorID)
	}

	msg = domain.WithID(msg, cs.newID())
	cs.messages = append(cs.messages, msg)
	return msg, nil
}

// UpdateMessage заменяет содержимое сообщения, сохраняя его место в списке.
func (cs *ConversationStore) UpdateMessage(id, content string) (domain.Message, error) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	i := cs.messageIndexLocked(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, id)
	}

	cs.messages[i] = cs.messages[i].WithContent(content)
	return cs.messages[i], nil
}

// DeleteMessage удаляет одно сообщение.
func (cs *ConversationStore) DeleteMessage(id string) error {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	i := cs.messageIndexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrMessageNotFound, id)
	}

	cs.messages = append(cs.messages[:i], cs.messages[i+1:]...)
	return nil
}

// ClearMessages удаляет все сообщения. Участники остаются.
func (cs *ConversationStore) ClearMessages() {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	cs.messages = nil
}

// Messages возвращает копию списка сообщений.
func (cs *ConversationStore) Messages() []domain.Message {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()
	return append([]domain.Message(nil), cs.messages...)
}

// BatchAdd атомарно добавляет результат разбора сценария.
func (cs *ConversationStore) BatchAdd(result domain.ParseResult) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	cs.users = append(cs.users, result.NewUsers...)
	cs.messages = append(cs.messages, result.NewMessages...)
}

// Merge вызывает parse с копией текущего состава и добавляет результат, не
// отпуская блокировку. Параллельные импорты не создают одного участника дважды.
func (cs *ConversationStore) Merge(parse func(users []domain.User) domain.ParseResult) domain.ParseResult {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	result := parse(append([]domain.User(nil), cs.users...))
	cs.users = append(cs.users, result.NewUsers...)
	cs.messages = append(cs.messages, result.NewMessages...)
	return result
}

// Snapshot возвращает согласованный снимок переписки.
func (cs *ConversationStore) Snapshot() domain.Conversation {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	return domain.Conversation{
		Title:    cs.title,
		Footer:   cs.footer,
		Users:    append([]domain.User(nil), cs.users...),
		Messages: append([]domain.Message(nil), cs.messages...),
	}
}

func (cs *ConversationStore) userIndexLocked(id string) int {
	for i, u := range cs.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (cs *ConversationStore) messageIndexLocked(id string) int {
	for i, m := range cs.messages {
		if m.MessageID() == id {
			return i
		}
	}
	return -1
}
