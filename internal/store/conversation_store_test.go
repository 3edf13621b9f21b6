package store

import (
	"fmt"
	"sync"
	"testing"

	"ficchat/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func newTestStore(t *testing.T) *ConversationStore {
	t.Helper()
	cs, err := NewConversationStore([]domain.User{
		{ID: "a", Name: "Alex", Avatar: "av-a", Side: domain.SideOther},
		{ID: "b", Name: "Riley", Avatar: "av-b", Side: domain.SideSelf},
	}, WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	return cs
}

func TestNewConversationStore(t *testing.T) {
	t.Run("Без участников — ошибка", func(t *testing.T) {
		_, err := NewConversationStore(nil)
		assert.ErrorIs(t, err, ErrNoUsers)
	})

	t.Run("Дубликат ID — ошибка", func(t *testing.T) {
		_, err := NewConversationStore([]domain.User{{ID: "a"}, {ID: "a"}})
		assert.ErrorIs(t, err, ErrDuplicateUser)
	})

	t.Run("Заголовок по умолчанию и опции", func(t *testing.T) {
		cs := newTestStore(t)
		assert.Equal(t, DefaultTitle, cs.Title())

		cs2, err := NewConversationStore([]domain.User{{ID: "x", Name: "X"}}, WithTitle("Team"), WithFooter("end"))
		require.NoError(t, err)
		snap := cs2.Snapshot()
		assert.Equal(t, "Team", snap.Title)
		assert.Equal(t, "end", snap.Footer)
	})
}

func TestUsers(t *testing.T) {
	t.Run("AddUser заполняет ID, аватар и сторону", func(t *testing.T) {
		cs := newTestStore(t)
		u, err := cs.AddUser(domain.User{Name: "Sam"})
		require.NoError(t, err)

		assert.Equal(t, "gen-1", u.ID)
		assert.Equal(t, domain.SideOther, u.Side)
		assert.Contains(t, u.Avatar, "data:image/svg+xml")
		assert.Len(t, cs.Users(), 3)
	})

	t.Run("UpdateUser меняет только заданные поля", func(t *testing.T) {
		cs := newTestStore(t)
		name := "Alexandra"
		side := domain.SideSelf
		u, err := cs.UpdateUser("a", UserPatch{Name: &name, Side: &side})
		require.NoError(t, err)

		assert.Equal(t, "Alexandra", u.Name)
		assert.Equal(t, domain.SideSelf, u.Side)
		assert.Equal(t, "av-a", u.Avatar)

		_, err = cs.UpdateUser("missing", UserPatch{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Нельзя удалить последнего участника", func(t *testing.T) {
		cs := newTestStore(t)
		require.NoError(t, cs.DeleteUser("a"))

		err := cs.DeleteUser("b")
		assert.ErrorIs(t, err, ErrLastUser)
		assert.Len(t, cs.Users(), 1)

		assert.ErrorIs(t, cs.DeleteUser("missing"), ErrUserNotFound)
	})

	t.Run("Удаление участника не удаляет его сообщения", func(t *testing.T) {
		cs := newTestStore(t)
		_, err := cs.AddMessage(domain.TextMessage{AuthorID: "a", Text: "hi"})
		require.NoError(t, err)

		require.NoError(t, cs.DeleteUser("a"))
		assert.Len(t, cs.Messages(), 1)

		_, err = cs.User("a")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Users возвращает копию", func(t *testing.T) {
		cs := newTestStore(t)
		users := cs.Users()
		users[0].Name = "changed"

		u, err := cs.User("a")
		require.NoError(t, err)
		assert.Equal(t, "Alex", u.Name)
	})
}

func TestMessages(t *testing.T) {
	t.Run("AddMessage присваивает ID", func(t *testing.T) {
		cs := newTestStore(t)
		m, err := cs.AddMessage(domain.TimeMessage{Text: "10:30"})
		require.NoError(t, err)
		assert.Equal(t, "gen-1", m.MessageID())
	})

	t.Run("AddMessage отклоняет неизвестного автора", func(t *testing.T) {
		cs := newTestStore(t)
		_, err := cs.AddMessage(domain.ImageMessage{AuthorID: "ghost", Source: "data:,"})
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Empty(t, cs.Messages())
	})

	t.Run("UpdateMessage меняет содержимое на месте", func(t *testing.T) {
		cs := newTestStore(t)
		first, _ := cs.AddMessage(domain.TextMessage{AuthorID: "a", Text: "one"})
		_, _ = cs.AddMessage(domain.TextMessage{AuthorID: "b", Text: "two"})

		updated, err := cs.UpdateMessage(first.MessageID(), "uno")
		require.NoError(t, err)
		assert.Equal(t, "uno", updated.Content())

		msgs := cs.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "uno", msgs[0].Content())
		assert.Equal(t, "two", msgs[1].Content())

		_, err = cs.UpdateMessage("missing", "x")
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})

	t.Run("DeleteMessage и ClearMessages", func(t *testing.T) {
		cs := newTestStore(t)
		m1, _ := cs.AddMessage(domain.TimeMessage{Text: "1"})
		_, _ = cs.AddMessage(domain.TimeMessage{Text: "2"})

		require.NoError(t, cs.DeleteMessage(m1.MessageID()))
		assert.Len(t, cs.Messages(), 1)
		assert.ErrorIs(t, cs.DeleteMessage(m1.MessageID()), ErrMessageNotFound)

		cs.ClearMessages()
		assert.Empty(t, cs.Messages())
		assert.Len(t, cs.Users(), 2)
	})
}

func TestBatchAdd(t *testing.T) {
	cs := newTestStore(t)
	_, _ = cs.AddMessage(domain.TimeMessage{Text: "existing"})

	cs.BatchAdd(domain.ParseResult{
		NewUsers: []domain.User{{ID: "c", Name: "Sam", Side: domain.SideOther}},
		NewMessages: []domain.Message{
			domain.TextMessage{ID: "m1", AuthorID: "c", Text: "hey"},
			domain.TimeMessage{ID: "m2", Text: "later"},
		},
	})

	snap := cs.Snapshot()
	require.Len(t, snap.Users, 3)
	assert.Equal(t, "Sam", snap.Users[2].Name)
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, "existing", snap.Messages[0].Content())
	assert.Equal(t, "hey", snap.Messages[1].Content())
	assert.Equal(t, "later", snap.Messages[2].Content())
}

func TestMerge(t *testing.T) {
	cs := newTestStore(t)

	var seen []domain.User
	result := cs.Merge(func(users []domain.User) domain.ParseResult {
		seen = users
		return domain.ParseResult{
			NewUsers:    []domain.User{{ID: "c", Name: "Sam", Side: domain.SideOther}},
			NewMessages: []domain.Message{domain.TextMessage{ID: "m1", AuthorID: "c", Text: "hey"}},
		}
	})

	assert.Len(t, seen, 2)
	assert.Len(t, result.NewUsers, 1)
	assert.Len(t, cs.Users(), 3)
	require.Len(t, cs.Messages(), 1)

	// переданный состав является копией
	seen[0].Name = "changed"
	assert.NotEqual(t, "changed", cs.Users()[0].Name)
}

func TestSnapshotIsCopy(t *testing.T) {
	cs := newTestStore(t)
	_, _ = cs.AddMessage(domain.TimeMessage{Text: "x"})

	snap := cs.Snapshot()
	cs.ClearMessages()
	cs.SetTitle("new title")

	assert.Len(t, snap.Messages, 1)
	assert.Equal(t, DefaultTitle, snap.Title)
	assert.Equal(t, "new title", cs.Title())
}

func TestConcurrentAccess(t *testing.T) {
	cs, err := NewConversationStore([]domain.User{{ID: "a", Name: "Alex"}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = cs.AddMessage(domain.TextMessage{AuthorID: "a", Text: fmt.Sprint(i)})
			_ = cs.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Len(t, cs.Messages(), 20)
}
