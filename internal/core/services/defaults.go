package services

import (
	"ficchat/internal/core/avatar"
	"ficchat/internal/domain"
	"ficchat/internal/ports"
)

// Идентификаторы участников по умолчанию. Используются и как seed аватара.
const (
	DefaultOtherID = "user_a"
	DefaultSelfID  = "user_b"
)

// DefaultCast возвращает стартовый состав: Alex слева и Riley справа.
func DefaultCast() []domain.User {
	return []domain.User{
		{
			ID:     DefaultOtherID,
			Name:   "Alex",
			Avatar: avatar.Derive("Alex", DefaultOtherID),
			Side:   domain.SideOther,
		},
		{
			ID:     DefaultSelfID,
			Name:   "Riley",
			Avatar: avatar.Derive("Riley", DefaultSelfID),
			Side:   domain.SideSelf,
		},
	}
}

// DemoMessages возвращает демонстрационную переписку для состава DefaultCast.
func DemoMessages(newID ports.IDGenerator) []domain.Message {
	return []domain.Message{
		domain.TimeMessage{ID: newID(), Text: "10:30 AM"},
		domain.TextMessage{ID: newID(), AuthorID: DefaultOtherID, Text: "Quick check-in: are you free today?"},
		domain.TextMessage{ID: newID(), AuthorID: DefaultSelfID, Text: "Yes — what’s up?"},
		domain.TextMessage{ID: newID(), AuthorID: DefaultOtherID, Text: "Need your eyes on a draft before I send it."},
	}
}
