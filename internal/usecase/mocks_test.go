package usecase

import (
	"io"
	"log/slog"

	"ficchat/internal/domain"

	"github.com/stretchr/testify/mock"
)

type mockParser struct{ mock.Mock }

func (m *mockParser) Parse(script string, existingUsers []domain.User) domain.ParseResult {
	args := m.Called(script, existingUsers)
	return args.Get(0).(domain.ParseResult)
}

type mockSource struct{ mock.Mock }

func (m *mockSource) Fetch() ([]byte, error) {
	args := m.Called()
	if res := args.Get(0); res != nil {
		return res.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockExporter struct{ mock.Mock }

func (m *mockExporter) Export(conv domain.Conversation) error {
	args := m.Called(conv)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
