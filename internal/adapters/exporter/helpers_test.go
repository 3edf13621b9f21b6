package exporter

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"ficchat/internal/domain"
	"ficchat/internal/pkg/datauri"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConversation — переписка со всеми видами сообщений и одним "висячим".
func testConversation() domain.Conversation {
	return domain.Conversation{
		Title:  "Group Chat",
		Footer: "fin",
		Users: []domain.User{
			{ID: "a", Name: "Alex", Side: domain.SideOther},
			{ID: "b", Name: "Riley", Side: domain.SideSelf},
		},
		Messages: []domain.Message{
			domain.TimeMessage{ID: "1", Text: "10:30 AM"},
			domain.TextMessage{ID: "2", AuthorID: "a", Text: "Hey <you>"},
			domain.TextMessage{ID: "3", AuthorID: "b", Text: "Hi!"},
			domain.TextMessage{ID: "4", AuthorID: "ghost", Text: "lost"},
			domain.ImageMessage{ID: "5", AuthorID: "a", Source: "data:image/png;base64,AAAA"},
		},
	}
}

// pngDataURI кодирует однотонную картинку w×h в data URI.
func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{0xff, 0, 0, 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return datauri.Encode("image/png", buf.Bytes())
}
