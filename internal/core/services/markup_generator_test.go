package services

import (
	"strings"
	"testing"

	"ficchat/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;b&gt; &amp; &quot;q&quot; &#39;s&#39;", EscapeHTML(`<b> & "q" 's'`))
	assert.Equal(t, "plain", EscapeHTML("plain"))
}

func TestHTMLGenerator(t *testing.T) {
	users := []domain.User{
		{ID: "a", Name: "Alex", Avatar: "data:image/svg+xml;utf8,AAA", Side: domain.SideOther},
		{ID: "b", Name: "Riley", Avatar: "data:image/svg+xml;utf8,BBB", Side: domain.SideSelf},
	}

	t.Run("Пустой список дает контейнер без строк", func(t *testing.T) {
		out := NewHTMLGenerator().Generate(nil, nil)
		assert.Equal(t, "<div class=\"chat-container\">\n</div>", out)
		assert.NotContains(t, out, "chat-row")
	})

	t.Run("Системная отметка", func(t *testing.T) {
		out := NewHTMLGenerator().Generate([]domain.Message{
			domain.TimeMessage{ID: "1", Text: "10:30 <AM>"},
		}, nil)
		assert.Contains(t, out, `<div class="chat-row time">`)
		assert.Contains(t, out, `<span class="chat-time-text">10:30 &lt;AM&gt;</span>`)
	})

	t.Run("Отправленное сообщение без имени", func(t *testing.T) {
		out := NewHTMLGenerator().Generate([]domain.Message{
			domain.TextMessage{ID: "1", AuthorID: "b", Text: "hi"},
		}, users)
		assert.Contains(t, out, `<div class="chat-row sent">`)
		assert.Contains(t, out, `<div class="chat-bubble">hi</div>`)
		assert.NotContains(t, out, "Riley")
		assert.NotContains(t, out, "chat-name")
	})

	t.Run("Полученное сообщение с именем и аватаром", func(t *testing.T) {
		out := NewHTMLGenerator().Generate([]domain.Message{
			domain.TextMessage{ID: "1", AuthorID: "a", Text: "hello"},
		}, users)
		assert.Contains(t, out, `<div class="chat-group">`)
		assert.Contains(t, out, `<div class="chat-name">Alex</div>`)
		assert.Contains(t, out, `<div class="chat-row recv">`)
		assert.Contains(t, out, `<img src="data:image/svg+xml;utf8,AAA" class="chat-avatar" alt="Alex" />`)
		assert.Contains(t, out, `<div class="chat-bubble">hello</div>`)
	})

	t.Run("Изображение вставляется как img", func(t *testing.T) {
		out := NewHTMLGenerator().Generate([]domain.Message{
			domain.ImageMessage{ID: "1", AuthorID: "b", Source: "data:image/png;base64,QUJD"},
		}, users)
		assert.Contains(t, out, `<div class="chat-bubble image-bubble"><img src="data:image/png;base64,QUJD"`)
	})

	t.Run("Висячая ссылка на автора пропускается", func(t *testing.T) {
		out := NewHTMLGenerator().Generate([]domain.Message{
			domain.TextMessage{ID: "1", AuthorID: "a", Text: "before"},
			domain.TextMessage{ID: "2", AuthorID: "ghost", Text: "lost"},
			domain.TimeMessage{ID: "3", Text: "after"},
		}, users)
		assert.Contains(t, out, "before")
		assert.NotContains(t, out, "lost")
		assert.Contains(t, out, "after")
	})

	t.Run("Текст и имена экранируются", func(t *testing.T) {
		evil := []domain.User{{ID: "x", Name: `<script>"Eve"&'`, Side: domain.SideOther}}
		out := NewHTMLGenerator().Generate([]domain.Message{
			domain.TextMessage{ID: "1", AuthorID: "x", Text: `<img src=x onerror='1'> & "`},
		}, evil)
		assert.NotContains(t, out, "<script>")
		assert.NotContains(t, out, "<img src=x")
		assert.Contains(t, out, "&lt;script&gt;&quot;Eve&quot;&amp;&#39;")
	})
}

func TestParseThenGenerate(t *testing.T) {
	scripts := []string{
		"",
		"Alice: <b>bold</b> & \"quotes\"",
		"Bob: a:b:c\nbob: 'x'\nNarrator: <hr>",
		"no colon at all\n：\n:::\nA:B",
		strings.Repeat("Spam: <>&\"'\n", 50),
	}

	for _, script := range scripts {
		res := newTestParser().Parse(script, DefaultCast())
		users := append(DefaultCast(), res.NewUsers...)

		var out string
		require.NotPanics(t, func() {
			out = NewHTMLGenerator().Generate(res.NewMessages, users)
		})
		assert.True(t, strings.HasPrefix(out, `<div class="chat-container">`))
		assert.True(t, strings.HasSuffix(out, "</div>"))
		assert.NotContains(t, out, "<b>")
		assert.NotContains(t, out, "<hr>")
	}
}

func TestHTMLGeneratorExport(t *testing.T) {
	users := []domain.User{{ID: "u1", Name: "Alex", Side: domain.SideSelf}}
	messages := []domain.Message{domain.TextMessage{ID: "m1", AuthorID: "u1", Text: "hi"}}

	gen := NewHTMLGenerator()
	data := gen.Export(messages, users)

	assert.Equal(t, gen.Generate(messages, users), data.HTML)
	assert.Equal(t, WorkSkinCSS, data.CSS)
	assert.Contains(t, data.CSS, "#workskin .chat-container")
}
