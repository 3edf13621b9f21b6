// Package avatar детерминированно строит цвет и аватар с инициалами по имени участника.
// Изображение собирается локально (SVG в data URI), поэтому его можно
// растеризовать без сетевых запросов и cross-origin ограничений.
package avatar

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"ficchat/internal/pkg/datauri"
)

const (
	// Size — сторона квадратного холста в пикселях.
	Size = 128

	fallbackKey  = "user"
	fallbackName = "User"
	placeholder  = "?"
	hueOffset    = 40
)

// Palette описывает цвета и инициалы аватара.
type Palette struct {
	From     int // оттенок первой точки градиента, 0..359
	To       int // оттенок второй точки градиента
	Initials string
}

// Hue вычисляет оттенок по ключу: 32-битный хеш h = h*31 + c по UTF-16 кодам, затем mod 360.
func Hue(key string) int {
	var hash uint32
	for _, c := range utf16.Encode([]rune(key)) {
		hash = hash*31 + uint32(c)
	}
	return int(hash % 360)
}

// Initials возвращает до двух заглавных инициалов имени.
func Initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return placeholder
	case 1:
		runes := []rune(parts[0])
		if len(runes) > 2 {
			runes = runes[:2]
		}
		return strings.ToUpper(string(runes))
	default:
		first := []rune(parts[0])[0]
		last := []rune(parts[len(parts)-1])[0]
		return strings.ToUpper(string([]rune{first, last}))
	}
}

// NewPalette вычисляет палитру для пары (name, seed).
func NewPalette(name, seed string) Palette {
	key := seed
	if key == "" {
		key = name
	}
	if key == "" {
		key = fallbackKey
	}
	if name == "" {
		name = fallbackName
	}

	hue := Hue(key)
	return Palette{
		From:     hue,
		To:       (hue + hueOffset) % 360,
		Initials: Initials(name),
	}
}

// SVG возвращает исходный текст SVG-аватара.
func (p Palette) SVG() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[1]d" viewBox="0 0 %[1]d %[1]d">
  <defs>
    <linearGradient id="g" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0" stop-color="hsl(%[2]d, 75%%, 55%%)"/>
      <stop offset="1" stop-color="hsl(%[3]d, 75%%, 45%%)"/>
    </linearGradient>
  </defs>
  <rect width="%[1]d" height="%[1]d" rx="%[4]d" fill="url(#g)"/>
  <text x="%[4]d" y="70" text-anchor="middle" font-family="system-ui, -apple-system, Segoe UI, Roboto, Arial" font-size="44" font-weight="700" fill="rgba(255,255,255,0.92)">%[5]s</text>
</svg>`, Size, p.From, p.To, Size/2, html.EscapeString(p.Initials))
}

// Derive возвращает аватар в виде data URI. Одинаковые (name, seed) всегда дают одинаковый результат.
func Derive(name, seed string) string {
	return "data:image/svg+xml;utf8," + escapeComponent(NewPalette(name, seed).SVG())
}

// escapeComponent кодирует все, кроме незарезервированных символов, поэтому
// результат можно вставлять в HTML-атрибут без экранирования. PathEscape
// оставляет "&" и ";", и браузер принял бы "&amp;" за ссылку на сущность.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

var (
	stopHueRegex  = regexp.MustCompile(`stop-color="hsl\((\d+),`)
	initialsRegex = regexp.MustCompile(`>([^<]*)</text>`)
)

// ParsePalette восстанавливает палитру из аватара, построенного Derive.
// Для других изображений ok == false.
func ParsePalette(uri string) (Palette, bool) {
	mime, data, err := datauri.Decode(uri)
	if err != nil || mime != "image/svg+xml" {
		return Palette{}, false
	}
	svg := string(data)

	hues := stopHueRegex.FindAllStringSubmatch(svg, 2)
	text := initialsRegex.FindStringSubmatch(svg)
	if len(hues) != 2 || text == nil {
		return Palette{}, false
	}

	from, _ := strconv.Atoi(hues[0][1])
	to, _ := strconv.Atoi(hues[1][1])
	return Palette{
		From:     from,
		To:       to,
		Initials: html.UnescapeString(text[1]),
	}, true
}
