// Package datauri кодирует и разбирает URI вида data:<mime>[;base64],<payload> (RFC 2397).
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const prefix = "data:"

// ErrNotDataURI возвращается, если строка не начинается с "data:".
var ErrNotDataURI = errors.New("not a data URI")

// Encode кодирует данные в base64 data URI.
func Encode(mime string, data []byte) string {
	return prefix + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURI сообщает, является ли строка data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, prefix)
}

// Decode разбирает data URI и возвращает MIME-тип и данные.
func Decode(uri string) (mime string, data []byte, err error) {
	if !IsDataURI(uri) {
		return "", nil, ErrNotDataURI
	}

	header, payload, found := strings.Cut(uri[len(prefix):], ",")
	if !found {
		return "", nil, fmt.Errorf("data URI без запятой")
	}

	params := strings.Split(header, ";")
	mime = params[0]
	if mime == "" {
		mime = "text/plain"
	}

	isBase64 := false
	for _, p := range params[1:] {
		if p == "base64" {
			isBase64 = true
		}
	}

	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("не удалось декодировать base64: %w", err)
		}
		return mime, data, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("не удалось декодировать payload: %w", err)
	}
	return mime, []byte(text), nil
}

// Elide сокращает payload data URI до limit символов для логов.
func Elide(uri string, limit int) string {
	header, payload, found := strings.Cut(uri, ",")
	if !found || len(payload) <= limit {
		return uri
	}
	return fmt.Sprintf("%s,%s…(%d bytes)", header, payload[:limit], len(payload))
}
