package source

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ficchat/internal/pkg/datauri"
)

// ImageDataURI читает файл изображения и возвращает его в виде base64 data URI,
// пригодного для сообщений типа image и аватаров.
func ImageDataURI(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("не указан путь к изображению")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}

	mime := http.DetectContentType(data)
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		mime = "image/svg+xml"
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("файл %s не является изображением (%s)", path, mime)
	}

	return datauri.Encode(mime, data), nil
}
