package source

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"ficchat/internal/ports"
)

// StdinPath — путь, означающий чтение сценария из стандартного ввода.
const StdinPath = "-"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileSource реализует интерфейс DataSource для чтения сценария из файла,
// указанного в командной строке.
type FileSource struct {
	filePath string
	stdin    io.Reader
}

// NewFileSource создает новый экземпляр FileSource. Путь "-" читает os.Stdin.
func NewFileSource(filePath string) ports.DataSource {
	return &FileSource{filePath: filePath, stdin: os.Stdin}
}

// Fetch читает сценарий и отрезает BOM, который оставляют некоторые редакторы.
func (s *FileSource) Fetch() ([]byte, error) {
	if s.filePath == "" {
		return nil, fmt.Errorf("не указан путь к файлу")
	}

	var (
		data []byte
		err  error
	)
	if s.filePath == StdinPath {
		data, err = NewReaderSource(s.stdin).Fetch()
	} else {
		data, err = os.ReadFile(s.filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать сценарий %s: %w", s.filePath, err)
	}

	return bytes.TrimPrefix(data, utf8BOM), nil
}

// Name возвращает путь источника для логов.
func (s *FileSource) Name() string {
	if s.filePath == StdinPath {
		return "stdin"
	}
	return s.filePath
}

// ReaderSource реализует DataSource поверх произвольного io.Reader.
type ReaderSource struct {
	r io.Reader
}

// NewReaderSource создает новый экземпляр ReaderSource.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// Fetch читает все данные из io.Reader.
func (s *ReaderSource) Fetch() ([]byte, error) {
	if s.r == nil {
		return nil, fmt.Errorf("reader не задан")
	}
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
