package source

import (
	"fmt"

	"ficchat/internal/ports"
)

// MemorySource реализует интерфейс DataSource для сценария, уже находящегося в памяти.
type MemorySource struct {
	script *string
}

// NewMemorySource создает источник для заданного текста сценария.
func NewMemorySource(script string) ports.DataSource {
	return &MemorySource{script: &script}
}

// Fetch возвращает текст сценария. Каждый вызов отдает новый срез.
func (s *MemorySource) Fetch() ([]byte, error) {
	if s.script == nil {
		return nil, fmt.Errorf("data not set")
	}
	return []byte(*s.script), nil
}
