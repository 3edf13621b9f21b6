package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ficchat/internal/adapters/exporter"
	"ficchat/internal/adapters/source"
	"ficchat/internal/core/avatar"
	"ficchat/internal/core/services"
	"ficchat/internal/domain"
	"ficchat/internal/pkg/config"
	"ficchat/internal/ports"
	"ficchat/internal/store"
	"ficchat/internal/usecase"
)

// imageSpec описывает изображение, которое участник отправляет после сценария.
type imageSpec struct {
	Author string // ID или имя участника
	Path   string
}

// imageFlags собирает повторяющиеся флаги -image author=path.
type imageFlags []imageSpec

func (f *imageFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, s := range *f {
		parts = append(parts, s.Author+"="+s.Path)
	}
	return strings.Join(parts, ",")
}

func (f *imageFlags) Set(value string) error {
	author, path, ok := strings.Cut(value, "=")
	author, path = strings.TrimSpace(author), strings.TrimSpace(path)
	if !ok || author == "" || path == "" {
		return fmt.Errorf("ожидается author=path, получено %q", value)
	}
	*f = append(*f, imageSpec{Author: author, Path: path})
	return nil
}

// findUser ищет участника по ID, затем по имени без учета регистра.
func findUser(users []domain.User, ref string) (domain.User, bool) {
	for _, u := range users {
		if u.ID == ref {
			return u, true
		}
	}
	for _, u := range users {
		if strings.EqualFold(u.Name, ref) {
			return u, true
		}
	}
	return domain.User{}, false
}

// addImageMessages добавляет изображения в конец переписки в порядке флагов.
func addImageMessages(st *store.ConversationStore, specs []imageSpec) error {
	for _, img := range specs {
		author, ok := findUser(st.Users(), img.Author)
		if !ok {
			return fmt.Errorf("изображение %s: участник %q не найден", img.Path, img.Author)
		}

		uri, err := source.ImageDataURI(img.Path)
		if err != nil {
			return err
		}

		if _, err := st.AddMessage(domain.ImageMessage{AuthorID: author.ID, Source: uri}); err != nil {
			return fmt.Errorf("изображение %s: %w", img.Path, err)
		}
	}
	return nil
}

// buildCast превращает участников из конфигурации в пользователей.
// Файл аватара встраивается как data URI, без него аватар строится по имени.
func buildCast(members []config.CastMember, newID ports.IDGenerator) ([]domain.User, error) {
	users := make([]domain.User, 0, len(members))
	for _, m := range members {
		side, ok := domain.ParseSide(m.Side)
		if !ok {
			return nil, fmt.Errorf("участник %s: неизвестная сторона %q", m.Name, m.Side)
		}

		id := m.ID
		if id == "" {
			id = newID()
		}

		avatarURI := avatar.Derive(m.Name, id)
		if m.Avatar != "" {
			uri, err := source.ImageDataURI(m.Avatar)
			if err != nil {
				return nil, fmt.Errorf("участник %s: %w", m.Name, err)
			}
			avatarURI = uri
		}

		users = append(users, domain.User{
			ID:     id,
			Name:   m.Name,
			Avatar: avatarURI,
			Side:   side,
		})
	}
	return users, nil
}

// buildExporters создает экспортеры в порядке, указанном в конфигурации.
func buildExporters(cfg *config.Config, stdout io.Writer, consoleWidth int, logger *slog.Logger) ([]usecase.NamedExporter, error) {
	out := cfg.Export.OutputDir
	base := cfg.Export.BaseName

	exporters := make([]usecase.NamedExporter, 0, len(cfg.Export.Formats))
	for _, format := range cfg.Export.Formats {
		var e ports.Exporter
		switch format {
		case "html":
			e = exporter.NewHTMLExporter(services.NewHTMLGenerator(), out, base, logger)
		case "console":
			e = exporter.NewConsoleExporter(stdout, consoleWidth)
		case "xlsx":
			e = exporter.NewXLSXExporter(out, base, logger)
		case "png":
			e = exporter.NewPNGExporter(exporter.PNGOptions{
				Dir:   out,
				Scale: cfg.Export.PNG.Scale,
				Width: cfg.Export.PNG.Width,
			}, logger)
		case "pdf":
			e = exporter.NewPDFExporter(out, base, logger)
		default:
			return nil, fmt.Errorf("unsupported export format %q", format)
		}
		exporters = append(exporters, usecase.NamedExporter{Format: format, Exporter: e})
	}
	return exporters, nil
}
