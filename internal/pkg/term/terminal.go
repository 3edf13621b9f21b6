// Package term определяет ширину терминала для консольного вывода.
package term

import (
	"io"
	"os"

	"golang.org/x/term"
	"golang.org/x/xerrors"
)

// Terminal описывает поток вывода, который может быть терминалом.
type Terminal struct {
	out io.Writer
	fd  int
}

// NewTerminal создает Terminal для произвольного потока. Если w не является
// *os.File, поток считается не терминалом.
func NewTerminal(w io.Writer) *Terminal {
	fd := -1
	if f, ok := w.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &Terminal{
		out: w,
		fd:  fd,
	}
}

// Stdout возвращает Terminal для стандартного вывода.
func Stdout() *Terminal {
	return NewTerminal(os.Stdout)
}

// Writer возвращает поток вывода.
func (t *Terminal) Writer() io.Writer {
	return t.out
}

// IsTerminal сообщает, подключен ли поток к терминалу.
func (t *Terminal) IsTerminal() bool {
	return t.fd >= 0 && term.IsTerminal(t.fd)
}

// Size возвращает ширину и высоту терминала в символах.
func (t *Terminal) Size() (width, height int, err error) {
	if !t.IsTerminal() {
		return 0, 0, xerrors.New("output is not a terminal")
	}
	width, height, err = term.GetSize(t.fd)
	if err != nil {
		return 0, 0, xerrors.Errorf("failed to get terminal size: %w", err)
	}
	return width, height, nil
}

// Width возвращает ширину терминала или fallback, если ее не удалось узнать.
func (t *Terminal) Width(fallback int) int {
	w, _, err := t.Size()
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
