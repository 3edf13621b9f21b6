package exporter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // декодер для изображений в сообщениях
	_ "image/jpeg" // декодер для изображений в сообщениях
	"image/png"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"ficchat/internal/core/avatar"
	"ficchat/internal/domain"
	"ficchat/internal/pkg/datauri"
	"ficchat/internal/ports"

	_ "golang.org/x/image/bmp" // декодер для изображений в сообщениях
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // декодер для изображений в сообщениях
)

// Размеры макета в логических пикселях (до умножения на Scale).
const (
	pagePadding   = 12
	headerHeight  = 44
	avatarSize    = 28
	avatarGap     = 8
	lineHeight    = 16
	nameHeight    = 14
	rowGap        = 8
	bubblePadX    = 10
	bubblePadY    = 6
	bubbleRadius  = 12
	imagePad      = 4
	maxImageH     = 240
	bubbleMaxFrac = 0.7
)

var (
	colorBackground = color.RGBA{0xf2, 0xf2, 0xf7, 0xff}
	colorHeader     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorSeparator  = color.RGBA{0xd1, 0xd1, 0xd6, 0xff}
	colorSent       = color.RGBA{0x0b, 0x93, 0xf6, 0xff}
	colorRecv       = color.RGBA{0xe5, 0xe5, 0xea, 0xff}
	colorText       = color.RGBA{0x1c, 0x1c, 0x1e, 0xff}
	colorMuted      = color.RGBA{0x8e, 0x8e, 0x93, 0xff}
	colorWhite      = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// PNGOptions настраивает растровый экспорт.
type PNGOptions struct {
	Dir      string
	FileName string // пусто - chat-screenshot-<unix-ms>.png
	Scale    int    // множитель разрешения, 2 по умолчанию
	Width    int    // ширина экрана в логических пикселях
}

// PNGExporter рисует переписку как скриншот мессенджера.
// Шрифт растровый (basicfont), символы вне его набора не отображаются.
type PNGExporter struct {
	opts   PNGOptions
	face   font.Face
	now    func() time.Time
	logger *slog.Logger
}

// NewPNGExporter создает новый экземпляр PNGExporter.
func NewPNGExporter(opts PNGOptions, logger *slog.Logger) ports.Exporter {
	if opts.Scale <= 0 {
		opts.Scale = 2
	}
	if opts.Width <= 0 {
		opts.Width = 375
	}
	return &PNGExporter{
		opts:   opts,
		face:   basicfont.Face7x13,
		now:    time.Now,
		logger: logger.With("component", "png_exporter"),
	}
}

// pngRow — одна измеренная строка макета.
type pngRow struct {
	msg     domain.Message
	user    domain.User
	lines   []string
	picture image.Image
	avatar  image.Image // загруженный аватар, nil - рисуется палитра
	bubbleW int
	bubbleH int
	height  int
}

// Export рисует изображение и сохраняет его в файл.
func (e *PNGExporter) Export(conv domain.Conversation) error {
	img := e.Render(conv)

	name := e.opts.FileName
	if name == "" {
		name = fmt.Sprintf("chat-screenshot-%d.png", e.now().UnixMilli())
	}
	path, err := outputPath(e.opts.Dir, strings.TrimSuffix(name, ".png"), ".png")
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create png: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}

	b := img.Bounds()
	e.logger.Info("screenshot exported", "path", path, "width", b.Dx(), "height", b.Dy())
	return nil
}

// Render рисует переписку и возвращает изображение с учетом Scale.
func (e *PNGExporter) Render(conv domain.Conversation) image.Image {
	width := e.opts.Width
	rows := e.layout(conv)

	var footer []string
	if conv.Footer != "" {
		footer = e.wrap(conv.Footer, width-2*pagePadding)
	}

	height := headerHeight + pagePadding
	for _, r := range rows {
		height += r.height
	}
	height += len(footer)*lineHeight + pagePadding

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	// шапка
	draw.Draw(canvas, image.Rect(0, 0, width, headerHeight), image.NewUniform(colorHeader), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, headerHeight-1, width, headerHeight), image.NewUniform(colorSeparator), image.Point{}, draw.Src)
	e.drawCentered(canvas, conv.Title, width/2, headerHeight/2+5, colorText)

	y := headerHeight + pagePadding
	for _, r := range rows {
		e.drawRow(canvas, r, y)
		y += r.height
	}

	for _, line := range footer {
		e.drawCentered(canvas, line, width/2, y+lineHeight-4, colorMuted)
		y += lineHeight
	}

	if e.opts.Scale == 1 {
		return canvas
	}

	// basicfont растровый и одного размера, поэтому макет строится в 1×
	// и увеличивается без сглаживания.
	scaled := image.NewRGBA(image.Rect(0, 0, width*e.opts.Scale, height*e.opts.Scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return scaled
}

func (e *PNGExporter) maxBubble() int {
	return int(float64(e.opts.Width) * bubbleMaxFrac)
}

// layout измеряет строки. Сообщения без автора пропускаются.
func (e *PNGExporter) layout(conv domain.Conversation) []pngRow {
	users := conv.UserIndex()
	maxBubble := e.maxBubble()
	avatars := make(map[string]image.Image)

	var rows []pngRow
	for _, msg := range conv.Messages {
		if msg.Kind() == domain.KindTime {
			lines := e.wrap(msg.Content(), e.opts.Width-2*pagePadding)
			rows = append(rows, pngRow{
				msg:    msg,
				lines:  lines,
				height: len(lines)*lineHeight + rowGap,
			})
			continue
		}

		user, ok := domain.Resolve(msg, users)
		if !ok {
			continue
		}

		r := pngRow{msg: msg, user: user}
		if msg.Kind() == domain.KindImage {
			r.picture = e.fitImage(msg.Content(), maxBubble-2*imagePad)
		}
		if r.picture != nil {
			b := r.picture.Bounds()
			r.bubbleW = b.Dx() + 2*imagePad
			r.bubbleH = b.Dy() + 2*imagePad
		} else {
			r.lines = e.wrap(plainContent(msg), maxBubble-2*bubblePadX)
			widest := 0
			for _, line := range r.lines {
				widest = max(widest, e.measure(line))
			}
			r.bubbleW = widest + 2*bubblePadX
			r.bubbleH = len(r.lines)*lineHeight + 2*bubblePadY
		}

		r.height = r.bubbleH + rowGap
		if !user.IsSelf() {
			img, cached := avatars[user.ID]
			if !cached {
				img = e.avatarImage(user.Avatar)
				avatars[user.ID] = img
			}
			r.avatar = img
			r.height += nameHeight
			r.height = max(r.height, nameHeight+avatarSize+rowGap)
		}
		rows = append(rows, r)
	}
	return rows
}

func (e *PNGExporter) drawRow(dst draw.Image, r pngRow, y int) {
	width := e.opts.Width

	if r.msg.Kind() == domain.KindTime {
		for i, line := range r.lines {
			e.drawCentered(dst, line, width/2, y+(i+1)*lineHeight-4, colorMuted)
		}
		return
	}

	var x int
	fill, ink := colorRecv, colorText
	if r.user.IsSelf() {
		x = width - pagePadding - r.bubbleW
		fill, ink = colorSent, colorWhite
	} else {
		left := pagePadding + avatarSize + avatarGap
		e.drawText(dst, r.user.Name, left, y+nameHeight-3, colorMuted)
		y += nameHeight
		if r.avatar != nil {
			drawImageAvatar(dst, r.avatar, pagePadding, y)
		} else {
			drawAvatar(dst, paletteFor(r.user), pagePadding, y, e.face)
		}
		x = left
	}

	bubble := image.Rect(x, y, x+r.bubbleW, y+r.bubbleH)
	fillRoundedRect(dst, bubble, bubbleRadius, fill)

	if r.picture != nil {
		at := image.Pt(x+imagePad, y+imagePad)
		draw.Draw(dst, r.picture.Bounds().Add(at), r.picture, r.picture.Bounds().Min, draw.Over)
		return
	}

	for i, line := range r.lines {
		e.drawText(dst, line, x+bubblePadX, y+bubblePadY+(i+1)*lineHeight-4, ink)
	}
}

// fitImage декодирует data URI и уменьшает картинку под размер пузыря.
// Для внешних ссылок и неподдерживаемых форматов возвращает nil.
func (e *PNGExporter) fitImage(uri string, maxW int) image.Image {
	_, data, err := datauri.Decode(uri)
	if err != nil {
		e.logger.Debug("image message is not an embedded picture", "src", uri)
		return nil
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		e.logger.Debug("failed to decode image message", "error", err)
		return nil
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	ratio := math.Min(1, math.Min(float64(maxW)/float64(w), float64(maxImageH)/float64(h)))
	if ratio == 1 {
		return src
	}

	dw := max(1, int(float64(w)*ratio))
	dh := max(1, int(float64(h)*ratio))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	e.logger.Debug("image scaled", "format", format, "from", b.Size(), "to", dst.Bounds().Size())
	return dst
}

func (e *PNGExporter) measure(s string) int {
	return font.MeasureString(e.face, s).Ceil()
}

func (e *PNGExporter) drawText(dst draw.Image, s string, x, baseline int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: e.face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func (e *PNGExporter) drawCentered(dst draw.Image, s string, cx, baseline int, c color.Color) {
	e.drawText(dst, s, cx-e.measure(s)/2, baseline, c)
}

// wrap переносит текст по словам так, чтобы строка помещалась в maxW пикселей.
func (e *PNGExporter) wrap(s string, maxW int) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			for e.measure(word) > maxW {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				runes := []rune(word)
				n := 1
				for n < len(runes) && e.measure(string(runes[:n+1])) <= maxW {
					n++
				}
				lines = append(lines, string(runes[:n]))
				word = string(runes[n:])
			}
			if word == "" {
				continue
			}

			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if current != "" && e.measure(candidate) > maxW {
				lines = append(lines, current)
				candidate = word
			}
			current = candidate
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// avatarImage декодирует растровый аватар и приводит его к квадрату avatarSize.
// SVG и внешние ссылки дают nil.
func (e *PNGExporter) avatarImage(uri string) image.Image {
	_, data, err := datauri.Decode(uri)
	if err != nil {
		return nil
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	// центральный квадрат, как object-fit: cover
	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	if side == 0 {
		return nil
	}
	crop := image.Rect(0, 0, side, side).Add(b.Min).Add(image.Pt((b.Dx()-side)/2, (b.Dy()-side)/2))

	dst := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

// paletteFor берет цвета из SVG-аватара участника, чтобы PNG совпадал с HTML.
func paletteFor(u domain.User) avatar.Palette {
	if p, ok := avatar.ParsePalette(u.Avatar); ok {
		return p
	}
	return avatar.NewPalette(u.Name, u.ID)
}

// drawImageAvatar рисует аватар, обрезанный по кругу.
func drawImageAvatar(dst draw.Image, img image.Image, x, y int) {
	mask := image.NewAlpha(image.Rect(0, 0, avatarSize, avatarSize))
	r := float64(avatarSize) / 2
	for dy := 0; dy < avatarSize; dy++ {
		for dx := 0; dx < avatarSize; dx++ {
			fx, fy := float64(dx)+0.5-r, float64(dy)+0.5-r
			if fx*fx+fy*fy <= r*r {
				mask.SetAlpha(dx, dy, color.Alpha{A: 0xff})
			}
		}
	}
	rect := image.Rect(x, y, x+avatarSize, y+avatarSize)
	draw.DrawMask(dst, rect, img, img.Bounds().Min, mask, image.Point{}, draw.Over)
}

// drawAvatar рисует круглый аватар с градиентом и инициалами.
func drawAvatar(dst draw.Image, p avatar.Palette, x, y int, face font.Face) {
	from := hslColor(p.From, 0.75, 0.55)
	to := hslColor(p.To, 0.75, 0.45)

	r := float64(avatarSize) / 2
	for dy := 0; dy < avatarSize; dy++ {
		for dx := 0; dx < avatarSize; dx++ {
			fx, fy := float64(dx)+0.5-r, float64(dy)+0.5-r
			if fx*fx+fy*fy > r*r {
				continue
			}
			t := float64(dx+dy) / float64(2*avatarSize)
			dst.Set(x+dx, y+dy, lerpColor(from, to, t))
		}
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(colorWhite), Face: face}
	w := d.MeasureString(p.Initials).Ceil()
	d.Dot = fixed.P(x+(avatarSize-w)/2, y+avatarSize/2+4)
	d.DrawString(p.Initials)
}

// fillRoundedRect заливает прямоугольник со скругленными углами.
func fillRoundedRect(dst draw.Image, rect image.Rectangle, radius int, c color.Color) {
	radius = min(radius, rect.Dx()/2, rect.Dy()/2)
	rr := float64(radius)

	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		for px := rect.Min.X; px < rect.Max.X; px++ {
			// расстояние до ближайшего центра скругления
			cx := clamp(float64(px)+0.5, float64(rect.Min.X)+rr, float64(rect.Max.X)-rr)
			cy := clamp(float64(py)+0.5, float64(rect.Min.Y)+rr, float64(rect.Max.Y)-rr)
			dx, dy := float64(px)+0.5-cx, float64(py)+0.5-cy
			if dx*dx+dy*dy <= rr*rr {
				dst.Set(px, py, c)
			}
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// hslColor переводит HSL в RGB так же, как CSS hsl().
func hslColor(hue int, s, l float64) color.RGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := float64(hue%360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := l - c/2
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 0xff,
	}
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xff}
}
