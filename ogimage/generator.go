// Package ogimage renders the 1200×630 social preview cards shown when a page
// is shared. Rendering is a pure function of the Card and the fonts: there is
// no randomness and no state carried between calls.
package ogimage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Card dimensions in pixels.
const (
	Width  = 1200
	Height = 630
)

// DefaultCategory labels cards that do not set one.
const DefaultCategory = "ARTICLE"

// Author is the byline block of a card.
type Author struct {
	Name  string
	Title string
	// Image is drawn into the avatar tile when set.
	Image image.Image
}

// EventInfo is the date and place block of an event card.
type EventInfo struct {
	Date  string
	Venue string
	City  string
}

// Card describes one preview image. Slug is informational and does not
// affect the output. At most one of Author and Event is drawn; Author wins.
type Card struct {
	Title    string
	Slug     string
	Category string
	Author   *Author
	Event    *EventInfo
}

var (
	gradientFrom = color.RGBA{0x12, 0x00, 0x21, 0xff}
	gradientTo   = color.RGBA{0x2b, 0x0c, 0x46, 0xff}
	gridColor    = color.NRGBA{0xff, 0xff, 0xff, 0x14}
	badgeColor   = color.NRGBA{0xff, 0xff, 0xff, 0x4d}
	labelColor   = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	mutedColor   = color.NRGBA{0xff, 0xff, 0xff, 0x80}
	iconColor    = color.NRGBA{0xff, 0xff, 0xff, 0xb3}
)

const (
	padX       = 60
	padY       = 50
	gridCell   = 40
	badgeSize  = 28
	avatarSize = 72
	iconSize   = 28

	headlineSize    = 72
	headlineLeading = 1.1
	bottomSpacer    = 20
	blockGap        = 24 + 12
)

// Generator renders cards with the faces from its FontSource.
type Generator struct {
	fonts    FontSource
	wordmark string
}

// Option configures a Generator.
type Option func(*Generator)

// WithWordmark sets the site name drawn in the top right corner.
func WithWordmark(s string) Option {
	return func(g *Generator) {
		g.wordmark = s
	}
}

// New returns a Generator. A nil source uses BundledFonts.
func New(fonts FontSource, opts ...Option) *Generator {
	if fonts == nil {
		fonts = BundledFonts{}
	}
	g := &Generator{fonts: fonts, wordmark: "react-native.fi"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type faces struct {
	headline, label, wordmark font.Face
	name, role                font.Face
	eventDate, eventPlace     font.Face
}

func (f *faces) close() {
	for _, face := range []font.Face{f.headline, f.label, f.wordmark, f.name, f.role, f.eventDate, f.eventPlace} {
		if face != nil {
			face.Close()
		}
	}
}

func openFaces(set *FontSet) (*faces, error) {
	f := &faces{}
	specs := []struct {
		dst  *font.Face
		src  *opentype.Font
		size float64
	}{
		{&f.headline, set.Bold, headlineSize},
		{&f.label, set.SemiBold, 18},
		{&f.wordmark, set.Mono, 24},
		{&f.name, set.SemiBold, 24},
		{&f.role, set.Regular, 20},
		{&f.eventDate, set.SemiBold, 22},
		{&f.eventPlace, set.Regular, 22},
	}
	for _, s := range specs {
		face, err := newFace(s.src, s.size)
		if err != nil {
			f.close()
			return nil, fmt.Errorf("ogimage: open face: %w", err)
		}
		*s.dst = face
	}
	return f, nil
}

// Generate renders c. The only error sources are the font source, which
// reports ErrFontUnavailable, and a context cancelled before drawing starts.
func (g *Generator) Generate(ctx context.Context, c Card) (*image.RGBA, error) {
	set, err := g.fonts.Fonts(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := openFaces(set)
	if err != nil {
		return nil, err
	}
	defer f.close()

	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fillDiagonalGradient(dst, gradientFrom, gradientTo)
	drawGrid(dst, gridCell, gridColor)

	lines := SplitTitle(c.Title)
	lineHeight := headlineSize * headlineLeading

	rowHeight := math.Max(badgeSize, math.Max(lineBox(f.label), lineBox(f.wordmark)))
	contentHeight := float64(len(lines)) * lineHeight
	switch {
	case c.Author != nil:
		contentHeight += blockGap + avatarSize
	case c.Event != nil:
		contentHeight += blockGap + eventRowHeight(f)
	}
	free := float64(Height-2*padY) - rowHeight - contentHeight - bottomSpacer
	gap := math.Max(0, free/2)

	g.drawTopRow(dst, f, padY, rowHeight, c.Category)

	y := padY + rowHeight + gap
	for _, line := range lines {
		drawText(dst, f.headline, padX, baseline(f.headline, y, lineHeight), line, color.White, -2)
		y += lineHeight
	}
	switch {
	case c.Author != nil:
		drawAuthor(dst, f, y+blockGap, c.Author)
	case c.Event != nil:
		drawEvent(dst, f, y+blockGap, c.Event)
	}
	return dst, nil
}

// PNG renders c and encodes it.
func (g *Generator) PNG(ctx context.Context, c Card) ([]byte, error) {
	img, err := g.Generate(ctx, c)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("ogimage: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) drawTopRow(dst *image.RGBA, f *faces, top, height float64, category string) {
	label := strings.ToUpper(strings.TrimSpace(category))
	if label == "" {
		label = DefaultCategory
	}
	by := int(math.Round(top + (height-badgeSize)/2))
	badge := image.Rect(padX, by, padX+badgeSize, by+badgeSize)
	fillRoundedRect(dst, badge, 4, image.NewUniform(badgeColor), image.Point{})
	drawText(dst, f.label, padX+badgeSize+12, baseline(f.label, top, height), label, labelColor, 2)

	if g.wordmark != "" {
		w := textWidth(f.wordmark, g.wordmark, 0)
		drawText(dst, f.wordmark, Width-padX-w, baseline(f.wordmark, top, height), g.wordmark, color.White, 0)
	}
}

func drawAuthor(dst *image.RGBA, f *faces, top float64, a *Author) {
	tile := image.Rect(padX, int(math.Round(top)), padX+avatarSize, int(math.Round(top))+avatarSize)
	fillRoundedRect(dst, tile, 10, image.White, image.Point{})
	if a.Image != nil {
		avatar := coverSquare(a.Image, avatarSize)
		fillRoundedRect(dst, tile, 10, avatar, image.Point{})
	}

	x := float64(padX + avatarSize + 20)
	nameH, roleH := lineBox(f.name), lineBox(f.role)
	colTop := top + (avatarSize-(nameH+4+roleH))/2
	drawText(dst, f.name, x, baseline(f.name, colTop, nameH), a.Name, color.White, 0)
	drawText(dst, f.role, x, baseline(f.role, colTop+nameH+4, roleH), a.Title, mutedColor, 0)
}

func eventRowHeight(f *faces) float64 {
	return math.Max(iconSize, math.Max(lineBox(f.eventDate), lineBox(f.eventPlace)))
}

func drawEvent(dst *image.RGBA, f *faces, top float64, e *EventInfo) {
	h := eventRowHeight(f)
	iconY := int(math.Round(top + (h-iconSize)/2))

	x := float64(padX)
	drawIcon(dst, image.Pt(int(x), iconY), iconSize, "calendar", iconColor)
	x += iconSize + 10
	x += drawText(dst, f.eventDate, x, baseline(f.eventDate, top, h), e.Date, color.White, 0)
	x += 24

	drawIcon(dst, image.Pt(int(math.Round(x)), iconY), iconSize, "pin", iconColor)
	x += iconSize + 10
	place := e.Venue
	if e.City != "" {
		place += ", " + e.City
	}
	drawText(dst, f.eventPlace, x, baseline(f.eventPlace, top, h), place, iconColor, 0)
}

// coverSquare scales src to fill a size×size square, cropping the longer
// side around the center.
func coverSquare(src image.Image, size int) *image.RGBA {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	crop := image.Rect(0, 0, side, side).Add(b.Min).Add(image.Pt((b.Dx()-side)/2, (b.Dy()-side)/2))
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}
