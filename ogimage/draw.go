package ogimage

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type point struct{ x, y float32 }

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// lineBox returns the height of the face's ascent plus descent in pixels.
func lineBox(face font.Face) float64 {
	m := face.Metrics()
	return float64(m.Ascent+m.Descent) / 64
}

// baseline centers the face's glyph box in a line of height lh starting at
// top and returns the baseline y.
func baseline(face font.Face, top, lh float64) int {
	m := face.Metrics()
	asc := float64(m.Ascent) / 64
	return int(math.Round(top + (lh-lineBox(face))/2 + asc))
}

// textWidth measures s with tracking pixels added after every rune.
func textWidth(face font.Face, s string, tracking float64) float64 {
	w := float64(font.MeasureString(face, s)) / 64
	return w + tracking*float64(len([]rune(s)))
}

// drawText draws s with its baseline at y and returns the advance in pixels.
func drawText(dst draw.Image, face font.Face, x float64, y int, s string, c color.Color, tracking float64) float64 {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.I(y)},
	}
	start := d.Dot.X
	if tracking == 0 {
		d.DrawString(s)
		return float64(d.Dot.X-start) / 64
	}
	step := fixed.Int26_6(math.Round(tracking * 64))
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			d.Dot.X += face.Kern(prev, r)
		}
		d.DrawString(string(r))
		d.Dot.X += step
		prev = r
	}
	return float64(d.Dot.X-start) / 64
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// fillDiagonalGradient paints a 135 degree gradient from top-left to
// bottom-right.
func fillDiagonalGradient(dst *image.RGBA, from, to color.RGBA) {
	b := dst.Bounds()
	span := float64(b.Dx() + b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := float64(x-b.Min.X+y-b.Min.Y) / span
			dst.SetRGBA(x, y, color.RGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 255,
			})
		}
	}
}

// drawGrid overlays 1px lines every cell pixels in both directions.
func drawGrid(dst *image.RGBA, cell int, c color.Color) {
	src := image.NewUniform(c)
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += cell {
		draw.Draw(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), src, image.Point{}, draw.Over)
	}
	for x := b.Min.X; x < b.Max.X; x += cell {
		draw.Draw(dst, image.Rect(x, b.Min.Y, x+1, b.Max.Y), src, image.Point{}, draw.Over)
	}
}

// roundedRectPath appends a closed rounded rectangle of size w×h at the
// origin to z.
func roundedRectPath(z *vector.Rasterizer, w, h, r float32) {
	const k = 0.5523 // cubic approximation of a quarter circle
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	z.MoveTo(r, 0)
	z.LineTo(w-r, 0)
	z.CubeTo(w-r+r*k, 0, w, r-r*k, w, r)
	z.LineTo(w, h-r)
	z.CubeTo(w, h-r+r*k, w-r+r*k, h, w-r, h)
	z.LineTo(r, h)
	z.CubeTo(r-r*k, h, 0, h-r+r*k, 0, h-r)
	z.LineTo(0, r)
	z.CubeTo(0, r-r*k, r-r*k, 0, r, 0)
	z.ClosePath()
}

// fillRoundedRect paints src into r clipped to rounded corners. src is
// aligned so that sp maps to r.Min.
func fillRoundedRect(dst draw.Image, r image.Rectangle, radius float32, src image.Image, sp image.Point) {
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	roundedRectPath(z, float32(r.Dx()), float32(r.Dy()), radius)
	z.Draw(dst, r, src, sp)
}

// stroker builds stroked outlines of polylines in a local coordinate space.
// Every piece is wound the same way so overlaps merge instead of cancelling.
type stroker struct {
	z     *vector.Rasterizer
	scale float32
	half  float32
}

func (s *stroker) disc(c point) {
	const steps = 12
	for i := 0; i <= steps; i++ {
		a := -2 * math.Pi * float64(i) / steps
		x := c.x + s.half*float32(math.Cos(a))
		y := c.y + s.half*float32(math.Sin(a))
		if i == 0 {
			s.z.MoveTo(x, y)
		} else {
			s.z.LineTo(x, y)
		}
	}
	s.z.ClosePath()
}

func (s *stroker) segment(a, b point) {
	dx, dy := b.x-a.x, b.y-a.y
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*s.half, dx/l*s.half
	s.z.MoveTo(a.x+nx, a.y+ny)
	s.z.LineTo(b.x+nx, b.y+ny)
	s.z.LineTo(b.x-nx, b.y-ny)
	s.z.LineTo(a.x-nx, a.y-ny)
	s.z.ClosePath()
}

// polyline strokes pts given in icon units with round joins and caps.
func (s *stroker) polyline(pts []point, closed bool) {
	scaled := make([]point, len(pts))
	for i, p := range pts {
		scaled[i] = point{p.x * s.scale, p.y * s.scale}
	}
	for i := 0; i+1 < len(scaled); i++ {
		s.segment(scaled[i], scaled[i+1])
	}
	if closed && len(scaled) > 2 {
		s.segment(scaled[len(scaled)-1], scaled[0])
	}
	for _, p := range scaled {
		s.disc(p)
	}
}

func arc(c point, r float32, from, to float64, steps int) []point {
	pts := make([]point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		a := from + (to-from)*float64(i)/float64(steps)
		pts = append(pts, point{c.x + r*float32(math.Cos(a)), c.y + r*float32(math.Sin(a))})
	}
	return pts
}

func cubic(p0, p1, p2, p3 point, steps int) []point {
	pts := make([]point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		u := 1 - t
		pts = append(pts, point{
			u*u*u*p0.x + 3*u*u*t*p1.x + 3*u*t*t*p2.x + t*t*t*p3.x,
			u*u*u*p0.y + 3*u*u*t*p1.y + 3*u*t*t*p2.y + t*t*t*p3.y,
		})
	}
	return pts
}

// Icons are drawn on a 24 unit grid with a 2 unit stroke, like the feather
// icon set.
const iconGrid = 24

func roundedRectOutline(x, y, w, h, r float32) []point {
	var pts []point
	pts = append(pts, arc(point{x + w - r, y + r}, r, -math.Pi/2, 0, 4)...)
	pts = append(pts, arc(point{x + w - r, y + h - r}, r, 0, math.Pi/2, 4)...)
	pts = append(pts, arc(point{x + r, y + h - r}, r, math.Pi/2, math.Pi, 4)...)
	pts = append(pts, arc(point{x + r, y + r}, r, math.Pi, 3*math.Pi/2, 4)...)
	return pts
}

// drawIcon strokes one of the card icons into a size×size square at at.
func drawIcon(dst draw.Image, at image.Point, size int, name string, c color.Color) {
	s := &stroker{
		z:     vector.NewRasterizer(size, size),
		scale: float32(size) / iconGrid,
		half:  float32(size) / iconGrid,
	}
	switch name {
	case "calendar":
		s.polyline(roundedRectOutline(3, 4, 18, 18, 2), true)
		s.polyline([]point{{16, 2}, {16, 6}}, false)
		s.polyline([]point{{8, 2}, {8, 6}}, false)
		s.polyline([]point{{3, 10}, {21, 10}}, false)
	case "pin":
		var outline []point
		outline = append(outline, cubic(point{21, 10}, point{21, 17}, point{12, 23}, point{12, 23}, 16)...)
		outline = append(outline, cubic(point{12, 23}, point{12, 23}, point{3, 17}, point{3, 10}, 16)...)
		outline = append(outline, arc(point{12, 10}, 9, math.Pi, 2*math.Pi, 24)...)
		s.polyline(outline, true)
		s.polyline(arc(point{12, 10}, 3, 0, 2*math.Pi, 16), true)
	}
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}
	s.z.Draw(dst, r, image.NewUniform(c), image.Point{})
}
