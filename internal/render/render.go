// Package render composes the visible part of the board onto a drawing
// surface. It owns no pixels: the surface decides how hexagons and text
// actually get drawn, which keeps the composition testable without a
// window.
package render

import (
	"image/color"

	"github.com/talgya/hexclaim/internal/board"
	"github.com/talgya/hexclaim/internal/camera"
	"github.com/talgya/hexclaim/internal/grid"
)

// MaxDisplayLabel is the drawing budget for labels. Stored labels may be
// longer; anything past this draws as a prefix plus an ellipsis.
const MaxDisplayLabel = 10

// Labels smaller than this on screen are unreadable noise, so they are
// skipped.
const minLabelRadius = 8

// Surface is a drawing target for one composed frame.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() (w, h float64)
	// FillHex fills a pointy-top hexagon centered at (cx, cy).
	FillHex(cx, cy, r float64, fill color.Color)
	// StrokeHex outlines a pointy-top hexagon.
	StrokeHex(cx, cy, r, width float64, stroke color.Color)
	// Label draws text centered on (cx, cy).
	Label(cx, cy float64, text string, clr color.Color)
}

// Palette is the board chrome: everything not taken from cell records.
type Palette struct {
	Unclaimed color.Color // fill for unclaimed and not-yet-loaded cells
	GridLine  color.Color
	Hover     color.Color
	Selected  color.Color
}

// DefaultPalette returns the standard dark chrome.
func DefaultPalette() Palette {
	return Palette{
		Unclaimed: color.RGBA{R: 0x2b, G: 0x2f, B: 0x36, A: 0xff},
		GridLine:  color.RGBA{R: 0x41, G: 0x46, B: 0x4f, A: 0xff},
		Hover:     color.RGBA{R: 0xd8, G: 0xdc, B: 0xe4, A: 0xff},
		Selected:  color.RGBA{R: 0xff, G: 0xc5, B: 0x3d, A: 0xff},
	}
}

// Frame is one composition input.
type Frame struct {
	Layout   *grid.Layout
	Camera   *camera.Camera
	Cache    *board.Cache
	Hover    int
	Selected int
}

// DisplayLabel truncates a stored label to the drawing budget, appending
// an ellipsis when anything was cut.
func DisplayLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= MaxDisplayLabel {
		return label
	}
	return string(runes[:MaxDisplayLabel]) + "…"
}

// Compose draws every cell that intersects the surface. Cells outside the
// view are skipped entirely. Outline precedence per cell is selected,
// then hover, then the plain grid line.
func Compose(s Surface, f Frame, p Palette) {
	w, h := s.Size()
	r := f.Layout.Spec.CellRadius
	scale := f.Camera.Scale

	// Visible world rectangle, padded by one cell radius.
	minX, minY := f.Camera.ToWorld(0, 0)
	maxX, maxY := f.Camera.ToWorld(w, h)
	minX -= r
	minY -= r
	maxX += r
	maxY += r

	screenR := r * scale

	for i := range f.Layout.Centers {
		c := &f.Layout.Centers[i]
		if c.X < minX || c.X > maxX || c.Y < minY || c.Y > maxY {
			continue
		}

		sx, sy := f.Camera.ToScreen(c.X, c.Y)
		rec, _ := f.Cache.Get(c.Index)

		fill := p.Unclaimed
		if rec.Claimed() {
			if parsed, ok := ParseHexColor(rec.Color); ok {
				fill = parsed
			}
		}
		s.FillHex(sx, sy, screenR, fill)

		switch {
		case c.Index == f.Selected:
			s.StrokeHex(sx, sy, screenR, 3, p.Selected)
		case c.Index == f.Hover:
			s.StrokeHex(sx, sy, screenR, 2, p.Hover)
		default:
			s.StrokeHex(sx, sy, screenR, 1, p.GridLine)
		}

		if rec.Claimed() && rec.Label != "" && screenR >= minLabelRadius {
			s.Label(sx, sy, DisplayLabel(rec.Label), LabelColor(fill))
		}
	}
}
