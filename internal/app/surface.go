package app

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/talgya/hexclaim/internal/grid"
)

// Rasterization radius of the shared hex sprite. Cells draw it scaled
// down, which keeps edges clean at any zoom without re-rasterizing.
const spriteRadius = 64.0

// canvasSurface draws hex cells onto an ebiten image. It implements
// render.Surface; the compositor never sees ebiten types.
type canvasSurface struct {
	target *ebiten.Image
	sprite *ebiten.Image
	face   font.Face
}

func newCanvasSurface(face font.Face) *canvasSurface {
	return &canvasSurface{sprite: makeHexSprite(spriteRadius), face: face}
}

// makeHexSprite rasterizes a white pointy-top hexagon centered in a
// square image. Tinting happens at draw time via the color scale.
func makeHexSprite(r float64) *ebiten.Image {
	size := int(math.Ceil(2 * r))
	center := float64(size) / 2
	// A hair inside the bounds so scaled edges never clip.
	corners := grid.Corners(center, center, r-1)

	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if grid.ContainsPoint(corners, float64(x)+0.5, float64(y)+0.5) {
				i := (y*size + x) * 4
				pix[i], pix[i+1], pix[i+2], pix[i+3] = 0xff, 0xff, 0xff, 0xff
			}
		}
	}

	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}

func (s *canvasSurface) setTarget(img *ebiten.Image) {
	s.target = img
}

func (s *canvasSurface) Size() (float64, float64) {
	b := s.target.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *canvasSurface) FillHex(cx, cy, r float64, fill color.Color) {
	scale := r / (spriteRadius - 1)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(cx-spriteRadius*scale, cy-spriteRadius*scale)
	op.ColorScale.ScaleWithColor(fill)
	s.target.DrawImage(s.sprite, op)
}

func (s *canvasSurface) StrokeHex(cx, cy, r, width float64, stroke color.Color) {
	corners := grid.Corners(cx, cy, r)
	for i := 0; i < 6; i++ {
		a := corners[i]
		b := corners[(i+1)%6]
		vector.StrokeLine(s.target, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), stroke, false)
	}
}

func (s *canvasSurface) Label(cx, cy float64, label string, clr color.Color) {
	b := text.BoundString(s.face, label)
	x := int(cx) - b.Dx()/2
	y := int(cy) + b.Dy()/2
	text.Draw(s.target, label, s.face, x, y, clr)
}
