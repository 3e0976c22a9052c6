// Package camera maps between world space and screen space.
// screen = world*scale + offset; pan and zoom only touch scale and offset,
// so the board geometry itself never moves.
package camera

// Zoom limits. FitTo additionally never zooms in past maxFitScale, so a
// small board in a large window does not open comically large.
const (
	DefaultMinZoom = 0.3
	DefaultMaxZoom = 3.0

	maxFitScale = 1.2
)

// Camera holds the current view transform.
type Camera struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	MinZoom float64
	MaxZoom float64
}

// New returns a camera at scale 1 with the default zoom limits.
func New() *Camera {
	return &Camera{
		Scale:   1,
		MinZoom: DefaultMinZoom,
		MaxZoom: DefaultMaxZoom,
	}
}

// ToWorld converts a screen position to world space.
func (c *Camera) ToWorld(sx, sy float64) (float64, float64) {
	return (sx - c.OffsetX) / c.Scale, (sy - c.OffsetY) / c.Scale
}

// ToScreen converts a world position to screen space.
func (c *Camera) ToScreen(wx, wy float64) (float64, float64) {
	return wx*c.Scale + c.OffsetX, wy*c.Scale + c.OffsetY
}

// ZoomAt multiplies the scale by factor, keeping the world point under the
// screen position (sx, sy) fixed. The scale is clamped to the zoom limits;
// at a limit the anchor math still holds, it just stops moving.
func (c *Camera) ZoomAt(sx, sy, factor float64) {
	newScale := c.clampScale(c.Scale * factor)
	if newScale == c.Scale {
		return
	}

	// Anchor in world space under the cursor, measured before rescaling.
	wx, wy := c.ToWorld(sx, sy)

	c.Scale = newScale
	c.OffsetX = sx - wx*newScale
	c.OffsetY = sy - wy*newScale
}

// PanBy shifts the view by a screen-space delta. A 10px drag moves the
// content 10px at any zoom level.
func (c *Camera) PanBy(dx, dy float64) {
	c.OffsetX += dx
	c.OffsetY += dy
}

// FitTo centers content of the given world size inside the view, choosing
// the largest scale that shows all of it (within the zoom limits and the
// fit cap). padding is screen pixels kept clear on every side.
func (c *Camera) FitTo(viewW, viewH, contentW, contentH, padding float64) {
	if contentW <= 0 || contentH <= 0 {
		return
	}

	availW := viewW - 2*padding
	availH := viewH - 2*padding
	if availW < 1 {
		availW = 1
	}
	if availH < 1 {
		availH = 1
	}

	scale := availW / contentW
	if s := availH / contentH; s < scale {
		scale = s
	}
	if scale > maxFitScale {
		scale = maxFitScale
	}
	c.Scale = c.clampScale(scale)

	c.OffsetX = (viewW - contentW*c.Scale) / 2
	c.OffsetY = (viewH - contentH*c.Scale) / 2
}

func (c *Camera) clampScale(s float64) float64 {
	min, max := c.MinZoom, c.MaxZoom
	if min <= 0 {
		min = DefaultMinZoom
	}
	if max <= 0 {
		max = DefaultMaxZoom
	}
	if s < min {
		return min
	}
	if s > max {
		return max
	}
	return s
}
