package engine

import "math"

// PointerMove handles cursor movement. While a press is held it pans the
// view; otherwise it updates the hover cell and prefetches its record.
func (e *Engine) PointerMove(x, y float64) Change {
	var ch Change
	if !e.started {
		return ch
	}

	if e.pressed {
		if !e.dragged && math.Hypot(x-e.pressX, y-e.pressY) > e.cfg.DragThreshold {
			e.dragged = true
		}
		if e.dragged {
			e.cam.PanBy(x-e.lastX, y-e.lastY)
			ch.ViewportChanged = true
			ch.Redraw = true
		}
		e.lastX, e.lastY = x, y
		return ch
	}

	idx := e.cellAt(x, y)
	if idx != e.hover {
		e.hover = idx
		ch.HoverChanged = true
		ch.Redraw = true
		if idx >= 0 {
			e.cache.EnsureLoaded(idx)
		}
	}
	return ch
}

// PointerDown begins a press. Whether it becomes a drag or a click is
// decided by how far the cursor moves before release.
func (e *Engine) PointerDown(x, y float64) Change {
	if !e.started {
		return Change{}
	}
	e.pressed = true
	e.dragged = false
	e.pressX, e.pressY = x, y
	e.lastX, e.lastY = x, y
	return Change{}
}

// PointerUp ends a press. A release that never wandered past the drag
// threshold selects the cell under the cursor; a release on empty space
// clears the selection.
func (e *Engine) PointerUp(x, y float64) Change {
	var ch Change
	if !e.started || !e.pressed {
		return ch
	}
	e.pressed = false

	if e.dragged {
		e.dragged = false
		return ch
	}

	idx := e.cellAt(x, y)
	if idx != e.selected {
		e.selected = idx
		ch.SelectionChanged = true
		ch.Redraw = true
	}
	if idx >= 0 {
		e.cache.EnsureLoaded(idx)
	}
	return ch
}

// Wheel zooms around the cursor. steps is the wheel movement, positive
// away from the user; each step multiplies the scale by 1.1.
func (e *Engine) Wheel(x, y, steps float64) Change {
	var ch Change
	if !e.started || steps == 0 {
		return ch
	}

	before := *e.cam
	e.cam.ZoomAt(x, y, math.Pow(1.1, steps))
	if *e.cam != before {
		ch.ViewportChanged = true
		ch.Redraw = true
	}
	return ch
}

// Resize records a new view size.
func (e *Engine) Resize(w, h float64) Change {
	var ch Change
	if !e.started || (w == e.viewW && h == e.viewH) {
		return ch
	}
	e.viewW, e.viewH = w, h
	ch.Redraw = true
	return ch
}

// Fit re-centers the whole board in the view, as on startup.
func (e *Engine) Fit() Change {
	var ch Change
	if !e.started {
		return ch
	}
	e.cam.FitTo(e.viewW, e.viewH, e.layout.Width, e.layout.Height, e.cfg.FitPadding)
	ch.ViewportChanged = true
	ch.Redraw = true
	return ch
}
