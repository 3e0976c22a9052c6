// Package engine turns pointer, wheel and save commands into board state
// changes. It owns the camera, the selection and the cell cache; it does
// no drawing itself. Every command returns a Change describing what moved,
// and the caller decides what to repaint.
//
// The engine is single-threaded: call every method from one goroutine
// (the input loop). Cell fetches run in the background but only land when
// Step drains them.
package engine

import (
	"log/slog"

	"github.com/talgya/hexclaim/internal/board"
	"github.com/talgya/hexclaim/internal/camera"
	"github.com/talgya/hexclaim/internal/grid"
)

// Config sizes the board and the view behavior.
type Config struct {
	Columns    int
	Rows       int
	CellRadius float64
	MinZoom    float64
	MaxZoom    float64

	// DragThreshold is how far, in screen pixels, a press may wander and
	// still count as a click on release.
	DragThreshold float64

	// FitPadding is the blank border, in screen pixels, kept around the
	// board when fitting it to the view.
	FitPadding float64
}

// DefaultConfig returns the standard board and view settings.
func DefaultConfig() Config {
	spec := grid.DefaultSpec()
	return Config{
		Columns:       spec.Columns,
		Rows:          spec.Rows,
		CellRadius:    spec.CellRadius,
		MinZoom:       camera.DefaultMinZoom,
		MaxZoom:       camera.DefaultMaxZoom,
		DragThreshold: 4,
		FitPadding:    16,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Columns <= 0 {
		c.Columns = def.Columns
	}
	if c.Rows <= 0 {
		c.Rows = def.Rows
	}
	if c.CellRadius <= 0 {
		c.CellRadius = def.CellRadius
	}
	if c.MinZoom <= 0 {
		c.MinZoom = def.MinZoom
	}
	if c.MaxZoom <= 0 {
		c.MaxZoom = def.MaxZoom
	}
	if c.DragThreshold <= 0 {
		c.DragThreshold = def.DragThreshold
	}
	if c.FitPadding < 0 {
		c.FitPadding = def.FitPadding
	}
	return c
}

// Change describes what a command altered.
type Change struct {
	Redraw           bool
	HoverChanged     bool
	SelectionChanged bool
	ViewportChanged  bool
	Loaded           []int // cells whose fetch completed during Step
}

// Merge folds another change into this one.
func (c *Change) Merge(o Change) {
	c.Redraw = c.Redraw || o.Redraw
	c.HoverChanged = c.HoverChanged || o.HoverChanged
	c.SelectionChanged = c.SelectionChanged || o.SelectionChanged
	c.ViewportChanged = c.ViewportChanged || o.ViewportChanged
	c.Loaded = append(c.Loaded, o.Loaded...)
}

// Engine is the interactive core of a board session.
type Engine struct {
	cfg    Config
	layout *grid.Layout
	cam    *camera.Camera
	cache  *board.Cache
	proto  *board.Protocol
	events *board.EventLog

	viewW float64
	viewH float64

	hover    int
	selected int

	pressed bool
	dragged bool
	pressX  float64
	pressY  float64
	lastX   float64
	lastY   float64

	started bool
}

// New wires an engine over the given store. The digest defaults to
// SHA256Hex when nil. Nothing is loaded until Start.
func New(store board.Store, digest board.DigestFunc, cfg Config) *Engine {
	if digest == nil {
		digest = board.SHA256Hex
	}
	cfg = cfg.normalized()

	cam := camera.New()
	cam.MinZoom = cfg.MinZoom
	cam.MaxZoom = cfg.MaxZoom

	return &Engine{
		cfg: cfg,
		layout: grid.NewLayout(grid.Spec{
			Columns:    cfg.Columns,
			Rows:       cfg.Rows,
			CellRadius: cfg.CellRadius,
		}),
		cam:      cam,
		cache:    board.NewCache(store),
		proto:    board.NewProtocol(store, digest),
		events:   board.NewEventLog(0),
		hover:    -1,
		selected: -1,
	}
}

// Start fits the board to a view of the given size and begins accepting
// commands. Commands before Start are no-ops.
func (e *Engine) Start(viewW, viewH float64) {
	e.viewW, e.viewH = viewW, viewH
	e.cam.FitTo(viewW, viewH, e.layout.Width, e.layout.Height, e.cfg.FitPadding)
	e.started = true

	slog.Info("board ready",
		"columns", e.cfg.Columns,
		"rows", e.cfg.Rows,
		"cells", e.layout.Spec.CellCount(),
		"scale", e.cam.Scale,
	)
}

// Close releases the cache's background machinery. The engine is done
// after this.
func (e *Engine) Close() {
	e.cache.Close()
}

// Hover returns the cell index under the cursor, or -1.
func (e *Engine) Hover() int {
	return e.hover
}

// Selected returns the selected cell index, or -1.
func (e *Engine) Selected() int {
	return e.selected
}

// SelectedRecord returns the cached record of the selected cell and
// whether it is loaded yet.
func (e *Engine) SelectedRecord() (*board.Record, bool) {
	if e.selected < 0 {
		return nil, false
	}
	return e.cache.Get(e.selected)
}

// Camera returns the view transform. Mutate it through engine commands.
func (e *Engine) Camera() *camera.Camera {
	return e.cam
}

// Layout returns the board layout. It is valid from construction.
func (e *Engine) Layout() *grid.Layout {
	return e.layout
}

// Cache returns the cell cache. Snapshot and Stats are safe from any
// goroutine.
func (e *Engine) Cache() *board.Cache {
	return e.cache
}

// Events returns the board's event log.
func (e *Engine) Events() *board.EventLog {
	return e.events
}

// ViewSize returns the view dimensions from Start or the last Resize.
func (e *Engine) ViewSize() (w, h float64) {
	return e.viewW, e.viewH
}

// cellAt picks the cell under a screen position, or -1.
func (e *Engine) cellAt(sx, sy float64) int {
	wx, wy := e.cam.ToWorld(sx, sy)
	return e.layout.PickAt(wx, wy)
}

// cellVisible reports whether any part of the cell's hexagon could be on
// screen.
func (e *Engine) cellVisible(index int) bool {
	c, ok := e.layout.Center(index)
	if !ok {
		return false
	}
	sx, sy := e.cam.ToScreen(c.X, c.Y)
	r := e.cfg.CellRadius * e.cam.Scale
	return sx+r >= 0 && sx-r <= e.viewW && sy+r >= 0 && sy-r <= e.viewH
}
