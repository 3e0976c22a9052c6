// Package app is the ebiten shell around the board engine: it feeds
// pointer and keyboard input in, composes the board when something is
// dirty, and draws the claim editor panel.
package app

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/font/basicfont"

	"github.com/talgya/hexclaim/internal/board"
	"github.com/talgya/hexclaim/internal/engine"
	"github.com/talgya/hexclaim/internal/render"
)

const panelWidth = 260

// Game implements ebiten.Game. All engine commands run on the update
// goroutine; the board is recomposed only when a command reports a
// change worth drawing.
type Game struct {
	eng     *engine.Engine
	panel   *editorPanel
	canvas  *canvasSurface
	palette render.Palette

	board   *ebiten.Image
	dirty   bool
	w, h    int
	started bool
}

func NewGame(eng *engine.Engine) *Game {
	face := basicfont.Face7x13
	return &Game{
		eng:     eng,
		panel:   newEditorPanel(panelWidth, face),
		canvas:  newCanvasSurface(face),
		palette: render.DefaultPalette(),
		dirty:   true,
	}
}

func (g *Game) Layout(outW, outH int) (int, int) {
	if outW != g.w || outH != g.h {
		g.w, g.h = outW, outH
		bw := outW - panelWidth
		if bw < 1 {
			bw = 1
		}
		if !g.started {
			g.eng.Start(float64(bw), float64(outH))
			g.started = true
		} else {
			g.eng.Resize(float64(bw), float64(outH))
		}
		g.board = ebiten.NewImage(bw, outH)
		g.dirty = true
	}
	return outW, outH
}

func (g *Game) Update() error {
	if !g.started {
		return nil
	}

	var ch engine.Change
	ch.Merge(g.eng.Step())

	mx, my := ebiten.CursorPosition()
	boardW := g.w - panelWidth
	overBoard := mx >= 0 && mx < boardW && my >= 0 && my < g.h

	if _, wy := ebiten.Wheel(); wy != 0 && overBoard {
		ch.Merge(g.eng.Wheel(float64(mx), float64(my), wy))
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if overBoard {
			ch.Merge(g.eng.PointerDown(float64(mx), float64(my)))
		} else if act := g.panel.handleClick(mx-boardW, my, g.eng.Selected() >= 0); act == actionSave {
			g.save(&ch)
		}
	}
	if overBoard || ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		ch.Merge(g.eng.PointerMove(float64(mx), float64(my)))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		ch.Merge(g.eng.PointerUp(float64(mx), float64(my)))
	}

	if act := g.panel.handleKeys(); act == actionSave {
		g.save(&ch)
	}
	if g.panel.focus == fieldNone && inpututil.IsKeyJustPressed(ebiten.KeyF) {
		ch.Merge(g.eng.Fit())
	}

	if ch.SelectionChanged {
		rec, _ := g.eng.SelectedRecord()
		g.panel.resetFor(rec)
	} else if sel := g.eng.Selected(); sel >= 0 {
		// The selected cell's record can arrive after the click; fill the
		// editor in once it lands.
		for _, idx := range ch.Loaded {
			if idx == sel {
				rec, _ := g.eng.SelectedRecord()
				g.panel.resetFor(rec)
				break
			}
		}
	}
	if ch.Redraw || ch.ViewportChanged || ch.HoverChanged || ch.SelectionChanged {
		g.dirty = true
	}
	return nil
}

func (g *Game) save(ch *engine.Change) {
	outcome, sch, err := g.eng.Save(g.panel.color, g.panel.label, g.panel.secret)
	ch.Merge(sch)
	if err != nil {
		g.panel.status, g.panel.statusOK = saveErrorText(err), false
		return
	}

	if outcome.Claimed {
		g.panel.status = "cell claimed"
	} else {
		g.panel.status = "cell updated"
	}
	g.panel.statusOK = true
	// Reflect what was actually stored: defaulted color, truncated label.
	g.panel.color = outcome.Record.Color
	g.panel.label = outcome.Record.Label
}

func saveErrorText(err error) string {
	var authErr *board.AuthError
	var valErr *board.ValidationError
	var writeErr *board.StorageWriteError
	switch {
	case errors.As(err, &authErr):
		return "wrong secret"
	case errors.As(err, &valErr):
		return valErr.Reason
	case errors.As(err, &writeErr):
		return "could not write to disk"
	}
	return "save failed"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(darkTheme.Window)
	if !g.started || g.board == nil {
		return
	}

	if g.dirty {
		g.board.Fill(darkTheme.Canvas)
		g.canvas.setTarget(g.board)
		render.Compose(g.canvas, render.Frame{
			Layout:   g.eng.Layout(),
			Camera:   g.eng.Camera(),
			Cache:    g.eng.Cache(),
			Hover:    g.eng.Hover(),
			Selected: g.eng.Selected(),
		}, g.palette)
		g.dirty = false
	}
	screen.DrawImage(g.board, nil)

	rec, loaded := g.eng.SelectedRecord()
	g.panel.draw(screen, g.w-panelWidth, g.h, g.eng.Selected(), rec, loaded)

	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	loadedCells, pending := g.eng.Cache().Stats()
	hud := fmt.Sprintf("zoom %3.0f%%  loaded %d  pending %d", g.eng.Camera().Scale*100, loadedCells, pending)
	if h := g.eng.Hover(); h >= 0 {
		hud += fmt.Sprintf("  cell %d", h)
	}
	ebitenutil.DebugPrintAt(screen, hud, 8, g.h-18)
}
