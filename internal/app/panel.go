package app

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/talgya/hexclaim/internal/board"
	"github.com/talgya/hexclaim/internal/render"
)

type theme struct {
	Window     color.RGBA
	Canvas     color.RGBA
	Panel      color.RGBA
	Field      color.RGBA
	Border     color.RGBA
	Focus      color.RGBA
	Text       color.RGBA
	TextDim    color.RGBA
	Good       color.RGBA
	Bad        color.RGBA
	Button     color.RGBA
	ButtonText color.RGBA
}

var darkTheme = theme{
	Window:     color.RGBA{0x1d, 0x20, 0x26, 0xff},
	Canvas:     color.RGBA{0x15, 0x17, 0x1b, 0xff},
	Panel:      color.RGBA{0x22, 0x25, 0x2c, 0xff},
	Field:      color.RGBA{0x15, 0x17, 0x1b, 0xff},
	Border:     color.RGBA{0x3a, 0x3f, 0x49, 0xff},
	Focus:      color.RGBA{0x5b, 0x8d, 0xd9, 0xff},
	Text:       color.RGBA{0xe6, 0xe6, 0xe6, 0xff},
	TextDim:    color.RGBA{0x9a, 0xa0, 0xaa, 0xff},
	Good:       color.RGBA{0x69, 0xb0, 0x76, 0xff},
	Bad:        color.RGBA{0xd5, 0x6a, 0x6a, 0xff},
	Button:     color.RGBA{0x3a, 0x6e, 0xa5, 0xff},
	ButtonText: color.RGBA{0xf0, 0xf0, 0xf0, 0xff},
}

// Claim colors offered in the panel.
var swatchColors = []string{
	"#d65c5c", "#d69a5c", "#d6cf5c", "#7fc65f",
	"#5fc6a8", "#5c9ad6", "#8a6fd6", "#c66fb8",
}

const (
	panelPad   = 16
	swatchSize = 26
	swatchGap  = 10
	fieldH     = 24

	titleY     = 30
	ownerY     = 52
	swatchTop  = 78
	labelCapY  = 168
	labelTop   = 176
	secretCapY = 222
	secretTop  = 230
	buttonTop  = 278
	buttonH    = 28
	statusY    = 330
)

const maxSecretLen = 64

type panelAction int

const (
	actionNone panelAction = iota
	actionSave
)

type panelField int

const (
	fieldNone panelField = iota
	fieldLabel
	fieldSecret
)

// editorPanel is the right-hand claim editor. It owns the text being
// typed; the game decides when a save actually fires.
type editorPanel struct {
	width    int
	face     font.Face
	color    string
	label    string
	secret   string
	focus    panelField
	status   string
	statusOK bool
}

func newEditorPanel(width int, face font.Face) *editorPanel {
	return &editorPanel{width: width, face: face, color: swatchColors[0]}
}

// resetFor loads the panel for a newly selected cell. The secret never
// carries over between cells.
func (p *editorPanel) resetFor(rec *board.Record) {
	p.secret = ""
	p.status = ""
	p.statusOK = false
	p.focus = fieldNone
	if rec != nil {
		p.color = rec.Color
		p.label = rec.Label
	} else {
		p.label = ""
	}
}

func (p *editorPanel) swatchRect(i int) image.Rectangle {
	x := panelPad + (i%4)*(swatchSize+swatchGap)
	y := swatchTop + (i/4)*(swatchSize+swatchGap)
	return image.Rect(x, y, x+swatchSize, y+swatchSize)
}

func (p *editorPanel) labelRect() image.Rectangle {
	return image.Rect(panelPad, labelTop, p.width-panelPad, labelTop+fieldH)
}

func (p *editorPanel) secretRect() image.Rectangle {
	return image.Rect(panelPad, secretTop, p.width-panelPad, secretTop+fieldH)
}

func (p *editorPanel) buttonRect() image.Rectangle {
	return image.Rect(panelPad, buttonTop, p.width-panelPad, buttonTop+buttonH)
}

func pt(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}

// handleClick processes a click at panel-relative coordinates.
func (p *editorPanel) handleClick(x, y int, hasSelection bool) panelAction {
	p.focus = fieldNone
	for i, c := range swatchColors {
		if pt(x, y, p.swatchRect(i)) {
			p.color = c
			return actionNone
		}
	}
	if pt(x, y, p.labelRect()) {
		p.focus = fieldLabel
		return actionNone
	}
	if pt(x, y, p.secretRect()) {
		p.focus = fieldSecret
		return actionNone
	}
	if hasSelection && pt(x, y, p.buttonRect()) {
		return actionSave
	}
	return actionNone
}

// handleKeys feeds typed characters into the focused field.
func (p *editorPanel) handleKeys() panelAction {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.focus = fieldNone
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		switch p.focus {
		case fieldLabel:
			p.focus = fieldSecret
		default:
			p.focus = fieldLabel
		}
	}

	if p.focus != fieldNone {
		target, limit := &p.label, board.MaxLabelLen
		if p.focus == fieldSecret {
			target, limit = &p.secret, maxSecretLen
		}
		for _, r := range ebiten.AppendInputChars(nil) {
			if r < 0x20 {
				continue
			}
			if len([]rune(*target)) < limit {
				*target += string(r)
			}
		}
		// Single tap deletes one rune; holding repeats.
		if d := inpututil.KeyPressDuration(ebiten.KeyBackspace); d == 1 || (d > 30 && d%3 == 0) {
			runes := []rune(*target)
			if len(runes) > 0 {
				*target = string(runes[:len(runes)-1])
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return actionSave
	}
	return actionNone
}

func (p *editorPanel) draw(screen *ebiten.Image, originX, height, selected int, rec *board.Record, loaded bool) {
	th := darkTheme
	off := image.Pt(originX, 0)

	fillRect(screen, image.Rect(0, 0, p.width, height).Add(off), th.Panel)
	vector.StrokeLine(screen, float32(originX), 0, float32(originX), float32(height), 1, th.Border, false)

	title := "no cell selected"
	if selected >= 0 {
		title = fmt.Sprintf("cell #%d", selected)
	}
	text.Draw(screen, title, p.face, originX+panelPad, titleY, th.Text)

	owner, ownerClr := "click a cell to begin", th.TextDim
	if selected >= 0 {
		switch {
		case !loaded:
			owner = "loading..."
		case rec.Claimed() && rec.Label != "":
			owner = "claimed: " + rec.Label
		case rec.Claimed():
			owner = "claimed"
		default:
			owner, ownerClr = "unclaimed", th.Good
		}
	}
	text.Draw(screen, owner, p.face, originX+panelPad, ownerY, ownerClr)

	for i, c := range swatchColors {
		r := p.swatchRect(i).Add(off)
		clr, _ := render.ParseHexColor(c)
		fillRect(screen, r, clr)
		if c == p.color {
			strokeRect(screen, r, 2, th.Focus)
		} else {
			strokeRect(screen, r, 1, th.Border)
		}
	}

	text.Draw(screen, "label", p.face, originX+panelPad, labelCapY, th.TextDim)
	p.drawField(screen, p.labelRect().Add(off), p.label, p.focus == fieldLabel, th)

	text.Draw(screen, "secret", p.face, originX+panelPad, secretCapY, th.TextDim)
	masked := strings.Repeat("*", len([]rune(p.secret)))
	p.drawField(screen, p.secretRect().Add(off), masked, p.focus == fieldSecret, th)

	if selected >= 0 && loaded {
		r := p.buttonRect().Add(off)
		fillRect(screen, r, th.Button)
		caption := "claim cell"
		if rec.Claimed() {
			caption = "save changes"
		}
		b := text.BoundString(p.face, caption)
		text.Draw(screen, caption, p.face, r.Min.X+(r.Dx()-b.Dx())/2, r.Min.Y+(r.Dy()+b.Dy())/2, th.ButtonText)
	}

	if p.status != "" {
		clr := th.Bad
		if p.statusOK {
			clr = th.Good
		}
		text.Draw(screen, p.status, p.face, originX+panelPad, statusY, clr)
	}

	text.Draw(screen, "tab  switch field   enter  save", p.face, originX+panelPad, height-40, th.TextDim)
	text.Draw(screen, "f  fit view   esc  stop typing", p.face, originX+panelPad, height-22, th.TextDim)
}

func (p *editorPanel) drawField(screen *ebiten.Image, r image.Rectangle, value string, focused bool, th theme) {
	fillRect(screen, r, th.Field)
	if focused {
		strokeRect(screen, r, 2, th.Focus)
		value += "_"
	} else {
		strokeRect(screen, r, 1, th.Border)
	}
	text.Draw(screen, value, p.face, r.Min.X+6, r.Min.Y+16, th.Text)
}

func fillRect(dst *ebiten.Image, r image.Rectangle, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), clr, false)
}

func strokeRect(dst *ebiten.Image, r image.Rectangle, width float32, clr color.Color) {
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), width, clr, false)
}
