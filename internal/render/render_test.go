package render

import (
	"image/color"
	"testing"
	"time"

	"github.com/talgya/hexclaim/internal/board"
	"github.com/talgya/hexclaim/internal/camera"
	"github.com/talgya/hexclaim/internal/grid"
)

// recordingSurface captures draw calls for inspection.
type recordingSurface struct {
	w, h    float64
	fills   []fillOp
	strokes []strokeOp
	labels  []labelOp
}

type fillOp struct {
	x, y, r float64
	clr     color.Color
}

type strokeOp struct {
	x, y, r, width float64
	clr            color.Color
}

type labelOp struct {
	x, y float64
	text string
}

func (s *recordingSurface) Size() (float64, float64) { return s.w, s.h }

func (s *recordingSurface) FillHex(cx, cy, r float64, fill color.Color) {
	s.fills = append(s.fills, fillOp{cx, cy, r, fill})
}

func (s *recordingSurface) StrokeHex(cx, cy, r, width float64, stroke color.Color) {
	s.strokes = append(s.strokes, strokeOp{cx, cy, r, width, stroke})
}

func (s *recordingSurface) Label(cx, cy float64, text string, clr color.Color) {
	s.labels = append(s.labels, labelOp{cx, cy, text})
}

// preloadedFrame builds a 3x2 board with the given records already in the
// cache.
func preloadedFrame(t *testing.T, records map[int]board.Record) Frame {
	t.Helper()
	store := &stubStore{cells: records}
	cache := board.NewCache(store)
	t.Cleanup(cache.Close)

	layout := grid.NewLayout(grid.Spec{Columns: 3, Rows: 2, CellRadius: 10})
	for i := range layout.Centers {
		cache.EnsureLoaded(i)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		cache.Drain()
		if loaded, _ := cache.Stats(); loaded == len(layout.Centers) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cache never finished loading")
		}
		time.Sleep(time.Millisecond)
	}

	return Frame{
		Layout:   layout,
		Camera:   camera.New(),
		Cache:    cache,
		Hover:    -1,
		Selected: -1,
	}
}

type stubStore struct {
	cells map[int]board.Record
}

func (s *stubStore) GetCell(index int) (*board.Record, error) {
	rec, ok := s.cells[index]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (s *stubStore) SetCell(index int, rec board.Record) error {
	s.cells[index] = rec
	return nil
}

func TestComposeFillsEveryVisibleCell(t *testing.T) {
	f := preloadedFrame(t, map[int]board.Record{
		1: {Color: "#ff0000", Label: "red", CodeHash: "h"},
	})
	surf := &recordingSurface{w: 400, h: 300}

	Compose(surf, f, DefaultPalette())

	if len(surf.fills) != 6 {
		t.Fatalf("expected 6 fills, got %d", len(surf.fills))
	}
	if len(surf.strokes) != 6 {
		t.Fatalf("expected 6 strokes, got %d", len(surf.strokes))
	}

	p := DefaultPalette()
	for i, op := range surf.fills {
		want := p.Unclaimed
		if i == 1 {
			want = color.RGBA{R: 0xff, A: 0xff}
		}
		if op.clr != want {
			t.Errorf("fill %d: expected %v, got %v", i, want, op.clr)
		}
	}
}

func TestComposeOutlinePrecedence(t *testing.T) {
	p := DefaultPalette()

	tests := []struct {
		name      string
		hover     int
		selected  int
		cell      int
		wantClr   color.Color
		wantWidth float64
	}{
		{"plain cell", -1, -1, 0, p.GridLine, 1},
		{"hovered cell", 0, -1, 0, p.Hover, 2},
		{"selected cell", -1, 0, 0, p.Selected, 3},
		{"selected beats hover", 0, 0, 0, p.Selected, 3},
		{"hover elsewhere", 2, 0, 2, p.Hover, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := preloadedFrame(t, nil)
			f.Hover = tt.hover
			f.Selected = tt.selected
			surf := &recordingSurface{w: 400, h: 300}

			Compose(surf, f, p)

			op := surf.strokes[tt.cell]
			if op.clr != tt.wantClr || op.width != tt.wantWidth {
				t.Errorf("cell %d outline: expected %v width %v, got %v width %v",
					tt.cell, tt.wantClr, tt.wantWidth, op.clr, op.width)
			}
		})
	}
}

func TestComposeCullsOffscreenCells(t *testing.T) {
	f := preloadedFrame(t, nil)
	surf := &recordingSurface{w: 400, h: 300}

	// Push the board far off the right edge: nothing to draw.
	f.Camera.OffsetX = -10000
	Compose(surf, f, DefaultPalette())
	if len(surf.fills) != 0 {
		t.Fatalf("expected full cull, got %d fills", len(surf.fills))
	}

	// A viewport clipped to the first column of centers keeps 2 cells.
	f.Camera.OffsetX = 0
	surf = &recordingSurface{w: 30, h: 300}
	Compose(surf, f, DefaultPalette())
	if len(surf.fills) != 2 {
		t.Fatalf("expected 2 visible cells, got %d fills", len(surf.fills))
	}
}

func TestComposeLabels(t *testing.T) {
	f := preloadedFrame(t, map[int]board.Record{
		0: {Color: "#ffffff", Label: "short", CodeHash: "h"},
		2: {Color: "#000000", Label: "a rather long label", CodeHash: "h"},
		4: {Color: "#00ff00", CodeHash: "h"}, // claimed, no label
	})
	surf := &recordingSurface{w: 400, h: 300}

	Compose(surf, f, DefaultPalette())

	if len(surf.labels) != 2 {
		t.Fatalf("expected 2 labels, got %d: %+v", len(surf.labels), surf.labels)
	}
	if surf.labels[0].text != "short" {
		t.Errorf("expected label kept as-is, got %q", surf.labels[0].text)
	}
	if surf.labels[1].text != "a rather l…" {
		t.Errorf("expected display truncation with ellipsis, got %q", surf.labels[1].text)
	}
}

func TestComposeSkipsTinyLabels(t *testing.T) {
	f := preloadedFrame(t, map[int]board.Record{
		0: {Color: "#ffffff", Label: "tiny", CodeHash: "h"},
	})
	f.Camera.Scale = 0.3 // screen radius 3, far below the readable floor
	surf := &recordingSurface{w: 400, h: 300}

	Compose(surf, f, DefaultPalette())

	if len(surf.labels) != 0 {
		t.Fatalf("expected no labels at tiny scale, got %d", len(surf.labels))
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"pond", "pond"},
		{"exactly-10", "exactly-10"},
		{"elevenchars", "elevenchar…"},
		{"ééééééééééé", "éééééééééé…"},
	}
	for _, tt := range tests {
		if got := DisplayLabel(tt.in); got != tt.want {
			t.Errorf("DisplayLabel(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in     string
		want   color.RGBA
		wantOK bool
	}{
		{"#ff0000", color.RGBA{R: 0xff, A: 0xff}, true},
		{"#00FF7f", color.RGBA{G: 0xff, B: 0x7f, A: 0xff}, true},
		{"#fff", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, true},
		{"#a1b", color.RGBA{R: 0xaa, G: 0x11, B: 0xbb, A: 0xff}, true},
		{"", color.RGBA{}, false},
		{"ff0000", color.RGBA{}, false},
		{"#ff00", color.RGBA{}, false},
		{"#gg0000", color.RGBA{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseHexColor(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseHexColor(%q): expected %v/%v, got %v/%v", tt.in, tt.want, tt.wantOK, got, ok)
		}
	}
}

func TestLabelColorContrast(t *testing.T) {
	if LabelColor(color.RGBA{A: 0xff}) != color.White {
		t.Error("dark fill should get white text")
	}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if LabelColor(white) == color.White {
		t.Error("light fill should get dark text")
	}
}
