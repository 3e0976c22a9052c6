// Package grid lays out the hex board and answers point-to-cell queries.
// Cells are pointy-top hexagons in offset rows: odd rows shift right by
// half a column so the board reads as a honeycomb.
package grid

import "math"

// Spec describes a fixed board of columns x rows hex cells.
type Spec struct {
	Columns    int     `json:"columns"`
	Rows       int     `json:"rows"`
	CellRadius float64 `json:"cell_radius"`
}

// DefaultSpec returns the standard board: 100x80 cells of radius 14.
func DefaultSpec() Spec {
	return Spec{Columns: 100, Rows: 80, CellRadius: 14}
}

// CellCount returns the total number of cells on the board.
func (s Spec) CellCount() int {
	return s.Columns * s.Rows
}

// Margin is the blank strip above the first row, in world units.
const Margin = 4.0

// Point is a position in world space.
type Point struct {
	X float64
	Y float64
}

// Center is a cell's precomputed world-space position.
type Center struct {
	Index int
	Row   int
	Col   int
	X     float64
	Y     float64
}

// Layout holds every cell center plus the world-space bounding box.
// Computed once per Spec; all fields are read-only afterward.
type Layout struct {
	Spec    Spec
	Centers []Center
	Width   float64
	Height  float64
}

// NewLayout computes the center of every cell on the board.
//
// With w = r*sqrt(3) and h = r*1.5:
//
//	x = col*2w + w    (+w again on odd rows)
//	y = row*h + r + Margin
//
// Cell index is row*columns + col, so indexes are dense over
// [0, Columns*Rows).
func NewLayout(spec Spec) *Layout {
	w := spec.CellRadius * math.Sqrt(3)
	h := spec.CellRadius * 1.5

	l := &Layout{
		Spec:    spec,
		Centers: make([]Center, 0, spec.CellCount()),
	}

	var maxX, maxY float64
	for row := 0; row < spec.Rows; row++ {
		for col := 0; col < spec.Columns; col++ {
			x := float64(col)*2*w + w
			if row%2 == 1 {
				x += w
			}
			y := float64(row)*h + spec.CellRadius + Margin

			l.Centers = append(l.Centers, Center{
				Index: row*spec.Columns + col,
				Row:   row,
				Col:   col,
				X:     x,
				Y:     y,
			})
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	// One radius of padding past the outermost centers on each side.
	l.Width = maxX + spec.CellRadius
	l.Height = maxY + spec.CellRadius
	return l
}

// Center returns the cell at the given index, or false when the index is
// outside the board.
func (l *Layout) Center(index int) (Center, bool) {
	if index < 0 || index >= len(l.Centers) {
		return Center{}, false
	}
	return l.Centers[index], true
}

// Corners returns the six vertices of a pointy-top hexagon around (cx, cy),
// starting just right of the top point and winding clockwise. Vertex i sits
// at angle 60°*i - 30°.
func Corners(cx, cy, r float64) [6]Point {
	var out [6]Point
	for i := 0; i < 6; i++ {
		angle := math.Pi / 180 * (60*float64(i) - 30)
		out[i] = Point{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}
	return out
}
