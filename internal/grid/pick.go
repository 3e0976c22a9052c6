package grid

// ContainsPoint reports whether (x, y) lies inside the hexagon with the
// given corners. Even-odd ray crossing: cast a ray toward +x and count
// edge crossings.
func ContainsPoint(corners [6]Point, x, y float64) bool {
	inside := false
	j := 5
	for i := 0; i < 6; i++ {
		xi, yi := corners[i].X, corners[i].Y
		xj, yj := corners[j].X, corners[j].Y
		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// PickAt returns the index of the cell whose hexagon contains the
// world-space point (x, y), or -1 when the point falls on no cell.
// Exact containment, so points in the slack between hexagons miss.
func (l *Layout) PickAt(x, y float64) int {
	r := l.Spec.CellRadius
	rSq := r * r
	for i := range l.Centers {
		c := &l.Centers[i]
		dx := x - c.X
		dy := y - c.Y
		// The hexagon fits inside its bounding circle.
		if dx*dx+dy*dy > rSq {
			continue
		}
		if ContainsPoint(Corners(c.X, c.Y, r), x, y) {
			return c.Index
		}
	}
	return -1
}
