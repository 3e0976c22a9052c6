package grid

// Axial is a hex position in axial coordinates (q, r).
// The third cube coordinate s is derived: s = -q - r.
type Axial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (a Axial) S() int {
	return -a.Q - a.R
}

// FromOffset converts a board position (row, col) to axial coordinates.
// Odd rows are shifted right by half a column ("odd-r" layout).
func FromOffset(row, col int) Axial {
	return Axial{
		Q: col - (row-(row&1))/2,
		R: row,
	}
}

// ToOffset converts axial coordinates back to a board position.
func (a Axial) ToOffset() (row, col int) {
	row = a.R
	col = a.Q + (a.R-(a.R&1))/2
	return row, col
}

// NeighborDirections defines the six neighbor offsets in axial coordinates.
var NeighborDirections = [6]Axial{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent axial coordinates.
func (a Axial) Neighbors() [6]Axial {
	var result [6]Axial
	for i, dir := range NeighborDirections {
		result[i] = Axial{Q: a.Q + dir.Q, R: a.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Axial) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	ds := a.S() - b.S()
	if dq < 0 {
		dq = -dq
	}
	if dr < 0 {
		dr = -dr
	}
	if ds < 0 {
		ds = -ds
	}
	// Max of the three absolute differences in cube coordinates.
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// NeighborIndexes returns the board indexes adjacent to the given cell,
// skipping neighbors that fall off the board edge.
func (l *Layout) NeighborIndexes(index int) []int {
	c, ok := l.Center(index)
	if !ok {
		return nil
	}
	out := make([]int, 0, 6)
	for _, n := range FromOffset(c.Row, c.Col).Neighbors() {
		row, col := n.ToOffset()
		if row < 0 || row >= l.Spec.Rows || col < 0 || col >= l.Spec.Columns {
			continue
		}
		out = append(out, row*l.Spec.Columns+col)
	}
	return out
}
