package board

// Store is the durable backend for cell records.
//
// GetCell returns (nil, nil) when the cell has no record; backends map
// malformed rows to the same answer rather than erroring. SetCell must be
// durable before it returns.
type Store interface {
	GetCell(index int) (*Record, error)
	SetCell(index int, rec Record) error
}
