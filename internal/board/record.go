// Package board holds per-cell records and the rules for changing them.
// A cell is unclaimed until somebody saves it with a secret code; after
// that, edits must present the same secret. Only a digest of the secret
// is ever stored.
package board

// Limits on record fields. MaxLabelLen is the storage budget; renderers
// may show less.
const (
	MaxLabelLen  = 18
	MinSecretLen = 4
)

// DefaultColor fills claims that arrive without a color choice.
const DefaultColor = "#8a919c"

// Record is the stored state of a claimed cell.
// CodeHash is the hex digest of the owner's secret; an empty CodeHash
// means the cell is unclaimed (such records are never persisted).
type Record struct {
	Color    string `json:"color"`
	Label    string `json:"label"`
	CodeHash string `json:"-"`
}

// Claimed reports whether the record carries an owner digest.
func (r *Record) Claimed() bool {
	return r != nil && r.CodeHash != ""
}

// TruncateLabel cuts a label to the storage budget, counting runes so a
// multibyte label is never split mid-character.
func TruncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= MaxLabelLen {
		return label
	}
	return string(runes[:MaxLabelLen])
}
