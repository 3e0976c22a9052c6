package board

import "crypto/subtle"

// Protocol applies claim and edit saves against a store.
type Protocol struct {
	store  Store
	digest DigestFunc
}

// NewProtocol creates a protocol writing through the given store.
func NewProtocol(store Store, digest DigestFunc) *Protocol {
	return &Protocol{store: store, digest: digest}
}

// SaveRequest is one attempted claim or edit.
type SaveRequest struct {
	Index  int
	Color  string
	Label  string
	Secret string
}

// SaveOutcome reports a successful save. Claimed is true when the save
// created the claim rather than editing an existing one.
type SaveOutcome struct {
	Claimed bool
	Record  Record
}

// Apply validates req against the cell's current record and writes the
// result. current == nil means the cell is unclaimed.
//
// Unclaimed cells require a secret of at least MinSecretLen characters;
// its digest becomes the cell's CodeHash. Claimed cells require the
// original secret, and keep their CodeHash across edits. The write must
// succeed before anything else changes: on a storage failure the caller's
// state is exactly as it was.
func (p *Protocol) Apply(current *Record, req SaveRequest) (SaveOutcome, error) {
	if req.Index < 0 {
		return SaveOutcome{}, &ValidationError{Reason: "no such cell"}
	}

	claiming := !current.Claimed()

	var hash string
	if claiming {
		if len([]rune(req.Secret)) < MinSecretLen {
			return SaveOutcome{}, &ValidationError{Reason: "secret too short"}
		}
		hash = p.digest(req.Secret)
	} else {
		if req.Secret == "" {
			return SaveOutcome{}, &ValidationError{Reason: "secret required"}
		}
		attempt := p.digest(req.Secret)
		if subtle.ConstantTimeCompare([]byte(attempt), []byte(current.CodeHash)) != 1 {
			return SaveOutcome{}, &AuthError{Index: req.Index}
		}
		hash = current.CodeHash
	}

	color := req.Color
	if color == "" {
		if claiming {
			color = DefaultColor
		} else {
			color = current.Color
		}
	}

	rec := Record{
		Color:    color,
		Label:    TruncateLabel(req.Label),
		CodeHash: hash,
	}

	if err := p.store.SetCell(req.Index, rec); err != nil {
		return SaveOutcome{}, &StorageWriteError{Index: req.Index, Err: err}
	}

	return SaveOutcome{Claimed: claiming, Record: rec}, nil
}
