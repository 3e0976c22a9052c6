package board

import "fmt"

// ValidationError rejects a save before it touches storage: short secret,
// missing secret, no such cell.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid save: " + e.Reason
}

// AuthError rejects an edit whose secret does not match the stored digest.
// The record is left untouched.
type AuthError struct {
	Index int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("wrong secret for cell %d", e.Index)
}

// StorageReadError wraps a failed cell fetch. The cell stays unloaded and
// the next lookup retries.
type StorageReadError struct {
	Index int
	Err   error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read cell %d: %v", e.Index, e.Err)
}

func (e *StorageReadError) Unwrap() error {
	return e.Err
}

// StorageWriteError wraps a failed cell write. The in-memory state is not
// updated, so nothing unsaved ever looks saved.
type StorageWriteError struct {
	Index int
	Err   error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("write cell %d: %v", e.Index, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}
