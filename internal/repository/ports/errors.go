package ports

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict means the record exists but a guarded update did not apply.
	ErrConflict = errors.New("update precondition failed")
)
