package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidBundle    = errors.New("invalid bundle")
	ErrDuplicateTitle   = errors.New("duplicate title")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
