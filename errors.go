package keepsake

import "errors"

var (
	// ErrMissingField is returned when a request is missing a required field
	ErrMissingField = errors.New("missing field")
	// ErrNotFound is returned when no item matches the owner and id
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable is returned when the object store rejects or cannot take a write
	ErrStoreUnavailable = errors.New("object store unavailable")
	// ErrRepoUnavailable is returned when the metadata repository backend fails
	ErrRepoUnavailable = errors.New("metadata repository unavailable")
)
