package indexmap

import "errors"

var (
	// ErrCapacityExceeded is returned when an insertion needs a position the
	// index type cannot represent. Pick a wider index type or cap the input.
	ErrCapacityExceeded = errors.New("indexmap: capacity exceeded")

	// ErrOutOfBounds is the panic cause of positional accessors that abort.
	ErrOutOfBounds = errors.New("indexmap: index out of bounds")

	// ErrKeyNotFound is the panic cause of MustGet.
	ErrKeyNotFound = errors.New("indexmap: key not found")

	// ErrInvalidIndex means a stored position failed to convert back to a
	// count, which only happens with a broken Indexable implementation.
	ErrInvalidIndex = errors.New("indexmap: invalid index")
)
