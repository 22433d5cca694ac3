package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt indicates the cache document exists but is not a valid
	// title -> ID object.
	ErrCorrupt = errors.New("title cache is corrupt")

	// ErrLocked indicates another process holds the cache lock.
	ErrLocked = errors.New("title cache is in use by another process")
)

// CorruptError reports a cache document that could not be parsed.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("title cache %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCorrupt) match any *CorruptError.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}
