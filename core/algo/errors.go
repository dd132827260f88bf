// Package algo has the pure transforms that turn raw result sets into
// bounded, chart-ready data. Nothing here performs I/O or keeps state
// between calls, so every function is safe to call concurrently.
package algo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks an input-contract violation such as a
	// non-positive bucket size or a malformed range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTooManyCombos is returned when entity combinations exceed the display limit.
	ErrTooManyCombos = errors.New("too many entity combinations")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
