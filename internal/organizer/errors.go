package organizer

import (
	"errors"
	"fmt"
	"strings"

	"sorter/internal/preflight"
)

var (
	// ErrInvalidRoot is returned before any mutation when the root is missing,
	// not a directory, or not accessible.
	ErrInvalidRoot = preflight.ErrInvalidRoot
	// ErrRunInProgress is returned when another run holds the lock for the root.
	ErrRunInProgress = errors.New("another run is already organizing this root")
	// ErrPartialFailure marks a run in which at least one unit failed.
	ErrPartialFailure = errors.New("some entries could not be organized")
)

// wrap prefixes err with the operation and the path it concerned.
func wrap(operation, path string, err error) error {
	parts := []string{"organizer"}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if path != "" {
		parts = append(parts, path)
	}
	if err == nil {
		return errors.New(strings.Join(parts, ": "))
	}
	return fmt.Errorf("%s: %w", strings.Join(parts, ": "), err)
}
