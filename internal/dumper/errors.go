package dumper

import "errors"

var (
	// ErrRootUnusable is returned when the project root is missing or not a directory
	ErrRootUnusable = errors.New("project root is unusable")

	// ErrUnreadable is returned in strict mode when a resolved file cannot be read
	ErrUnreadable = errors.New("resolved file could not be read")
)
