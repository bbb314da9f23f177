package models

import (
	"errors"
	"fmt"
)

// ErrSnapshotUnavailable marks a failed snapshot query. The refresh aborts
// for that outlet only, prior state stays untouched, and the outlet remains
// eligible for retry on the next event.
var ErrSnapshotUnavailable = errors.New("snapshot source unavailable")

// SnapshotError wraps a query failure with ErrSnapshotUnavailable so callers
// can match it with errors.Is.
func SnapshotError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSnapshotUnavailable, op, err)
}
