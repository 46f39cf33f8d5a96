package storage

import "github.com/google/uuid"

// newID returns a fresh time-ordered identifier, used for session ids
// and spec-issue/tbd filenames. uuid.New() (v4, random) would not do:
// v7 embeds a millisecond timestamp in its leading bits, so
// lexicographic order of the resulting filenames matches creation order.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the system clock or entropy source is
		// broken; fall back to v4 rather than panicking on a write path.
		return uuid.New().String()
	}
	return id.String()
}

// NewSessionID exposes the same time-ordered identifier scheme to the
// Loop Engine, which needs a fresh session id per run but lives outside
// this package.
func NewSessionID() string { return newID() }
