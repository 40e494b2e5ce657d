package domain

import "time"

// CurrentTimeProvider abstracts wall-clock time so stamped fields (creation
// timestamps, payment dates, due-date resolution) stay deterministic under test.
type CurrentTimeProvider interface {
	// Now returns the current time.
	Now() time.Time
}
