package fsrs

import "time"

// ReviewLog is an append-only record of a single review. Logs are produced,
// never mutated.
type ReviewLog struct {
	Card            Card
	Rating          Rating
	ReviewDatetime  time.Time
	ReviewDuration  OptInt64 // milliseconds
}
