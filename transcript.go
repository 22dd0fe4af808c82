package norm

import "time"

// Transcript records the outcome of running one captured stream: the
// deltas it produced and the terminal error, if any.
type Transcript struct {
	Grammar   string
	Source    string
	CreatedAt time.Time
	Deltas    []Delta
	Err       string
}
