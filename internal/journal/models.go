package journal

import "time"

// Status describes where a run ended up.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusAborted   Status = "aborted"
)

// Run is one organizer pass over a root directory.
type Run struct {
	ID            string
	Root          string
	Status        Status
	FailurePolicy string
	Workers       int
	Moved         int
	Extracted     int
	Fallback      int
	Failed        int
	Cleaned       int
	DirsScanned   int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Elapsed reports the run duration, or zero while the run is still open.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Entry records what happened to a single source file.
type Entry struct {
	ID          int64
	RunID       string
	Source      string
	Destination string
	Category    string
	Action      string
	Error       string
	RecordedAt  time.Time
}
