package manifest

import "time"

// Run is one invocation of the batch driver.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	InputDir   string
	OutputDir  string
	TierID     string
	Documents  int
	Clips      int
	Failures   int
}

// Finished reports whether the run recorded its completion.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Clip is one produced audio/transcript pair.
type Clip struct {
	ID           int64
	RunID        string
	Document     string
	Media        string
	StartSlot    string
	EndSlot      string
	StartSeconds float64
	EndSeconds   float64
	WavPath      string
	TxtPath      string
	Text         string
	CreatedAt    time.Time
}

// Totals are the counters stored when a run finishes.
type Totals struct {
	Documents int
	Clips     int
	Failures  int
}
