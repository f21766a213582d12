// Package domain holds the scrape run contract: what a run reports and the
// ports the runner is wired with
package domain

import "time"

// SourceResult describes one source's outcome within a run
type SourceResult struct {
	Source   string
	Records  int
	Dropped  int
	New      int
	Updated  int
	Baseline bool
}

// SourceFailure records a source that was skipped after an error. One broken
// vendor page never takes down the rest of the run
type SourceFailure struct {
	Source string
	Err    string
}

// RunReport summarizes a full scrape run
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Sources    []SourceResult
	Failures   []SourceFailure
	Events     int
	FeedWrote  bool
}
