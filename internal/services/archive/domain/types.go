// Package domain defines the change archive types and ports
package domain

import (
	"context"
	"time"
)

// Change is one archived change event row. Detail carries the kind-specific
// payload as JSON: the changed fields for updates, the record for new rows,
// the message and record count for baselines
type Change struct {
	RunID      string    `json:"run_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Source     string    `json:"source"`
	Kind       string    `json:"kind"`
	RecordKey  string    `json:"record_key"`
	Detail     string    `json:"detail"`
}

// Repo is the ClickHouse surface behind the archive
type Repo interface {
	Ensure(ctx context.Context) error
	Insert(ctx context.Context, rows []Change) error
	Recent(ctx context.Context, source string, limit int) ([]Change, error)
}

// ReaderPort serves archived history to the API
type ReaderPort interface {
	Enabled() bool
	Recent(ctx context.Context, source string, limit int) ([]Change, error)
}
