package domain

import (
	"context"
	"time"

	"modelwatch/internal/core/diff"
	"modelwatch/internal/core/record"
	"modelwatch/internal/core/sources"
	snapdomain "modelwatch/internal/services/snapshot/domain"
)

// RunnerPort is the public port exposed by the module. An empty only slice
// runs every registered source
type RunnerPort interface {
	Run(ctx context.Context, only []string) (*RunReport, error)
}

// SnapshotStore re-exports the snapshot port so wiring does not need to
// import the snapshot domain directly
type SnapshotStore = snapdomain.Store

// Preparer is implemented by stores that bootstrap backing storage before use
type Preparer interface {
	Ensure(ctx context.Context) error
}

// Fetcher pulls one documentation page and returns its markup
type Fetcher interface {
	Page(ctx context.Context, url string) (string, error)
}

// Extractor turns page markup into raw rows per the source extract spec
type Extractor interface {
	Extract(content string, spec sources.ExtractSpec) ([]record.RawRow, error)
}

// ExtractorFunc adapts a plain function to Extractor
type ExtractorFunc func(content string, spec sources.ExtractSpec) ([]record.RawRow, error)

// Extract implements Extractor
func (f ExtractorFunc) Extract(content string, spec sources.ExtractSpec) ([]record.RawRow, error) {
	return f(content, spec)
}

// Archiver receives change events after the public artifacts are written.
// A disabled archiver reports Enabled false and its writes are skipped
type Archiver interface {
	Enabled() bool
	Ensure(ctx context.Context) error
	Archive(ctx context.Context, runID, source string, at time.Time, events []diff.Event) error
}
