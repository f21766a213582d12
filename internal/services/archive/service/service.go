// Package service renders change events into archive rows and serves history
// queries. The archive is optional; without a ClickHouse seam every write is
// a no-op and reads report the archive as not configured
package service

import (
	"context"
	"encoding/json"
	"time"

	"modelwatch/internal/core/diff"
	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/platform/logger"
	"modelwatch/internal/services/archive/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// Svc is the change archive service
type Svc struct {
	repo domain.Repo
	log  logger.Logger
}

var _ domain.ReaderPort = (*Svc)(nil)

// New constructs the archive service. A nil repo disables archiving
func New(repo domain.Repo) *Svc {
	return &Svc{repo: repo, log: *logger.Named("archive")}
}

// Enabled reports whether a ClickHouse seam is wired
func (s *Svc) Enabled() bool { return s.repo != nil }

// Ensure prepares the archive schema, a no-op when disabled
func (s *Svc) Ensure(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Ensure(ctx)
}

// Archive appends one row per event for this run. Disabled archives accept
// and drop silently so the pipeline never depends on ClickHouse being there
func (s *Svc) Archive(ctx context.Context, runID, source string, at time.Time, events []diff.Event) error {
	if s.repo == nil || len(events) == 0 {
		return nil
	}

	rows := make([]domain.Change, 0, len(events))
	for _, ev := range events {
		detail, err := renderDetail(ev)
		if err != nil {
			s.log.Warn().Err(err).Str("source", source).Msg("skipping unrenderable event")
			continue
		}
		rows = append(rows, domain.Change{
			RunID:      runID,
			OccurredAt: at.UTC(),
			Source:     source,
			Kind:       string(ev.Kind),
			RecordKey:  ev.Identity.Key(),
			Detail:     detail,
		})
	}
	return s.repo.Insert(ctx, rows)
}

// Recent returns archived events for a source, newest first. Limit zero means
// the default page; anything above the cap is clamped
func (s *Svc) Recent(ctx context.Context, source string, limit int) ([]domain.Change, error) {
	if s.repo == nil {
		return nil, perr.Unavailablef("change archive not configured")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.repo.Recent(ctx, source, limit)
}

type fieldDetail struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

func renderDetail(ev diff.Event) (string, error) {
	var payload any
	switch ev.Kind {
	case diff.KindUpdated:
		fields := make([]fieldDetail, 0, len(ev.Fields))
		for _, fc := range ev.Fields {
			fields = append(fields, fieldDetail{Field: fc.Field, Old: fc.Old, New: fc.New})
		}
		payload = map[string]any{"fields": fields}
	case diff.KindNew:
		var rec map[string]string
		if ev.Current != nil {
			rec = ev.Current.Map()
		}
		payload = map[string]any{"record": rec}
	case diff.KindBaseline:
		payload = map[string]any{"message": ev.Message, "records": len(ev.Records)}
	default:
		payload = map[string]any{}
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
