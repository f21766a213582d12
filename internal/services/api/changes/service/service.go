// Package service serves archived change history to the API
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"modelwatch/internal/core/sources"
	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/services/api/changes/domain"
	archdomain "modelwatch/internal/services/archive/domain"
)

// Service defines the changes service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the changes service
type Svc struct {
	Reg     *sources.Registry
	Archive archdomain.ReaderPort
}

// New constructs a changes service
func New(reg *sources.Registry, archive archdomain.ReaderPort) *Svc {
	if reg == nil {
		panic("changes.Service requires a non nil Registry")
	}
	if archive == nil {
		panic("changes.Service requires a non nil archive reader")
	}
	return &Svc{Reg: reg, Archive: archive}
}

// Recent returns archived change events for one source, newest first.
// The archive reader reports unavailable when no ClickHouse seam is wired
func (s *Svc) Recent(ctx context.Context, in domain.ChangesInput) (*domain.ChangesResponse, error) {
	name := strings.ToLower(strings.TrimSpace(in.Source))
	src, ok := s.Reg.Get(name)
	if !ok {
		return nil, perr.NotFoundf("unknown source %q", in.Source)
	}

	rows, err := s.Archive.Recent(ctx, src.Name, in.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ChangeRow, 0, len(rows))
	for _, c := range rows {
		out = append(out, domain.ChangeRow{
			RunID:      c.RunID,
			OccurredAt: c.OccurredAt.UTC().Format(time.RFC3339),
			Source:     c.Source,
			Kind:       c.Kind,
			RecordKey:  c.RecordKey,
			Detail:     json.RawMessage(c.Detail),
		})
	}
	return &domain.ChangesResponse{Source: src.Name, Count: len(out), Changes: out}, nil
}
