// Package service contains record listing workflows over the snapshot store
package service

import (
	"context"
	"strings"

	"modelwatch/internal/core/sources"
	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/services/api/records/domain"
	snapdomain "modelwatch/internal/services/snapshot/domain"
)

// Service defines the records service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the records service
type Svc struct {
	Reg   *sources.Registry
	Snaps snapdomain.Store
}

// New constructs a records service
func New(reg *sources.Registry, snaps snapdomain.Store) *Svc {
	if reg == nil {
		panic("records.Service requires a non nil Registry")
	}
	if snaps == nil {
		panic("records.Service requires a non nil snapshot store")
	}
	return &Svc{Reg: reg, Snaps: snaps}
}

// Sources lists the registry entries in declaration order
func (s *Svc) Sources(_ context.Context) ([]domain.SourceInfo, error) {
	out := make([]domain.SourceInfo, 0, len(s.Reg.Sources))
	for _, src := range s.Reg.Sources {
		out = append(out, domain.SourceInfo{
			Name:     src.Name,
			Title:    src.Title,
			URL:      src.URL,
			Identity: append([]string(nil), src.Scheme.Fields...),
			Compare:  append([]string(nil), src.Compare...),
			MultiTab: src.MultiTab(),
		})
	}
	return out, nil
}

// List returns the current snapshot records for one source
func (s *Svc) List(ctx context.Context, in domain.RecordsInput) (*domain.RecordsResponse, error) {
	name := strings.ToLower(strings.TrimSpace(in.Source))
	src, ok := s.Reg.Get(name)
	if !ok {
		return nil, perr.NotFoundf("unknown source %q", in.Source)
	}

	set, err := s.Snaps.Load(ctx, src.Name, src.Scheme)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.RecordRow, 0, set.Len())
	for _, r := range set.Records() {
		rows = append(rows, domain.RecordRow{
			Source:      r.Source,
			Type:        r.Type,
			ModelName:   r.ModelName,
			Version:     r.Version,
			Lifecycle:   r.Lifecycle,
			Deprecation: r.Deprecation,
			Retirement:  r.Retirement,
			Replacement: r.Replacement,
			Key:         r.Identity.Key(),
		})
	}
	return &domain.RecordsResponse{Source: src.Name, Count: len(rows), Records: rows}, nil
}
