// Package service implements the snapshot store port over Postgres. The file
// backend lives in the sibling file package; runners pick one at wiring time
package service

import (
	"context"
	"time"

	"modelwatch/internal/core/record"
	"modelwatch/internal/modkit/repokit"
	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/platform/logger"
	"modelwatch/internal/services/snapshot/domain"
)

// saveAttempts bounds the transaction retries on transient contention
const saveAttempts = 3

// Svc binds the snapshot repo per call and wraps saves in a transaction
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
	log    logger.Logger
}

var _ domain.Store = (*Svc)(nil)

// New constructs the Postgres-backed snapshot store
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("snapshot.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("snapshot.Service requires a non-nil Repo binder")
	}
	return &Svc{db: db, binder: binder, log: *logger.Named("snapshot")}
}

// Ensure creates backing storage when it is missing
func (s *Svc) Ensure(ctx context.Context) error {
	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		return repokit.MustBind(s.binder, q).Ensure(ctx)
	})
}

// Load reads the prior snapshot for a source. Entries that no longer produce
// a valid identity are dropped with a warning. Backend failures surface as
// errors; an unreachable database must not look like a first run, that would
// turn the whole page into a bogus baseline
func (s *Svc) Load(ctx context.Context, source string, scheme record.Scheme) (*record.Set, error) {
	flat, err := repokit.MustBind(s.binder, s.db).Snapshot(ctx, source)
	if err != nil {
		return nil, err
	}
	set, dropped := domain.Build(flat, scheme)
	if dropped > 0 {
		s.log.Warn().Str("source", source).Int("dropped", dropped).
			Msg("snapshot entries no longer match the identity scheme")
	}
	return set, nil
}

// Save replaces the source's snapshot in a single transaction. Serialization
// or lock contention gets a couple of fresh attempts before the error reaches
// the pipeline
func (s *Svc) Save(ctx context.Context, source string, set *record.Set) error {
	flat := domain.Flatten(set)
	for attempt := 1; ; attempt++ {
		err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
			return repokit.MustBind(s.binder, q).Replace(ctx, source, flat)
		})
		if err == nil || attempt == saveAttempts || !perr.Retryable(err) {
			return err
		}
		s.log.Warn().Str("source", source).Int("attempt", attempt).Err(err).
			Msg("snapshot save hit transient contention, retrying")
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
}
