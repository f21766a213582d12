// Package store opens and fronts the optional storage backends: Postgres for
// current snapshots and ClickHouse for the append-only change archive
package store

import (
	"context"
	"errors"
	"fmt"

	"modelwatch/internal/platform/logger"
)

// Store is the facade handed to runners. A zero value is safe: both seams
// stay nil until the matching backend is enabled in config
type Store struct {
	// Log feeds backend logging and the SQL trace; the zero value is inert
	Log logger.Logger

	// PG backs the snapshot tables, nil when disabled
	PG TxRunner

	// CH backs the change archive, nil when disabled
	CH Clickhouse
}

// Row is the single-row scan surface repos see
type Row interface {
	Scan(dest ...any) error
}

// Rows is the result-set surface: iterate, scan, inspect columns
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a statement did, mainly rows affected
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is what snapshot repos get to run SQL with, inside or
// outside a transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner adds transactions on top of RowQuerier; the snapshot replace
// flow runs its delete and insert under one Tx call
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the change-archive seam: batched appends and reads
type Clickhouse interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, cols []string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is implemented by seams that can answer a readiness probe
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the backends enabled in cfg. A backend that
// fails to come up aborts the whole Open; partially-open stores are not
// returned
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// normalize a zero logger so subclients never nil-check
	s.Log = s.Log.With().Logger()

	if cfg.PG.Enabled {
		txr, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = txr
	}

	if cfg.CH.Enabled {
		chc, err := openCH(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.CH = chc
	}

	return s, nil
}

// Guard pings every configured seam and joins the failures. Seams that do
// not implement Pinger are skipped
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}

	ping := func(name string, seam any) error {
		p, ok := seam.(Pinger)
		if !ok {
			return nil
		}
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	var errs []error
	if s.PG != nil {
		if err := ping("pg", s.PG); err != nil {
			errs = append(errs, err)
		}
	}
	if s.CH != nil {
		if err := ping("ch", s.CH); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close shuts down every initialized backend, collecting errors. Nil seams
// are ignored
func (s *Store) Close(_ context.Context) error {
	var errs []error

	if s.CH != nil {
		if err := s.CH.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
