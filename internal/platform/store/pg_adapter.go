package store

import (
	"context"
	"errors"
	"time"

	"modelwatch/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryTrace forwards query timings to the configured tracer. The zero value
// (nil tracer) drops everything
type queryTrace struct {
	t      pg.QueryTracer
	slowUS int64
}

func (q queryTrace) observe(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if q.t == nil {
		return
	}
	elapsed := time.Since(start).Microseconds()
	q.t.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsed,
		Err:       err,
		Slow:      q.slowUS >= 0 && elapsed >= q.slowUS,
	})
}

// pgAdapter wraps pg.PG and implements the RowQuerier + TxRunner seams,
// tracing every query it runs
type pgAdapter struct {
	p     *pg.PG
	trace queryTrace
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		p:     p,
		trace: queryTrace{t: p.Tracer, slowUS: int64(p.SlowMs) * 1000},
	}
}

// Ping round-trips a trivial query so readiness shows up in the trace
func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := a.p.Pool.Exec(ctx, sql, args...)
	a.trace.observe(ctx, sql, args, start, err)
	return pgTag{ct}, err
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.p.Pool.Query(ctx, sql, args...)
	// timing covers query open, not the scan loop
	a.trace.observe(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{r: rs}, nil
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.p.Pool.QueryRow(ctx, sql, args...)
	// single rows surface their error on Scan, so trace there
	return pgRow{r: r, after: func(scanErr error) {
		a.trace.observe(ctx, sql, args, start, scanErr)
	}}
}

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(pgTxQuerier{tx: tx, trace: a.trace}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// pgTxQuerier satisfies RowQuerier inside a transaction, with the same
// tracing as the pool paths
type pgTxQuerier struct {
	tx    pgx.Tx
	trace queryTrace
}

func (t pgTxQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.tx.Exec(ctx, sql, args...)
	t.trace.observe(ctx, sql, args, start, err)
	return pgTag{ct}, err
}

func (t pgTxQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.tx.Query(ctx, sql, args...)
	t.trace.observe(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{r: rs}, nil
}

func (t pgTxQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.tx.QueryRow(ctx, sql, args...)
	return pgRow{r: r, after: func(scanErr error) {
		t.trace.observe(ctx, sql, args, start, scanErr)
	}}
}

// thin pgx wrappers for the store seam types

type pgRow struct {
	r     pgx.Row
	after func(error)
}

func (x pgRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type pgRows struct{ r pgx.Rows }

func (x pgRows) Next() bool            { return x.r.Next() }
func (x pgRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x pgRows) Err() error            { return x.r.Err() }
func (x pgRows) Close()                { x.r.Close() }
func (x pgRows) Columns() []string {
	fields := x.r.FieldDescriptions()
	cols := make([]string, len(fields))
	for i := range fields {
		cols[i] = string(fields[i].Name)
	}
	return cols
}

type pgTag struct{ t pgconn.CommandTag }

func (t pgTag) String() string      { return t.t.String() }
func (t pgTag) RowsAffected() int64 { return t.t.RowsAffected() }
