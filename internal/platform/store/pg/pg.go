// Package pg dials the snapshot database over pgxpool and defines the
// query trace the store adapter reports into
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the subset of pool settings the store layer exposes
type Config struct {
	URL      string
	MaxConns int32

	// SlowMs is the slow-query threshold the tracer flags against;
	// negative disables flagging
	SlowMs int
}

// PG couples the pool with its tracing settings so the adapter can carry
// both around as one handle
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// seam for tests
var newPool = pgxpool.NewWithConfig

// Open parses the DSN and builds the pool. The optional mutator runs after
// our settings are applied, so callers can layer runtime params on top
func Open(ctx context.Context, cfg Config, tracer QueryTracer, poolCfgMut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if poolCfgMut != nil {
		poolCfgMut(pcfg)
	}

	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: pool: %w", err)
	}

	return &PG{
		Pool:   pool,
		Tracer: tracer,
		SlowMs: cfg.SlowMs,
	}, nil
}

// Close releases the pool; safe on nil receivers and nil pools
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
