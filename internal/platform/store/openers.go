package store

import (
	"context"
	"fmt"
	"time"

	chx "modelwatch/internal/platform/store/ch"
	"modelwatch/internal/platform/store/pg"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Boot probe defaults; PGConfig.ConnectRetries and PGConfig.PingTimeout override them
const (
	defaultConnectRetries = 6
	defaultPingTimeout    = 5 * time.Second
)

// openPG opens the snapshot pool and wraps it in the store adapter.
// The pool is probed until it answers so callers never receive a half-open
// store; retries back off exponentially starting at one second
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, func(pc *pgxpool.Config) {
		// attribute our connections in pg_stat_activity, like the
		// clickhouse client info does on its side
		if cfg.AppName != "" {
			pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
		}
	})
	if err != nil {
		return nil, err
	}

	retries := cfg.PG.ConnectRetries
	if retries <= 0 {
		retries = defaultConnectRetries
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}

	// ping the pool directly so boot probes stay out of the SQL trace
	probe := func() error {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return p.Pool.Ping(pctx)
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			case <-ctx.Done():
				p.Close()
				return nil, ctx.Err()
			}
		}
		if lastErr = probe(); lastErr == nil {
			a := newPGAdapter(p)
			s.PG = a // published only once the pool answers
			return a, nil
		}
	}

	p.Close()
	return nil, fmt.Errorf("postgres unreachable after %d retries: %w", retries, lastErr)
}

// openCH opens the change archive client; clickhouse needs no boot probe
// because Open already round-trips a ping
func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientRole: cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
