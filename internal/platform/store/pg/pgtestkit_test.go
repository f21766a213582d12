package pg

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTestDB opens a client against dsn, hands it to fn, and tears it down
// on cleanup. poolMut may be nil
func WithTestDB(t *testing.T, dsn string, poolMut func(*pgxpool.Config), fn func(p *PG)) {
	t.Helper()

	client, err := Open(context.Background(), Config{URL: dsn}, nil, poolMut)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(client.Close)
	fn(client)
}

// AcquireConn pins one pooled connection for the rest of the test, which
// keeps TEMP tables and session settings visible across statements
func AcquireConn(t *testing.T, ctx context.Context, p *PG) *pgxpool.Conn {
	t.Helper()

	conn, err := p.Pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	t.Cleanup(conn.Release)
	return conn
}
