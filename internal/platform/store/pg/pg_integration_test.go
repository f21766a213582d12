//go:build integration_pg
// +build integration_pg

package pg

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres boots a throwaway Postgres and hands back its DSN; the
// generous deadline covers a cold image pull
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	pgc, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("modelwatch"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
		tc.WithWaitStrategy(
			// the entrypoint restarts the server once, hence occurrence 2
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		cancel()
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err = pgc.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgc.Terminate(context.Background())
		cancel()
		t.Fatalf("connection string: %v", err)
	}

	stop = func() {
		_ = pgc.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestOpen_Integration_PoolServesQueries(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	appName := "modelwatch-pg-test"

	WithTestDB(t, dsn, func(pc *pgxpool.Config) {
		if pc.ConnConfig.RuntimeParams == nil {
			pc.ConnConfig.RuntimeParams = map[string]string{}
		}
		pc.ConnConfig.RuntimeParams["application_name"] = appName
		pc.MinConns = 1
	}, func(p *PG) {
		// one pinned session so the TEMP table survives between statements
		conn := AcquireConn(t, ctx, p)

		// the runtime param from the mutator reached the server
		var gotApp string
		if err := conn.QueryRow(ctx, `SELECT current_setting('application_name')`).Scan(&gotApp); err != nil {
			t.Fatalf("read application_name: %v", err)
		}
		if gotApp != appName {
			t.Fatalf("application_name: got %q want %q", gotApp, appName)
		}

		if _, err := conn.Exec(ctx, `
			CREATE TEMPORARY TABLE lifecycle_probe (
				model      TEXT PRIMARY KEY,
				retirement DATE NOT NULL
			)
		`); err != nil {
			t.Fatalf("create temp table: %v", err)
		}
		defer func() { _, _ = conn.Exec(ctx, `DROP TABLE IF EXISTS lifecycle_probe`) }()

		// batched insert, the shape the snapshot replace uses
		batch := &pgx.Batch{}
		batch.Queue(`INSERT INTO lifecycle_probe (model, retirement) VALUES ($1, $2)`,
			"claude-2.0", time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC))
		batch.Queue(`INSERT INTO lifecycle_probe (model, retirement) VALUES ($1, $2)`,
			"claude-instant-1.2", time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC))
		br := conn.SendBatch(ctx, batch)
		for i := 0; i < 2; i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				t.Fatalf("batch insert %d: %v", i, err)
			}
		}
		if err := br.Close(); err != nil {
			t.Fatalf("batch close: %v", err)
		}

		type probeRow struct {
			Model      string
			Retirement time.Time
		}
		rows, err := conn.Query(ctx, `SELECT model, retirement FROM lifecycle_probe ORDER BY model`)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		defer rows.Close()

		got, err := pgx.CollectRows(rows, pgx.RowToStructByPos[probeRow])
		if err != nil {
			t.Fatalf("collect: %v", err)
		}
		if len(got) != 2 || got[0].Model != "claude-2.0" || got[1].Model != "claude-instant-1.2" {
			t.Fatalf("rows: %#v", got)
		}
		if got[0].Retirement.Format("2006-01-02") != "2025-07-21" {
			t.Fatalf("retirement: %v", got[0].Retirement)
		}
	})
}
