package store

import (
	"context"
	"errors"
	"testing"

	"modelwatch/internal/platform/store/ch"
)

// fakeCH satisfies chClient without a server
type fakeCH struct {
	execSQL    string
	insertTab  string
	insertCols []string
	insertRows [][]any
	queryErr   error
	pingErr    error
	closed     bool
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execSQL = sql
	return nil
}

func (f *fakeCH) Insert(_ context.Context, table string, cols []string, rows [][]any) error {
	f.insertTab = table
	f.insertCols = cols
	f.insertRows = rows
	return nil
}

func (f *fakeCH) Query(_ context.Context, _ string, _ ...any) (ch.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeChRows{cols: []string{"alpha", "beta"}}, nil
}

func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { f.closed = true; return nil }

type fakeChRows struct {
	cols   []string
	closed bool
}

func (f *fakeChRows) Next() bool             { return false }
func (f *fakeChRows) Scan(dest ...any) error { return nil }
func (f *fakeChRows) Err() error             { return nil }
func (f *fakeChRows) Close() error           { f.closed = true; return nil }
func (f *fakeChRows) Columns() []string      { return f.cols }

// TestCHAdapter_InsertDelegates passes table, cols, and rows through unchanged
func TestCHAdapter_InsertDelegates(t *testing.T) {
	t.Parallel()

	f := &fakeCH{}
	a := newCHAdapter(f)

	rows := [][]any{{"r1", "claude"}, {"r2", "bedrock"}}
	if err := a.Insert(context.Background(), "model_events", []string{"run_id", "source"}, rows); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if f.insertTab != "model_events" {
		t.Fatalf("table got %q", f.insertTab)
	}
	if len(f.insertCols) != 2 || f.insertCols[0] != "run_id" {
		t.Fatalf("cols got %v", f.insertCols)
	}
	if len(f.insertRows) != 2 {
		t.Fatalf("rows got %d", len(f.insertRows))
	}
}

// TestCHAdapter_QueryWrapsRows adapts ch.Rows to store.Rows including Columns
func TestCHAdapter_QueryWrapsRows(t *testing.T) {
	t.Parallel()

	f := &fakeCH{}
	a := newCHAdapter(f)

	rows, err := a.Query(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if rows.Next() {
		t.Fatalf("Next should be false on empty fake")
	}
	cols := rows.Columns()
	if len(cols) != 2 || cols[0] != "alpha" || cols[1] != "beta" {
		t.Fatalf("Columns mismatch: %#v", cols)
	}
	rows.Close()
}

// TestCHAdapter_QueryError propagates underlying errors with nil rows
func TestCHAdapter_QueryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	a := newCHAdapter(&fakeCH{queryErr: boom})

	rows, err := a.Query(context.Background(), "SELECT 1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if rows != nil {
		t.Fatalf("expected nil rows on error")
	}
}

// TestCHAdapter_PingAndClose delegate to the client
func TestCHAdapter_PingAndClose(t *testing.T) {
	t.Parallel()

	f := &fakeCH{pingErr: errors.New("down")}
	a := newCHAdapter(f)

	if err := a.(*clickhouseAdapter).Ping(context.Background()); err == nil {
		t.Fatalf("Ping expected error")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !f.closed {
		t.Fatalf("Close did not delegate")
	}
}

// TestCHAdapter_ExecDelegates forwards statements
func TestCHAdapter_ExecDelegates(t *testing.T) {
	t.Parallel()

	f := &fakeCH{}
	a := newCHAdapter(f)
	if err := a.Exec(context.Background(), "CREATE TABLE t (x UInt8) ENGINE = Memory"); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if f.execSQL == "" {
		t.Fatalf("Exec did not delegate")
	}
}
