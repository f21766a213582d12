// Package repo provides the ClickHouse binding for the change archive
package repo

import (
	"context"
	"fmt"

	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/platform/store"
	"modelwatch/internal/services/archive/domain"
)

// Table is the archive table name
const Table = "model_changes"

var columns = []string{"run_id", "occurred_at", "source", "kind", "record_key", "detail"}

// CH implements domain.Repo over the store's ClickHouse seam
type CH struct {
	db store.Clickhouse
}

var _ domain.Repo = (*CH)(nil)

// NewCH returns the ClickHouse archive repo
func NewCH(db store.Clickhouse) *CH {
	if db == nil {
		panic("archive.Repo requires a non-nil Clickhouse seam")
	}
	return &CH{db: db}
}

// Ensure creates the archive table when it does not exist yet
func (r *CH) Ensure(ctx context.Context) error {
	err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+Table+` (
			run_id      String,
			occurred_at DateTime('UTC'),
			source      LowCardinality(String),
			kind        LowCardinality(String),
			record_key  String,
			detail      String
		)
		ENGINE = MergeTree
		ORDER BY (source, occurred_at, record_key)
	`)
	if err != nil {
		return perr.DBf("archive: ensure schema: %v", err)
	}
	return nil
}

// Insert appends one batch of change rows
func (r *CH) Insert(ctx context.Context, rows []domain.Change) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([][]any, len(rows))
	for i, c := range rows {
		batch[i] = []any{c.RunID, c.OccurredAt.UTC(), c.Source, c.Kind, c.RecordKey, c.Detail}
	}
	if err := r.db.Insert(ctx, Table, columns, batch); err != nil {
		return perr.DBf("archive: insert: %v", err)
	}
	return nil
}

// Recent returns the newest rows for a source, newest first. Limit is assumed
// validated by the service
func (r *CH) Recent(ctx context.Context, source string, limit int) ([]domain.Change, error) {
	out, err := store.Many(ctx, r.db, func(row store.Row) (domain.Change, error) {
		var c domain.Change
		err := row.Scan(&c.RunID, &c.OccurredAt, &c.Source, &c.Kind, &c.RecordKey, &c.Detail)
		return c, err
	}, fmt.Sprintf(`
		SELECT run_id, occurred_at, source, kind, record_key, detail
		FROM %s
		WHERE source = ?
		ORDER BY occurred_at DESC, record_key
		LIMIT %d
	`, Table, limit), source)
	if err != nil {
		return nil, perr.DBf("archive: recent %s: %v", source, err)
	}
	return out, nil
}
