// Package repo provides the Postgres binding for the snapshot store
package repo

import (
	"context"
	"encoding/json"
	"sort"

	"modelwatch/internal/modkit/repokit"
	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/platform/store"
	"modelwatch/internal/services/snapshot/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion: queries implements domain.Repo
var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// Ensure implements domain.Repo
func (r *queries) Ensure(ctx context.Context) error { return Ensure(ctx, r.q) }

// Ensure creates the snapshot table when it does not exist yet. modelwatch
// owns its schema, there is no separate migration step
func Ensure(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS snapshot_records (
			source     text        NOT NULL,
			record_key text        NOT NULL,
			fields     jsonb       NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (source, record_key)
		)
	`); err != nil {
		return perr.FromPostgres(err, "snapshot: ensure schema")
	}
	return nil
}

// Snapshot returns the persisted document for one source, empty on first run
func (r *queries) Snapshot(ctx context.Context, source string) (map[string]map[string]string, error) {
	type pair struct {
		key string
		raw []byte
	}
	pairs, err := store.Many(ctx, r.q, func(row store.Row) (pair, error) {
		var p pair
		err := row.Scan(&p.key, &p.raw)
		return p, err
	}, `
		SELECT record_key, fields
		FROM snapshot_records
		WHERE source = $1
		ORDER BY record_key
	`, source)
	if err != nil {
		return nil, perr.FromPostgresf(err, "snapshot: load %s", source)
	}

	out := make(map[string]map[string]string, len(pairs))
	for _, p := range pairs {
		fields := map[string]string{}
		if err := json.Unmarshal(p.raw, &fields); err != nil {
			return nil, perr.JSONErrf("snapshot: fields for %s %s: %v", source, p.key, err)
		}
		out[p.key] = fields
	}
	return out, nil
}

// Replace swaps the source's document whole. Callers run it inside a
// transaction so readers never observe the gap between delete and insert
func (r *queries) Replace(ctx context.Context, source string, flat map[string]map[string]string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM snapshot_records WHERE source = $1`, source); err != nil {
		return perr.FromPostgresf(err, "snapshot: clear %s", source)
	}
	if len(flat) == 0 {
		return nil
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	docs := make([]string, len(keys))
	for i, k := range keys {
		b, err := json.Marshal(flat[k])
		if err != nil {
			return perr.Internalf("snapshot: marshal %s %s: %v", source, k, err)
		}
		docs[i] = string(b)
	}

	if _, err := r.q.Exec(ctx, `
		INSERT INTO snapshot_records (source, record_key, fields)
		SELECT $1, t.k, t.f::jsonb
		FROM unnest($2::text[], $3::text[]) AS t(k, f)
	`, source, keys, docs); err != nil {
		// constraint failures name their column so the log pins the bad value
		return perr.AttachFieldFromPg(perr.FromPostgresf(err, "snapshot: insert %s", source))
	}
	return nil
}
