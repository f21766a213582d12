package store

import "context"

// Queryer is the minimal read seam the scan helpers need. The Postgres
// querier and the ClickHouse seam both satisfy it
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Many runs sql and maps every row through scan, in result order. The scan
// callback sees a Row bound to the current cursor position; returning an
// error aborts the read and surfaces that error
func Many[T any](ctx context.Context, q Queryer, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cur := cursorRow{rows: rows}
	var out []T
	for rows.Next() {
		item, err := scan(cur)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// cursorRow exposes the Rows cursor as a single Row for scan callbacks
type cursorRow struct{ rows Rows }

func (c cursorRow) Scan(dest ...any) error { return c.rows.Scan(dest...) }
