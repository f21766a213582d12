// Package csvout renders canonical record sets as CSV exports
package csvout

import (
	"bytes"
	"encoding/csv"

	"modelwatch/internal/core/record"
	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/platform/fs"
)

// Marshal renders records as one header row followed by one row per record.
// Columns fixes both the header text and the cell order; fields a record does
// not carry render empty
func Marshal(columns []string, records []record.Record) ([]byte, error) {
	if len(columns) == 0 {
		return nil, perr.InvalidArgf("csvout: no columns")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, perr.Internalf("csvout: header: %v", err)
	}
	row := make([]string, len(columns))
	for _, r := range records {
		for i, col := range columns {
			v, _ := r.Field(col)
			row[i] = v
		}
		if err := w.Write(row); err != nil {
			return nil, perr.Internalf("csvout: row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, perr.Internalf("csvout: flush: %v", err)
	}
	return buf.Bytes(), nil
}

// WriteFile marshals and writes the export crash atomically, replacing any
// previous export in place
func WriteFile(path string, columns []string, records []record.Record) error {
	b, err := Marshal(columns, records)
	if err != nil {
		return err
	}
	return fs.WriteAtomic(path, b, 0o644)
}
