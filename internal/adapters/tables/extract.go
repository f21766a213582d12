package tables

import (
	"strings"

	"modelwatch/internal/core/normalize"
	"modelwatch/internal/core/record"
	"modelwatch/internal/core/sources"
	perr "modelwatch/internal/platform/errors"
)

// Extract parses the page and returns the raw rows selected by the source's
// hints, in page order. Section hints narrow the scan; tab labels filter
// multi-tab pages and stamp each row's type; header synonyms bind canonical
// fields to columns. Tables that do not bind every required field are
// skipped, and a page where nothing binds is an extraction error. A bound
// table with no data rows is not an error, the caller decides what empty
// means
func Extract(content string, spec sources.ExtractSpec) ([]record.RawRow, error) {
	doc, err := Parse(content)
	if err != nil {
		return nil, err
	}

	var tbls []Table
	if spec.SectionStart != "" {
		tbls, err = doc.SectionTables(spec.SectionStart, spec.SectionEnd)
		if err != nil {
			return nil, err
		}
	} else {
		tbls = doc.Tables()
	}

	var rows []record.RawRow
	bound := 0
	for _, t := range tbls {
		typeLabel := ""
		if len(spec.TabLabels) > 0 {
			lbl, ok := spec.TabLabels[t.Label]
			if !ok {
				continue
			}
			typeLabel = lbl
		}
		cols := bindHeaders(t.Headers, spec.Headers)
		if !hasAll(cols, spec.Required) {
			continue
		}
		bound++
		rows = append(rows, tableRows(t, cols, typeLabel, spec.Required)...)
	}
	if bound == 0 {
		return nil, perr.Extractf("tables: no table matched required columns %v", spec.Required)
	}
	return rows, nil
}

// bindHeaders maps canonical field names to column indexes. Each header cell
// binds at most one field, chosen by the longest matching synonym so "model
// version" never lands on the model name field; each field keeps the first
// column that matched it
func bindHeaders(headers []string, syns map[string][]string) map[string]int {
	cols := make(map[string]int, len(syns))
	for idx, cell := range headers {
		field, ok := matchField(strings.ToLower(cell), syns)
		if !ok {
			continue
		}
		if _, taken := cols[field]; !taken {
			cols[field] = idx
		}
	}
	return cols
}

// matchField scans fields in canonical order so synonym-length ties resolve
// the same way every run
func matchField(cellLow string, syns map[string][]string) (string, bool) {
	best, bestLen := "", 0
	for _, field := range record.AllFields {
		for _, syn := range syns[field] {
			s := strings.ToLower(syn)
			if len(s) > bestLen && strings.Contains(cellLow, s) {
				best, bestLen = field, len(s)
			}
		}
	}
	return best, best != ""
}

func hasAll(cols map[string]int, required []string) bool {
	for _, f := range required {
		if _, ok := cols[f]; !ok {
			return false
		}
	}
	return true
}

// tableRows converts data rows to raw rows. A row too short to address every
// required column is skipped; optional columns past the row's end read empty
func tableRows(t Table, cols map[string]int, typeLabel string, required []string) []record.RawRow {
	need := 0
	for _, f := range required {
		if w := cols[f] + 1; w > need {
			need = w
		}
	}

	var out []record.RawRow
	for _, cells := range t.Rows {
		if len(cells) < need {
			continue
		}
		row := make(record.RawRow, len(cols)+1)
		for field, idx := range cols {
			if idx < len(cells) {
				row[field] = normalize.CellText(cells[idx])
			}
		}
		if typeLabel != "" {
			row[record.FieldType] = typeLabel
		}
		out = append(out, row)
	}
	return out
}
