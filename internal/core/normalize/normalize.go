// Package normalize canonicalizes scraped field text for the retirement
// pipeline: table cell cleanup, model name date-suffix stripping, and
// free-text date extraction.
// Cell pipeline order
// 1 Control sanitize and UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Remove format chars ZWJ ZWNJ FEFF etc
// 4 Width fold fullwidth to ASCII
// 5 Collapse whitespace to single spaces and trim
package normalize

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// CellText returns the cleaned form of one scraped table cell following the
// pipeline described above. Case and diacritics are preserved; cell content
// is display text, not match text
func CellText(s string) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)

	// repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return collapseSpaces(ns)
}

// dateSuffix matches a trailing snapshot stamp like -20240620
var dateSuffix = regexp.MustCompile(`-\d{8}$`)

// ModelName strips trailing 8-digit date suffixes from a model name and trims
// surrounding whitespace. Everything else, including embedded version numbers
// and punctuation, is left untouched. Stripping repeats until no suffix
// remains so the function is idempotent; empty input comes back unchanged
func ModelName(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		next := dateSuffix.ReplaceAllString(s, "")
		if next == s {
			return s
		}
		s = next
	}
}

// collapseSpaces converts whitespace runs, including line breaks, to a single
// ASCII space and trims the edges. Cells are single-line display values
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
