package normalize

import (
	"regexp"
	"time"
)

// Date grammars seen across the vendor pages. ISO appears embedded in free
// text, long form carries qualifier prefixes like "Not sooner than", slash
// form carries "No sooner than"
var (
	reISO   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	reLong  = regexp.MustCompile(`([A-Za-z]+)\s+(\d{1,2}),\s*(\d{4})\b`)
	reSlash = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
)

// Date extracts the earliest valid calendar date mentioned anywhere in raw
// free text and returns it as an ISO YYYY-MM-DD string. Every match of every
// grammar is validated as a real calendar date; the earliest one wins, which
// settles fields that mention more than one date. Returns false when nothing
// parses. Malformed input is never an error, a bad row must not abort a run
func Date(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	var best time.Time
	found := false
	consider := func(t time.Time) {
		if !found || t.Before(best) {
			best = t
			found = true
		}
	}

	for _, m := range reISO.FindAllString(raw, -1) {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			consider(t)
		}
	}
	for _, m := range reLong.FindAllStringSubmatch(raw, -1) {
		if t, err := time.Parse("January 2, 2006", m[1]+" "+m[2]+", "+m[3]); err == nil {
			consider(t)
		}
	}
	for _, m := range reSlash.FindAllString(raw, -1) {
		if t, err := time.Parse("1/2/2006", m); err == nil {
			consider(t)
		}
	}

	if !found {
		return "", false
	}
	return best.Format("2006-01-02"), true
}
