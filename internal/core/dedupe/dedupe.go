// Package dedupe collapses normalized rows that share a logical identity into
// one canonical record per identity
package dedupe

import (
	"modelwatch/internal/core/record"
)

// Collapse folds rows sharing an identity into a single record each, keeping
// the preferred row per the policy in better. Output order is the first time
// each identity was seen in the input. Re-running Collapse on its own output
// is a no-op
func Collapse(rows []record.Record) *record.Set {
	out := record.NewSet()
	for _, r := range rows {
		cur, ok := out.Get(r.Identity.Key())
		if !ok || better(r, cur) {
			out.Put(r)
		}
	}
	return out
}

// better reports whether candidate should replace the incumbent for the same
// identity. Earliest retirement date wins, a dated row beats an undated one,
// on a date tie a non-empty replacement wins, otherwise the incumbent stays
// so first-seen order is stable
func better(candidate, incumbent record.Record) bool {
	if candidate.Retirement != incumbent.Retirement {
		if incumbent.Retirement == "" {
			return true
		}
		if candidate.Retirement == "" {
			return false
		}
		// ISO dates compare chronologically as strings
		return candidate.Retirement < incumbent.Retirement
	}
	return candidate.Replacement != "" && incumbent.Replacement == ""
}
