// Package domain defines the snapshot store port and the persisted document
// form shared by its backends
package domain

import (
	"context"
	"sort"

	"modelwatch/internal/core/record"
)

// Store loads and saves one source's canonical record set. Load returns an
// empty set on first run; Save replaces the prior snapshot whole
type Store interface {
	Load(ctx context.Context, source string, scheme record.Scheme) (*record.Set, error)
	Save(ctx context.Context, source string, set *record.Set) error
}

// Repo is the row-level surface the Postgres backend binds per queryer.
// Snapshot documents travel in flattened form, identity key to field map
type Repo interface {
	Ensure(ctx context.Context) error
	Snapshot(ctx context.Context, source string) (map[string]map[string]string, error)
	Replace(ctx context.Context, source string, flat map[string]map[string]string) error
}

// Flatten renders the set in the persisted document form
func Flatten(set *record.Set) map[string]map[string]string {
	out := make(map[string]map[string]string, set.Len())
	for _, r := range set.Records() {
		out[r.Identity.Key()] = r.Map()
	}
	return out
}

// Build rebuilds a record set from the persisted form under scheme, iterating
// keys in sorted order so the result is deterministic. Entries that no longer
// produce a valid identity, typically after a scheme change, are dropped and
// counted; the caller decides how loudly to warn
func Build(flat map[string]map[string]string, scheme record.Scheme) (*record.Set, int) {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := record.NewSet()
	dropped := 0
	for _, k := range keys {
		r, err := record.FromMap(flat[k], scheme)
		if err != nil {
			dropped++
			continue
		}
		set.Put(r)
	}
	return set, dropped
}
