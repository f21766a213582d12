// Package scope carries string attributes across call boundaries on a
// context. The scrape runner stamps run and source identity here and the
// logger folds every attribute into its log lines
package scope

import (
	"context"
	"sort"
)

// Scope holds the attributes attached to a context
type Scope struct {
	Values map[string]string
}

// Keys returns the attribute names in sorted order for deterministic output
func (s Scope) Keys() []string {
	if len(s.Values) == 0 {
		return nil
	}
	ks := make([]string, 0, len(s.Values))
	for k := range s.Values {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

type key struct{}

// With returns a child context whose scope carries kv on top of the parent's
// attributes. The parent scope is copied, never mutated, so sibling contexts
// cannot see each other's values
func With(ctx context.Context, kv map[string]string) context.Context {
	if len(kv) == 0 {
		return ctx
	}
	parent := From(ctx)
	vals := make(map[string]string, len(parent.Values)+len(kv))
	for k, v := range parent.Values {
		vals[k] = v
	}
	for k, v := range kv {
		vals[k] = v
	}
	return context.WithValue(ctx, key{}, Scope{Values: vals})
}

// Get returns one attribute and whether it was present
func Get(ctx context.Context, k string) (string, bool) {
	s := From(ctx)
	v, ok := s.Values[k]
	return v, ok
}

// From returns the scope on ctx or an empty one. The returned map is shared
// with the context, callers must treat it as read only
func From(ctx context.Context) Scope {
	v := ctx.Value(key{})
	if v == nil {
		return Scope{}
	}
	s, _ := v.(Scope)
	return s
}
