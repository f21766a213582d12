// Package record defines the canonical data model for the retirement pipeline:
// raw table rows, per-source identity schemes, canonical records, and the
// insertion-ordered record set the change detector consumes
package record

import (
	"fmt"
	"strings"
)

// KeySep joins identity parts into the flattened snapshot key.
// Scheme.IdentityOf rejects parts containing it, so the flat form is lossless
const KeySep = "||"

// Canonical field names as supplied by the table extractor and persisted in
// snapshots. Sources populate a subset; the registry says which
const (
	FieldSource      = "source"
	FieldType        = "type"
	FieldModelName   = "model_name"
	FieldVersion     = "version"
	FieldLifecycle   = "lifecycle_status"
	FieldDeprecation = "deprecation_date"
	FieldRetirement  = "retirement_date"
	FieldReplacement = "recommended_replacement"
)

// AllFields lists every canonical field in persisted column order
var AllFields = []string{
	FieldSource,
	FieldType,
	FieldModelName,
	FieldVersion,
	FieldLifecycle,
	FieldDeprecation,
	FieldRetirement,
	FieldReplacement,
}

// RawRow is one extracted table row, canonical field name -> free text cell
type RawRow map[string]string

// Get returns the trimmed cell value for a field, empty when absent
func (r RawRow) Get(field string) string { return strings.TrimSpace(r[field]) }

// Identity is the ordered tuple of field values naming one logical model
// within a source. Arity is fixed per source by its Scheme and never inferred
// from row content
type Identity []string

// Key flattens the identity for snapshot storage
func (id Identity) Key() string { return strings.Join(id, KeySep) }

// Equal reports part-for-part equality
func (id Identity) Equal(other Identity) bool {
	if len(id) != len(other) {
		return false
	}
	for i := range id {
		if id[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseKey splits a flattened key back into its identity parts
func ParseKey(key string) Identity { return Identity(strings.Split(key, KeySep)) }

// Scheme fixes the identity arity and field order for one source
type Scheme struct {
	Fields []string
}

// IdentityOf extracts the identity tuple from a record. Fails when an identity
// field is not canonical or its value contains KeySep, which would make the
// flattened key ambiguous; callers drop such rows
func (s Scheme) IdentityOf(r Record) (Identity, error) {
	parts := make(Identity, 0, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := r.Field(f)
		if !ok {
			return nil, fmt.Errorf("record: %q is not a canonical identity field", f)
		}
		if strings.Contains(v, KeySep) {
			return nil, fmt.Errorf("record: identity field %q value %q contains separator", f, v)
		}
		parts = append(parts, v)
	}
	return parts, nil
}

// Record is the canonical, deduplicated unit of truth for one identity.
// Field values are already normalized; Retirement and Deprecation hold
// ISO dates (YYYY-MM-DD) or empty, never free text
type Record struct {
	Source      string
	Type        string
	ModelName   string
	Version     string
	Lifecycle   string
	Deprecation string
	Retirement  string
	Replacement string

	Identity Identity
}

// Field returns the value of a canonical field by name
func (r Record) Field(name string) (string, bool) {
	switch name {
	case FieldSource:
		return r.Source, true
	case FieldType:
		return r.Type, true
	case FieldModelName:
		return r.ModelName, true
	case FieldVersion:
		return r.Version, true
	case FieldLifecycle:
		return r.Lifecycle, true
	case FieldDeprecation:
		return r.Deprecation, true
	case FieldRetirement:
		return r.Retirement, true
	case FieldReplacement:
		return r.Replacement, true
	}
	return "", false
}

// SetField assigns a canonical field by name, false for unknown names
func (r *Record) SetField(name, value string) bool {
	switch name {
	case FieldSource:
		r.Source = value
	case FieldType:
		r.Type = value
	case FieldModelName:
		r.ModelName = value
	case FieldVersion:
		r.Version = value
	case FieldLifecycle:
		r.Lifecycle = value
	case FieldDeprecation:
		r.Deprecation = value
	case FieldRetirement:
		r.Retirement = value
	case FieldReplacement:
		r.Replacement = value
	default:
		return false
	}
	return true
}

// Map renders the record's non-empty fields for snapshot persistence
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(AllFields))
	for _, f := range AllFields {
		if v, _ := r.Field(f); v != "" {
			m[f] = v
		}
	}
	return m
}

// FromMap rebuilds a record from a persisted field map and recomputes its
// identity under scheme. Unknown keys are ignored so older snapshots load
func FromMap(m map[string]string, scheme Scheme) (Record, error) {
	var r Record
	for k, v := range m {
		r.SetField(k, v)
	}
	id, err := scheme.IdentityOf(r)
	if err != nil {
		return Record{}, err
	}
	r.Identity = id
	return r, nil
}

// Set is an insertion-ordered collection of records keyed by flattened
// identity. Put keeps the first-seen position when a key is replaced, so
// iteration order (and therefore detector output order) is stable
type Set struct {
	order []string
	byKey map[string]Record
}

// NewSet returns an empty set
func NewSet() *Set { return &Set{byKey: map[string]Record{}} }

// Put inserts or replaces the record for its identity
func (s *Set) Put(r Record) {
	k := r.Identity.Key()
	if _, ok := s.byKey[k]; !ok {
		s.order = append(s.order, k)
	}
	s.byKey[k] = r
}

// Get returns the record stored under a flattened key
func (s *Set) Get(key string) (Record, bool) {
	r, ok := s.byKey[key]
	return r, ok
}

// Has reports whether a flattened key is present
func (s *Set) Has(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Len returns the number of records
func (s *Set) Len() int { return len(s.order) }

// Keys returns the flattened keys in first-seen order
func (s *Set) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Records returns the records in first-seen order
func (s *Set) Records() []Record {
	out := make([]Record, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out
}
