// Package diff compares a freshly built canonical record set against the
// prior snapshot and emits a classified, ordered list of change events
package diff

import (
	"modelwatch/internal/core/record"
)

// Kind classifies a change event
type Kind string

// Event kinds. Removals are deliberately not modeled, an identity leaving the
// page produces no event
const (
	KindNew      Kind = "new"
	KindUpdated  Kind = "updated"
	KindBaseline Kind = "baseline"
)

// BaselineMessage is the synthetic event text for a first run
const BaselineMessage = "Baseline created; snapshot initialized."

// FieldChange is one field-level difference inside an Updated event
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// Event is one classified difference between the prior snapshot and the
// current run. Previous and Fields are set for Updated, Current for New and
// Updated, Records and Message for Baseline
type Event struct {
	Kind     Kind
	Identity record.Identity
	Previous *record.Record
	Current  *record.Record
	Fields   []FieldChange
	Records  []record.Record
	Message  string
}

// Detector compares record sets over a fixed, source-appropriate list of
// compare fields. Field order in the list fixes FieldChange order
type Detector struct {
	compare []string
}

// New builds a detector over the given compare fields
func New(compareFields []string) *Detector {
	return &Detector{compare: compareFields}
}

// Diff returns the change events between prior and next. An empty or nil
// prior snapshot is the first run and yields a single Baseline event instead
// of one New per record. Event order follows the order identities appear in
// next, never map iteration order
func (d *Detector) Diff(prior, next *record.Set) []Event {
	if prior == nil || prior.Len() == 0 {
		return []Event{{
			Kind:    KindBaseline,
			Records: next.Records(),
			Message: BaselineMessage,
		}}
	}

	var events []Event
	for _, r := range next.Records() {
		prev, ok := prior.Get(r.Identity.Key())
		if !ok {
			cur := r
			events = append(events, Event{Kind: KindNew, Identity: r.Identity, Current: &cur})
			continue
		}
		changes := d.fieldChanges(prev, r)
		if len(changes) == 0 {
			continue
		}
		cur, old := r, prev
		events = append(events, Event{
			Kind:     KindUpdated,
			Identity: r.Identity,
			Previous: &old,
			Current:  &cur,
			Fields:   changes,
		})
	}
	return events
}

// fieldChanges collects every differing compare field, not just the first
func (d *Detector) fieldChanges(prev, cur record.Record) []FieldChange {
	var out []FieldChange
	for _, f := range d.compare {
		oldV, _ := prev.Field(f)
		newV, _ := cur.Field(f)
		if oldV != newV {
			out = append(out, FieldChange{Field: f, Old: oldV, New: newV})
		}
	}
	return out
}
