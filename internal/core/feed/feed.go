// Package feed assembles the next feed entry sequence from change events and
// the entries emitted by previous runs
package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"modelwatch/internal/core/diff"
	"modelwatch/internal/core/record"
)

// Entry is one feed item. The sequence is newest first
type Entry struct {
	Title       string
	Link        string
	GUID        string
	Description string
	Published   time.Time
}

// Options configure an Assembler
type Options struct {
	// MaxEntries caps the sequence after fresh entries are prepended.
	// Zero keeps every entry
	MaxEntries int
	// Link resolves the entry link for an event, usually the source page or
	// a tab deep-link
	Link func(diff.Event) string
	// Now stamps publish times on fresh entries, defaults to time.Now
	Now func() time.Time
}

// Assembler renders change events into feed entries
type Assembler struct {
	opts Options
}

// New builds an Assembler
func New(opts Options) *Assembler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Assembler{opts: opts}
}

// Assemble returns the next entry sequence. With no events the prior entries
// come back unchanged, never regenerated or truncated. Fresh entries are
// prepended in event order so readers see newest first; prior entries whose
// GUID reappears are dropped, which makes re-running an identical diff a
// no-op for feed readers
func (a *Assembler) Assemble(events []diff.Event, prior []Entry) []Entry {
	if len(events) == 0 {
		return prior
	}

	fresh := make([]Entry, 0, len(events))
	seen := make(map[string]bool, len(events))
	now := a.opts.Now().UTC()
	for _, ev := range events {
		e := a.render(ev, now)
		fresh = append(fresh, e)
		seen[e.GUID] = true
	}

	out := fresh
	for _, p := range prior {
		if seen[p.GUID] {
			continue
		}
		out = append(out, p)
	}

	if a.opts.MaxEntries > 0 && len(out) > a.opts.MaxEntries {
		out = out[:a.opts.MaxEntries]
	}
	return out
}

// GUID returns the stable identifier for an event: flattened identity, kind,
// and a discriminator hashed purely from the change's content. Identical
// logical changes yield identical GUIDs across runs; wall-clock time never
// participates
func GUID(ev diff.Event) string {
	switch ev.Kind {
	case diff.KindBaseline:
		var parts []string
		for _, r := range ev.Records {
			parts = append(parts, recordLines(r)...)
		}
		return fmt.Sprintf("%s|%s", ev.Kind, digest(parts))
	case diff.KindNew:
		return fmt.Sprintf("%s|%s|%s", ev.Identity.Key(), ev.Kind, digest(recordLines(*ev.Current)))
	default:
		parts := make([]string, 0, len(ev.Fields))
		for _, fc := range ev.Fields {
			parts = append(parts, fc.Field+":"+fc.Old+">"+fc.New)
		}
		return fmt.Sprintf("%s|%s|%s", ev.Identity.Key(), ev.Kind, digest(parts))
	}
}

func (a *Assembler) render(ev diff.Event, now time.Time) Entry {
	e := Entry{
		GUID:      GUID(ev),
		Published: now,
	}
	if a.opts.Link != nil {
		e.Link = a.opts.Link(ev)
	}

	switch ev.Kind {
	case diff.KindBaseline:
		e.Title = "Baseline created"
		e.Description = fmt.Sprintf("%s Tracking %d entries.", ev.Message, len(ev.Records))
	case diff.KindNew:
		e.Title = "New: " + label(ev.Identity)
		e.Description = "New entry: " + describeRecord(*ev.Current)
	default:
		e.Title = "Updated: " + label(ev.Identity)
		e.Description = describeChanges(ev.Fields)
	}
	return e
}

// label joins the non-empty identity parts for titles
func label(id record.Identity) string {
	parts := make([]string, 0, len(id))
	for _, p := range id {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func describeRecord(r record.Record) string {
	var parts []string
	for _, f := range record.AllFields {
		if v, _ := r.Field(f); v != "" {
			parts = append(parts, f+": "+v)
		}
	}
	return strings.Join(parts, "; ")
}

func describeChanges(changes []diff.FieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, fc := range changes {
		parts = append(parts, fmt.Sprintf("%s: %s -> %s", fc.Field, orNone(fc.Old), orNone(fc.New)))
	}
	return strings.Join(parts, "; ")
}

func orNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}

// recordLines serializes a record's populated fields in fixed order for
// hashing
func recordLines(r record.Record) []string {
	var out []string
	for _, f := range record.AllFields {
		if v, _ := r.Field(f); v != "" {
			out = append(out, f+"="+v)
		}
	}
	return out
}

func digest(parts []string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
