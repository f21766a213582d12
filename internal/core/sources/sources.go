// Package sources loads and compiles the source registry from the embedded
// sources.json. Each entry fixes a vendor page's URL, extraction hints,
// identity scheme, compare fields, and CSV column order
package sources

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"

	"modelwatch/internal/core/record"
)

//go:embed sources.json
var embedded []byte

type rawExtract struct {
	SectionStart string              `json:"section_start,omitempty"`
	SectionEnd   string              `json:"section_end,omitempty"`
	Headers      map[string][]string `json:"headers"`
	Required     []string            `json:"required"`
	TabLabels    map[string]string   `json:"tab_labels,omitempty"`
}

type rawSource struct {
	Name     string            `json:"name"`
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	Identity []string          `json:"identity"`
	Compare  []string          `json:"compare"`
	Columns  []string          `json:"csv_columns"`
	Extract  rawExtract        `json:"extract"`
	Tabs     map[string]string `json:"tabs,omitempty"`
}

type rawRegistry struct {
	Version int         `json:"version"`
	Sources []rawSource `json:"sources"`
}

// ExtractSpec guides the table extractor for one source. Header synonyms are
// matched as caseless substrings; a table qualifies only when every Required
// field resolves to a column
type ExtractSpec struct {
	SectionStart string
	SectionEnd   string
	Headers      map[string][]string
	Required     []string
	TabLabels    map[string]string
}

// Source is one compiled registry entry
type Source struct {
	Name    string
	Title   string
	URL     string
	Scheme  record.Scheme
	Compare []string
	Columns []string
	Extract ExtractSpec
	Tabs    map[string]string
}

// LinkFor returns the deep link for a row type, falling back to the page URL
// for sources without tab anchors
func (s *Source) LinkFor(typeLabel string) string {
	if tab, ok := s.Tabs[typeLabel]; ok {
		return s.URL + "?" + url.Values{"tabs": {tab}}.Encode()
	}
	return s.URL
}

// MultiTab reports whether the source types its rows per tab
func (s *Source) MultiTab() bool { return len(s.Extract.TabLabels) > 0 }

// Registry is the compiled source set in declaration order
type Registry struct {
	Version int
	Sources []*Source

	byName map[string]*Source
}

// Get returns a source by name
func (r *Registry) Get(name string) (*Source, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Names returns the source names in declaration order
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		out = append(out, s.Name)
	}
	return out
}

// Load returns the compiled registry from the embedded sources.json
func Load() (*Registry, error) {
	var raw rawRegistry
	if err := json.Unmarshal(embedded, &raw); err != nil {
		return nil, fmt.Errorf("sources: parse sources.json: %w", err)
	}
	if raw.Version != 1 {
		return nil, fmt.Errorf("sources: unsupported sources.json version %d (want 1)", raw.Version)
	}
	if len(raw.Sources) == 0 {
		return nil, fmt.Errorf("sources: registry declares no sources")
	}

	reg := &Registry{
		Version: raw.Version,
		byName:  make(map[string]*Source, len(raw.Sources)),
	}
	for _, rs := range raw.Sources {
		s, err := compile(rs)
		if err != nil {
			return nil, err
		}
		if _, dup := reg.byName[s.Name]; dup {
			return nil, fmt.Errorf("sources: duplicate source %q", s.Name)
		}
		reg.byName[s.Name] = s
		reg.Sources = append(reg.Sources, s)
	}
	return reg, nil
}

func compile(rs rawSource) (*Source, error) {
	if rs.Name == "" {
		return nil, fmt.Errorf("sources: source with empty name")
	}
	if rs.URL == "" {
		return nil, fmt.Errorf("sources: %s: empty url", rs.Name)
	}
	if _, err := url.Parse(rs.URL); err != nil {
		return nil, fmt.Errorf("sources: %s: bad url: %w", rs.Name, err)
	}
	if len(rs.Identity) == 0 {
		return nil, fmt.Errorf("sources: %s: empty identity scheme", rs.Name)
	}

	// every referenced field must be canonical
	var probe record.Record
	check := func(kind string, fields []string) error {
		for _, f := range fields {
			if _, ok := probe.Field(f); !ok {
				return fmt.Errorf("sources: %s: %s references unknown field %q", rs.Name, kind, f)
			}
		}
		return nil
	}
	if err := check("identity", rs.Identity); err != nil {
		return nil, err
	}
	if err := check("compare", rs.Compare); err != nil {
		return nil, err
	}
	if err := check("csv_columns", rs.Columns); err != nil {
		return nil, err
	}
	if err := check("required", rs.Extract.Required); err != nil {
		return nil, err
	}
	headerFields := make([]string, 0, len(rs.Extract.Headers))
	for f := range rs.Extract.Headers {
		headerFields = append(headerFields, f)
	}
	if err := check("extract.headers", headerFields); err != nil {
		return nil, err
	}
	for _, req := range rs.Extract.Required {
		if _, ok := rs.Extract.Headers[req]; !ok {
			return nil, fmt.Errorf("sources: %s: required field %q has no header synonyms", rs.Name, req)
		}
	}
	if len(rs.Compare) == 0 {
		return nil, fmt.Errorf("sources: %s: empty compare field list", rs.Name)
	}

	return &Source{
		Name:    rs.Name,
		Title:   rs.Title,
		URL:     rs.URL,
		Scheme:  record.Scheme{Fields: rs.Identity},
		Compare: rs.Compare,
		Columns: rs.Columns,
		Extract: ExtractSpec{
			SectionStart: rs.Extract.SectionStart,
			SectionEnd:   rs.Extract.SectionEnd,
			Headers:      rs.Extract.Headers,
			Required:     rs.Extract.Required,
			TabLabels:    rs.Extract.TabLabels,
		},
		Tabs: rs.Tabs,
	}, nil
}
