// Package tables flattens HTML documentation tables into text cells
package tables

import (
	"strings"

	"golang.org/x/net/html"

	perr "modelwatch/internal/platform/errors"
)

// Table is one HTML table with its heading context stripped to plain text
type Table struct {
	// Label is the table's aria-label attribute lowered with "&" folded to
	// "and" and runs of whitespace collapsed, empty when absent
	Label string

	// Headers holds the header cell text in column order
	Headers []string

	// Rows holds the data cell text per row in document order
	Rows [][]string
}

// Document is a parsed HTML page
type Document struct {
	root *html.Node
}

// Parse parses content into a Document
func Parse(content string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, perr.Extractf("parse html: %v", err)
	}
	return &Document{root: root}, nil
}

// Tables returns every table in the document in order
func (d *Document) Tables() []Table {
	var out []Table
	for _, it := range d.items() {
		if it.table != nil {
			out = append(out, buildTable(it.table))
		}
	}
	return out
}

// SectionTables returns tables between two h2 headings. The section opens at
// the first h2 whose text contains start (caseless). With a non empty end it
// runs to the h2 containing end, otherwise to the next h2 of any kind
func (d *Document) SectionTables(start, end string) ([]Table, error) {
	var out []Table
	open := false
	closed := false

	for _, it := range d.items() {
		switch {
		case it.table != nil:
			if open {
				out = append(out, buildTable(it.table))
			}
		case it.heading != "":
			if !open {
				if foldContains(it.heading, start) {
					open = true
				}
				continue
			}
			if end == "" || foldContains(it.heading, end) {
				closed = true
			}
		}
		if closed {
			break
		}
	}

	if !open {
		return nil, perr.Extractf("section heading %q not found", start)
	}
	if end != "" && !closed {
		return nil, perr.Extractf("section end heading %q not found", end)
	}
	return out, nil
}

// docItem linearizes headings and tables in document order
type docItem struct {
	heading string
	table   *html.Node
}

func (d *Document) items() []docItem {
	var out []docItem
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h2":
				out = append(out, docItem{heading: textOf(n)})
				return
			case "table":
				out = append(out, docItem{table: n})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(d.root)
	return out
}

// buildTable flattens one table node
func buildTable(tbl *html.Node) Table {
	t := Table{Label: normalizeLabel(attr(tbl, "aria-label"))}

	thead := firstElement(tbl, "thead")
	var headerRow *html.Node

	if thead != nil {
		t.Headers = cellTexts(thead)
	} else {
		headerRow = firstElement(tbl, "tr")
		if headerRow != nil {
			t.Headers = cellTexts(headerRow)
		}
	}

	for _, tr := range elementsOf(tbl, thead, "tr") {
		if tr == headerRow {
			continue
		}
		cells := cellTexts(tr)
		if len(cells) == 0 {
			continue
		}
		// markdown renderers sometimes repeat the header mid table
		if thead == nil && equalCells(cells, t.Headers) {
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// cellTexts returns the text of every th and td beneath n in document order
func cellTexts(n *html.Node) []string {
	var out []string
	for _, cell := range elementsOf(n, nil, "th", "td") {
		out = append(out, textOf(cell))
	}
	return out
}

// elementsOf collects descendant elements matching any of names, skipping the skip subtree
func elementsOf(n *html.Node, skip *html.Node, names ...string) []*html.Node {
	var out []*html.Node
	var visit func(x *html.Node)
	visit = func(x *html.Node) {
		if x == skip {
			return
		}
		if x != n && x.Type == html.ElementNode {
			for _, name := range names {
				if x.Data == name {
					out = append(out, x)
					break
				}
			}
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return out
}

func firstElement(n *html.Node, name string) *html.Node {
	els := elementsOf(n, nil, name)
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

// textOf joins the stripped text nodes beneath n with single spaces
func textOf(n *html.Node) string {
	var parts []string
	var visit func(x *html.Node)
	visit = func(x *html.Node) {
		if x.Type == html.TextNode {
			if s := strings.TrimSpace(x.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(parts, " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.Fields(s), " ")
}

func foldContains(hay, needle string) bool {
	return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
}

func equalCells(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
