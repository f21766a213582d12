// Package rss encodes the assembled change feed as an RSS 2.0 document and
// parses previously written documents so entries carry forward across runs
package rss

import (
	"encoding/xml"
	"time"

	"modelwatch/internal/core/feed"
	perr "modelwatch/internal/platform/errors"
)

// Version is the only RSS dialect written or accepted
const Version = "2.0"

// pubDateLayout matches RFC 1123 with a numeric zone, the format feed readers
// expect for pubDate and lastBuildDate
const pubDateLayout = time.RFC1123Z

// Channel carries the feed-level metadata. Item content comes from the
// assembled entries
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
}

type document struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel docChannel `xml:"channel"`
}

type docChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []docItem `xml:"item"`
}

type docItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link,omitempty"`
	GUID        docGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
	Description string  `xml:"description"`
}

type docGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Marshal renders the channel and entries as a complete RSS document with an
// XML declaration. Entries are written in slice order, newest first;
// buildTime stamps lastBuildDate
func Marshal(ch Channel, entries []feed.Entry, buildTime time.Time) ([]byte, error) {
	doc := document{
		Version: Version,
		Channel: docChannel{
			Title:         ch.Title,
			Link:          ch.Link,
			Description:   ch.Description,
			Language:      ch.Language,
			LastBuildDate: buildTime.UTC().Format(pubDateLayout),
		},
	}
	for _, e := range entries {
		doc.Channel.Items = append(doc.Channel.Items, docItem{
			Title:       e.Title,
			Link:        e.Link,
			GUID:        docGUID{IsPermaLink: "false", Value: e.GUID},
			PubDate:     e.Published.UTC().Format(pubDateLayout),
			Description: e.Description,
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, perr.Internalf("rss: marshal: %v", err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// Parse extracts the entries from a previously written document, in document
// order. Publish times that cannot be parsed come back zero rather than
// failing the read; the GUID is what carry-forward keys on
func Parse(data []byte) ([]feed.Entry, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, perr.Extractf("rss: parse: %v", err)
	}

	out := make([]feed.Entry, 0, len(doc.Channel.Items))
	for _, it := range doc.Channel.Items {
		out = append(out, feed.Entry{
			Title:       it.Title,
			Link:        it.Link,
			GUID:        it.GUID.Value,
			Description: it.Description,
			Published:   parsePubDate(it.PubDate),
		})
	}
	return out, nil
}

func parsePubDate(s string) time.Time {
	for _, layout := range []string{pubDateLayout, time.RFC1123} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
