// Package artifacts serves the published feed and CSV exports as raw files.
// These mount at the root, outside the JSON envelope: feed readers and
// spreadsheet imports want the bytes the scrape run wrote, not an API shape
package artifacts

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"modelwatch/internal/core/sources"
	perr "modelwatch/internal/platform/errors"
	phttp "modelwatch/internal/platform/net/http"
)

// Options configure the artifact routes
type Options struct {
	// Dir is the scrape output directory holding feed.xml and per-source CSVs
	Dir string

	// FeedFile overrides the feed filename, default feed.xml
	FeedFile string

	// Registry validates export source names
	Registry *sources.Registry
}

// Mount registers the artifact routes on the root router
func Mount(r phttp.Router, opts Options) {
	if opts.Registry == nil {
		panic("artifacts.Mount requires a non nil Registry")
	}
	if opts.FeedFile == "" {
		opts.FeedFile = "feed.xml"
	}
	h := &handlers{opts: opts}

	r.Get("/feed.xml", h.feed)
	r.Get("/export.csv", h.export)
}

type handlers struct {
	opts Options
}

// swagger:route GET /feed.xml Artifacts feedXML
// @Summary Published RSS feed
// @Tags Artifacts
// @Produce application/rss+xml
// @Success 200 "rss document"
// @Failure 404 "feed not published yet"
// @Router /feed.xml [get]
func (h *handlers) feed(w http.ResponseWriter, r *http.Request) {
	b, err := os.ReadFile(filepath.Join(h.opts.Dir, h.opts.FeedFile))
	if err != nil {
		phttp.RespondError(w, r, perr.NotFoundf("feed not published yet"))
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// swagger:route GET /export.csv Artifacts exportCSV
// @Summary Published CSV export for one source
// @Tags Artifacts
// @Produce text/csv
// @Param source query string true "Source name" example(claude)
// @Success 200 "csv document"
// @Failure 404 "unknown source or export not published yet"
// @Router /export.csv [get]
func (h *handlers) export(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("source")))
	if name == "" {
		phttp.RespondError(w, r, perr.Newf(perr.ErrorCodeValidation, "source is required"))
		return
	}
	src, ok := h.opts.Registry.Get(name)
	if !ok {
		phttp.RespondError(w, r, perr.NotFoundf("unknown source %q", name))
		return
	}

	b, err := os.ReadFile(filepath.Join(h.opts.Dir, src.Name+".csv"))
	if err != nil {
		phttp.RespondError(w, r, perr.NotFoundf("no export published for %q", src.Name))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+src.Name+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
