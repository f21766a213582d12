package http

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler hangs chi's pprof mux under prefix, "/debug" normally.
// Disabled it mounts nothing at all, so the routes do not exist rather
// than answer 403
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}

	// the profiler mux routes relative paths, strip the mount prefix first
	h := http.StripPrefix(prefix, chimw.Profiler())
	r.Handle(prefix, h)
	r.Handle(prefix+"/*", h)
}
