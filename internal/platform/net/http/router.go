// Package http wraps the chi router and server behind small platform
// types, so handlers, modules and tests compose against a surface this
// package owns and chi stays an implementation detail
package http

import "net/http"

// Handler is the platform handler type used everywhere
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the mounting surface modules see. The API only publishes
// read endpoints, so Get covers every JSON and artifact route; Handle
// exists for third-party handlers (swagger UI, pprof) that route their
// own methods internally
type Router interface {
	Get(path string, h Handler)
	Handle(path string, h http.Handler)

	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	// Mux exposes the composed handler for the server to serve
	Mux() http.Handler
}
