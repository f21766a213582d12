package modkit

import (
	"net/http"

	phttp "modelwatch/internal/platform/net/http"
)

// Option tweaks how a module is assembled. Modules pass their own defaults
// first and the caller's options after, so the composition root wins.
type Option func(*settings)

type settings struct {
	name     string
	mw       []func(http.Handler) http.Handler
	ports    any
	register func(phttp.Router)
}

// WithName overrides the name a module registers its ports under
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithMiddlewares wraps just this module's routes, in the order given.
// The stack is applied inside a router group so it never leaks onto
// sibling modules mounted on the same router
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(s *settings) { s.mw = append(s.mw, mw...) }
}

// WithPorts hands a module the ports another module exported. The concrete
// type is owned by the receiving module, which asserts it back out of Built
// and panics at wiring time when the composition root passed the wrong one
func WithPorts[T any](p T) Option {
	return func(s *settings) { s.ports = p }
}

// WithRegister appends caller endpoints after the module's own
func WithRegister(fn func(phttp.Router)) Option {
	return func(s *settings) { s.register = fn }
}
