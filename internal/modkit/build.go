package modkit

import (
	"net/http"

	"modelwatch/internal/modkit/httpkit"
)

// Built is the resolved option set a module constructor reads its wiring
// from. Register is the caller's extras hook and stays nil when unset.
type Built struct {
	Name  string
	Mw    []func(http.Handler) http.Handler
	Ports any

	Register func(httpkit.Router)
}

// Build folds options into a Built. The middleware slice is copied so a
// caller holding the original cannot mutate a module after construction.
func Build(opts ...Option) Built {
	var s settings
	for _, o := range opts {
		o(&s)
	}
	return Built{
		Name:     s.name,
		Mw:       append([]func(http.Handler) http.Handler(nil), s.mw...),
		Ports:    s.ports,
		Register: s.register,
	}
}

// Mount is the shared MountRoutes body. The module's register runs first,
// then the caller's extras. A configured middleware stack is scoped through
// an inline group; chi rejects Use once sibling routes exist, and a group
// also keeps the stack off modules mounted later.
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	attach := func(g httpkit.Router) {
		if register != nil {
			register(g)
		}
		if b.Register != nil {
			b.Register(g)
		}
	}
	if len(b.Mw) == 0 {
		attach(r)
		return
	}
	r.Group(func(g httpkit.Router) {
		g.Use(b.Mw...)
		attach(g)
	})
}
