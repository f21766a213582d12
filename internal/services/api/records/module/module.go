// Package module wires records into the API using modkit
package module

import (
	modkit "modelwatch/internal/modkit"
	"modelwatch/internal/modkit/httpkit"
	str "modelwatch/internal/platform/strings"

	"modelwatch/internal/core/sources"
	recordshttp "modelwatch/internal/services/api/records/http"
	recordssvc "modelwatch/internal/services/api/records/service"
	snapdomain "modelwatch/internal/services/snapshot/domain"
)

// Ports declares the injected worker port(s) for this API module
type Ports struct {
	Store snapdomain.Store
}

// Module serves the /sources and /records reads
type Module struct {
	deps modkit.Deps
	kit  modkit.Built
	svc  recordssvc.Service
}

// New constructs the records module. The snapshot store port is injected
// by the composition root from the scrape worker; refusing to start
// without it beats serving an endpoint that can never answer
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("records")}, opts...)...)

	injected, _ := b.Ports.(Ports)
	if injected.Store == nil {
		panic("records API module requires the snapshot store port (from services/scrape)")
	}

	reg, err := sources.Load()
	if err != nil {
		panic(err)
	}

	return &Module{
		deps: deps,
		kit:  b,
		svc:  recordssvc.New(reg, injected.Store),
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.kit.Mount(r, func(g httpkit.Router) {
		recordshttp.Register(g, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.kit.Name, "module name") }

// Ports exposes the read service for cross module lookups
func (m *Module) Ports() any { return m.svc }
