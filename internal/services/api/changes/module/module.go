// Package module wires change history into the API using modkit
package module

import (
	modkit "modelwatch/internal/modkit"
	"modelwatch/internal/modkit/httpkit"
	str "modelwatch/internal/platform/strings"

	"modelwatch/internal/core/sources"
	changeshttp "modelwatch/internal/services/api/changes/http"
	changessvc "modelwatch/internal/services/api/changes/service"
	archdomain "modelwatch/internal/services/archive/domain"
)

// Ports declares the injected worker port(s) for this API module
type Ports struct {
	Reader archdomain.ReaderPort
}

// Module serves the /changes reads over the archived change events
type Module struct {
	deps modkit.Deps
	kit  modkit.Built
	svc  changessvc.Service
}

// New constructs the changes module. The archive reader port comes from
// the scrape worker; without it the endpoint has nothing to serve
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("changes")}, opts...)...)

	injected, _ := b.Ports.(Ports)
	if injected.Reader == nil {
		panic("changes API module requires the archive reader port (from services/scrape)")
	}

	reg, err := sources.Load()
	if err != nil {
		panic(err)
	}

	return &Module{
		deps: deps,
		kit:  b,
		svc:  changessvc.New(reg, injected.Reader),
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.kit.Mount(r, func(g httpkit.Router) {
		changeshttp.Register(g, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.kit.Name, "module name") }

// Ports exposes the read service for cross module lookups
func (m *Module) Ports() any { return m.svc }
