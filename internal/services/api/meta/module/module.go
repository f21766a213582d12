// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "modelwatch/internal/modkit"
	"modelwatch/internal/modkit/httpkit"
	str "modelwatch/internal/platform/strings"

	metahttp "modelwatch/internal/services/api/meta/http"
)

// Module serves /healthz, /readyz and /version
type Module struct {
	deps      modkit.Deps
	kit       modkit.Built
	startedAt time.Time
}

// New constructs the meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
	}, opts...)...)

	return &Module{
		deps:      deps,
		kit:       b,
		startedAt: time.Now(),
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.kit.Mount(r, func(g httpkit.Router) {
		metahttp.Register(g, metahttp.Deps{
			ServiceName: "modelwatch-api",
			StartedAt:   m.startedAt,
			PG:          m.deps.PG,
			CH:          m.deps.CH,
		})
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.kit.Name, "meta") }

// Ports returns nil, meta exports nothing for other modules
func (m *Module) Ports() any { return nil }
