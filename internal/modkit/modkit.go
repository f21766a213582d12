// Package modkit assembles service modules for the two binaries. A module
// owns its routes and exports its ports (the interfaces other modules may
// consume) behind one constructor, so the API server and the scrape worker
// can compose the same pieces in different shapes: the worker builds the
// scrape module alone, the API mounts the read modules around it.
package modkit

import (
	phttp "modelwatch/internal/platform/net/http"
)

// Module is the surface the composition roots drive. The scrape worker
// implements it without routes; the read API modules implement all three.
type Module interface {
	// MountRoutes attaches the module's endpoints to the shared router
	MountRoutes(r phttp.Router)

	// Ports exposes the cross wiring surface, nil when the module has none
	Ports() any

	// Name identifies the module in logs and the port registry
	Name() string
}
