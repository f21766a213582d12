// Package module carries the module contract plus the port registry the
// binaries wire cross-module reads through. It mirrors modkit.Module as a
// sibling interface so a module package can satisfy it without importing
// the kit that builds it.
package module

import (
	phttp "modelwatch/internal/platform/net/http"
)

// Module is the mountable unit the composition roots work with
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
