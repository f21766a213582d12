// Package http provides http transport for change history
package http

import (
	stdhttp "net/http"

	"modelwatch/internal/modkit/httpkit"
	"modelwatch/internal/platform/net/http/bind"
	"modelwatch/internal/services/api/changes/domain"
	svc "modelwatch/internal/services/api/changes/service"
)

// Register mounts changes endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// archived change history per source
	httpkit.Get(r, "/changes", h.changes)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /changes Changes listChanges
// @Summary Recent change events for one source
// @Tags Changes
// @Produce json
// @Param source query string true "Source name" example(claude)
// @Param limit query int false "Max rows, defaults to 50" example(50)
// @Success 200 type domain.ChangesResponse "ok"
// @Failure 404 "unknown source"
// @Failure 503 "change archive not configured"
// @Router /changes [get]
func (h *handlers) changes(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseQuery[domain.ChangesInput](r)
	if err != nil {
		return nil, err
	}
	return h.svc.Recent(r.Context(), in)
}
