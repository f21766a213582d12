// Package http provides http transport for records
package http

import (
	stdhttp "net/http"

	"modelwatch/internal/modkit/httpkit"
	"modelwatch/internal/platform/net/http/bind"
	"modelwatch/internal/services/api/records/domain"
	svc "modelwatch/internal/services/api/records/service"
)

// Register mounts records endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// registry listing
	httpkit.Get(r, "/sources", h.sources)

	// current snapshot records per source
	httpkit.Get(r, "/records", h.records)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /sources Records listSources
// @Summary Tracked sources
// @Tags Records
// @Produce json
// @Success 200 {array} domain.SourceInfo "ok"
// @Router /sources [get]
func (h *handlers) sources(r *stdhttp.Request) (any, error) {
	return h.svc.Sources(r.Context())
}

// swagger:route GET /records Records listRecords
// @Summary Current records for one source
// @Tags Records
// @Produce json
// @Param source query string true "Source name" example(claude)
// @Success 200 type domain.RecordsResponse "ok"
// @Failure 404 "unknown source"
// @Router /records [get]
func (h *handlers) records(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseQuery[domain.RecordsInput](r)
	if err != nil {
		return nil, err
	}
	return h.svc.List(r.Context(), in)
}
