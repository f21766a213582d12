// Package http serves the operational endpoints: liveness, readiness with
// per-backend checks, and build info
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"modelwatch/internal/core/version"
	"modelwatch/internal/modkit/httpkit"
)

// Pinger matches the store adapters' health probes
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps carries what the probes inspect. PG and CH stay nil when the
// backend is not configured, readiness reports them as skipped then
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/healthz", h.healthz)
	httpkit.Get(r, "/readyz", h.readyz)
	httpkit.Get(r, "/version", h.version)
}

// HealthResponse is the liveness payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"modelwatch-api"`
	Started string `json:"started"  example:"2026-08-25T13:00:00Z"`
	Now     string `json:"now"      example:"2026-08-25T13:05:00Z"`
	Uptime  int64  `json:"uptime"   example:"300"`
}

// ReadyCheck is the outcome of probing one backend
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness across the backends
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-08-25T13:05:00Z"`
}

// swagger:route GET /healthz Meta metaHealthz
// @Summary Liveness check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /healthz [get]
func (h *handlers) healthz(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

// swagger:route GET /readyz Meta metaReadyz
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /readyz [get]
func (h *handlers) readyz(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := []ReadyCheck{
		h.probe(ctx, "pg", h.deps.PG),
		h.probe(ctx, "ch", h.deps.CH),
	}

	overall := "ok"
	for _, c := range checks {
		switch c.Status {
		case "fail":
			overall = "fail"
		case "unknown":
			if overall == "ok" {
				overall = "degraded"
			}
		}
	}

	return ReadyResponse{
		Status: overall,
		Checks: checks,
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// probe pings one backend. A nil dep is skipped rather than failing
// readiness, the API can serve snapshots without the change archive
func (h *handlers) probe(ctx stdctx.Context, name string, dep any) ReadyCheck {
	if dep == nil {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	p, ok := dep.(Pinger)
	if !ok {
		return ReadyCheck{Name: name, Status: "unknown"}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: "ok"}
}

// swagger:route GET /version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
