package httpkit

import (
	"net/http"
	"strings"
)

// MountAPI scopes a subrouter under /api/{version}, applies mw to that
// scope only, and hands the scoped router to mount for route registration.
// The api composition root uses it once; everything inside shares the
// common middleware stack
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.TrimPrefix(version, "/"), func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 mounts under /api/v1, the only version this service publishes
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
