// Package swaggerkit mounts the Swagger UI and the OpenAPI JSON document
package swaggerkit

import (
	"net/http"

	phttp "modelwatch/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// docsBase is where the UI and document live, outside the versioned API tree
const docsBase = "/api/docs"

// Mount wires the Swagger UI and JSON document when docs are enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(docsBase, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, docsBase+"/", http.StatusPermanentRedirect)
	})
	r.Get(docsBase+"/doc.json", serveDocJSON())
	r.Handle(docsBase+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName("modelwatch"),
		httpSwagger.URL(docsBase+"/doc.json"),
	))
}
