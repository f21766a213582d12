//go:build !swag

package swaggerkit

import "net/http"

// docReader returns a skeleton document so the UI still loads when the
// binary was built without generated docs
var docReader = func() string {
	return `{"openapi":"3.0.3","info":{"title":"ModelWatch API","version":"0.0.0"},"paths":{}}`
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docReader()))
	}
}
