//go:build swag

package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"modelwatch/internal/platform/config"
	perr "modelwatch/internal/platform/errors"

	docs "modelwatch/internal/services/api/docs"
)

// SpecMutator lets modules adjust the parsed OpenAPI document before it is
// served, for example to stamp per-deploy metadata
type SpecMutator func(map[string]any)

// mutators is the in process registry for spec mutators
var mutators []SpecMutator

// docReader is a seam so tests can feed invalid JSON without regenerating docs
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds a spec mutator for the served document
// call this from module init so it is wired automatically
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// serveDocJSON serves the generated document with the shared error envelope
// folded in so every operation documents its failure shape
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		// OAS3 base url lives in servers, not BasePath
		ensureServers(spec, "/api/v1")

		cfg := config.New().Prefix("MODELWATCH_API_")
		if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		ensureErrorEnvelope(spec)
		injectDefaultResponse(spec, "500", errorResponse(500, perr.ErrorCodePanic, "panic recovered"))
		injectDefaultResponse(spec, "400", errorResponse(400, perr.ErrorCodeValidation, "source is required"))

		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// nested returns m[key] as an object, creating it when absent or of the
// wrong shape
func nested(m map[string]any, key string) map[string]any {
	if sub, ok := m[key].(map[string]any); ok {
		return sub
	}
	sub := map[string]any{}
	m[key] = sub
	return sub
}

// ensureServers normalizes the document to OAS 3.0.3 and guarantees a
// servers entry. swagger-ui cannot render 3.1 yet, and swag still emits
// swagger 2, so both get lifted here
func ensureServers(spec map[string]any, url string) {
	if _, wasV2 := spec["swagger"]; wasV2 {
		delete(spec, "swagger")
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") || v == "" {
		spec["openapi"] = "3.0.3"
	}

	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{
			map[string]any{"url": url},
		}
	}
}

// ensureErrorEnvelope declares the envelope schema once when the generated
// document does not already carry it. Field set mirrors the runtime wire
func ensureErrorEnvelope(spec map[string]any) {
	schemas := nested(nested(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}

	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// errorResponse builds an OAS3 response around the envelope schema, with
// an example shaped like the runtime body for that status
func errorResponse(status int, code perr.ErrorCode, msg string) map[string]any {
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        int(code),
					"error":       msg,
					"request_id":  "mw-api/KyTMvnqG25-000042",
				},
			},
		},
	}
}

// injectDefaultResponse walks every operation and fills in status when the
// handler annotation did not declare it
func injectDefaultResponse(spec map[string]any, status string, resp map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses := nested(op, "responses")
			if _, exists := responses[status]; !exists {
				responses[status] = resp
			}
		}
	}
}
