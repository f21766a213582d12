package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "modelwatch/internal/platform/errors"
	pnet "modelwatch/internal/platform/net"
	phttp "modelwatch/internal/platform/net/http"
)

// newReq builds a request carrying a request id in its context
func newReq(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decodeEnvelope(t *testing.T, body []byte) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return env
}

func TestJSON_WritesStatusAndContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusOK, map[string]string{"model": "claude-2.0"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type: got %q", ct)
	}
	if got := rec.Body.String(); got == "" {
		t.Fatal("expected a body")
	}
}

func TestHandle_OK_WrapsDataWithRequestID(t *testing.T) {
	h := phttp.Handle(func(_ *http.Request) phttp.Response {
		return phttp.OK(map[string]string{
			"model":      "claude-2.0",
			"retirement": "2025-07-21",
		})
	})

	rec := httptest.NewRecorder()
	h(rec, newReq("GET", "/records", "mw-api/a1b2c3-000007"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.StatusCode != 200 || env.Status != "OK" {
		t.Fatalf("bad envelope head: %+v", env)
	}
	if env.RequestID != "mw-api/a1b2c3-000007" {
		t.Fatalf("request id: got %q", env.RequestID)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["model"] != "claude-2.0" {
		t.Fatalf("data: got %#v", env.Data)
	}
}

func TestHandle_ZeroStatus_DefaultsToOK(t *testing.T) {
	h := phttp.Handle(func(_ *http.Request) phttp.Response {
		return phttp.Response{Body: "sources"}
	})

	rec := httptest.NewRecorder()
	h(rec, newReq("GET", "/sources", "rid-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected default 200, got %d", rec.Code)
	}
}

func TestHandle_Error_MapsCodeAndStatus(t *testing.T) {
	h := phttp.Handle(func(_ *http.Request) phttp.Response {
		return phttp.Error(perr.Newf(perr.ErrorCodeNotFound, "unknown source %q", "openai"))
	})

	rec := httptest.NewRecorder()
	h(rec, newReq("GET", "/records", "rid-2"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("wire code: got %d", env.Code)
	}
	if env.Error != `unknown source "openai"` {
		t.Fatalf("error message: got %q", env.Error)
	}
	if env.RequestID != "rid-2" {
		t.Fatalf("request id: got %q", env.RequestID)
	}
	if env.Data != nil {
		t.Fatalf("error envelope should carry no data, got %#v", env.Data)
	}
}

func TestHandle_GenericError_Maps500(t *testing.T) {
	h := phttp.Handle(func(_ *http.Request) phttp.Response {
		return phttp.Error(errors.New("boom"))
	})

	rec := httptest.NewRecorder()
	h(rec, newReq("GET", "/records", "rid-3"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a plain error, got %d", rec.Code)
	}
}

func TestHandle_NoContentStatus_EmptyBody(t *testing.T) {
	h := phttp.Handle(func(_ *http.Request) phttp.Response {
		return phttp.Response{Status: http.StatusNoContent}
	})

	rec := httptest.NewRecorder()
	h(rec, newReq("GET", "/noop", "rid-4"))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("204 must not carry a body, got %q", rec.Body.String())
	}
}

func TestHandle_HeaderOverride(t *testing.T) {
	h := phttp.Handle(func(_ *http.Request) phttp.Response {
		resp := phttp.OK("feed")
		resp.Header = http.Header{}
		resp.Header.Set("Cache-Control", "max-age=300")
		return resp
	})

	rec := httptest.NewRecorder()
	h(rec, newReq("GET", "/feed", "rid-5"))

	if got := rec.Header().Get("Cache-Control"); got != "max-age=300" {
		t.Fatalf("header override: got %q", got)
	}
}

func TestList_ItemsAndPageShape(t *testing.T) {
	h := phttp.Handle(func(_ *http.Request) phttp.Response {
		return phttp.List([]string{"claude-2.0", "claude-2.1"}, 12, 1, 2, "c2")
	})

	rec := httptest.NewRecorder()
	h(rec, newReq("GET", "/records", "rid-6"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())

	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data: got %T", env.Data)
	}
	items, ok := data["items"].([]any)
	if !ok || len(items) != 2 || items[0] != "claude-2.0" {
		t.Fatalf("items: got %#v", data["items"])
	}

	page, ok := data["page"].(map[string]any)
	if !ok {
		t.Fatalf("page: got %#v", data["page"])
	}
	// json numbers decode to float64
	if total, _ := page["total"].(float64); int(total) != 12 {
		t.Fatalf("page.total: got %#v", page["total"])
	}
	if size, _ := page["page_size"].(float64); int(size) != 2 {
		t.Fatalf("page.page_size: got %#v", page["page_size"])
	}
	if cursor, _ := page["cursor"].(string); cursor != "c2" {
		t.Fatalf("page.cursor: got %#v", page["cursor"])
	}
}

func TestRespondError_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := newReq("GET", "/feed.xml", "mw-api/a1b2c3-000042")

	phttp.RespondError(rec, req, perr.NotFoundf("feed not published yet"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.Status != "Not Found" || env.Error != "feed not published yet" {
		t.Fatalf("bad envelope: %+v", env)
	}
	if env.RequestID != "mw-api/a1b2c3-000042" {
		t.Fatalf("request id: got %q", env.RequestID)
	}
}
