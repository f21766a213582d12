package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// chain applies the stack outermost first
func chain(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

func TestCommonStack_RequestFlowsThrough(t *testing.T) {
	hits := 0
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if rid := chimw.GetReqID(r.Context()); rid == "" {
			t.Error("expected a request id on the context")
		}
		w.WriteHeader(http.StatusOK)
	})

	root := chain(final, CommonStack())

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/records", nil))

	if hits != 1 {
		t.Fatalf("final handler ran %d times", hits)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatal("expected NoCache headers on API responses")
	}
}

func TestCommonStack_HeartbeatAnswersHealth(t *testing.T) {
	root := chain(http.NotFoundHandler(), CommonStack())

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("/health: got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCommonStack_CORSOriginsFromEnv(t *testing.T) {
	t.Setenv("MODELWATCH_API_CORS_ORIGINS", "https://dash.modelwatch.dev")
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	root := chain(ok, CommonStack())

	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	req.Header.Set("Origin", "https://dash.modelwatch.dev")
	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.modelwatch.dev" {
		t.Fatalf("allowed origin header got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/records", nil)
	req.Header.Set("Origin", "https://elsewhere.dev")
	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("disallowed origin should get no CORS header, got %q", got)
	}
}

func TestCommonStack_RecoversPanics(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("registry corrupted")
	})
	root := chain(boom, CommonStack())

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/records", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected a mapped 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("panic body should be JSON, got %q", ct)
	}
}
