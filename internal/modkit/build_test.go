package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"modelwatch/internal/modkit/httpkit"
	phttp "modelwatch/internal/platform/net/http"
)

func okf(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func get(t *testing.T, mux http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestBuild_ZeroOptions(t *testing.T) {
	t.Parallel()

	b := Build()
	if b.Name != "" {
		t.Fatalf("Name = %q, want empty", b.Name)
	}
	if len(b.Mw) != 0 {
		t.Fatalf("Mw length = %d, want 0", len(b.Mw))
	}
	if b.Ports != nil {
		t.Fatalf("Ports = %v, want nil", b.Ports)
	}
	if b.Register != nil {
		t.Fatal("Register should stay nil when no extras were given")
	}
}

func TestBuild_DoesNotAliasTheCallerSlice(t *testing.T) {
	t.Parallel()

	var order []string
	shared := []func(http.Handler) http.Handler{tagMW(&order, "audit")}
	b := Build(WithMiddlewares(shared...))

	// swap the caller's element after Build; the module keeps what it saw
	shared[0] = tagMW(&order, "hijack")

	h := b.Mw[0](http.HandlerFunc(okf))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/records", nil))

	if len(order) != 1 || order[0] != "audit" {
		t.Fatalf("ran %v, want only the original middleware", order)
	}
}

func TestMount_ModuleRoutesThenCallerExtras(t *testing.T) {
	t.Parallel()

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)

	var order []string
	b := Build(WithRegister(func(g httpkit.Router) {
		order = append(order, "extras")
		g.Get("/changes/recent", okf)
	}))

	b.Mount(r, func(g httpkit.Router) {
		order = append(order, "module")
		g.Get("/changes", okf)
	})

	if len(order) != 2 || order[0] != "module" || order[1] != "extras" {
		t.Fatalf("registration order = %v, want module before extras", order)
	}
	for _, path := range []string{"/changes", "/changes/recent"} {
		if rec := get(t, mux, path); rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestMount_MiddlewareStaysInsideTheModule(t *testing.T) {
	t.Parallel()

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)

	mark := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Scoped", "1")
			next.ServeHTTP(w, req)
		})
	}

	// sibling mounted before the wrapped module
	Build().Mount(r, func(g httpkit.Router) { g.Get("/records", okf) })

	// without the inline group this Use would panic: /records already exists
	Build(WithMiddlewares(mark)).Mount(r, func(g httpkit.Router) { g.Get("/changes", okf) })

	// and a sibling mounted after must not inherit the stack either
	Build().Mount(r, func(g httpkit.Router) { g.Get("/healthz", okf) })

	if rec := get(t, mux, "/changes"); rec.Header().Get("X-Scoped") != "1" {
		t.Fatal("wrapped module did not run its middleware")
	}
	for _, path := range []string{"/records", "/healthz"} {
		if rec := get(t, mux, path); rec.Header().Get("X-Scoped") != "" {
			t.Fatalf("GET %s leaked the module middleware", path)
		}
	}
}

func TestMount_NilHooksMountPlainRoutes(t *testing.T) {
	t.Parallel()

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)

	// both the module register and the extras hook may be absent
	Build().Mount(r, nil)
	Build().Mount(r, func(g httpkit.Router) { g.Get("/version", okf) })

	if rec := get(t, mux, "/version"); rec.Code != http.StatusOK {
		t.Fatalf("GET /version = %d, want 200", rec.Code)
	}
}
