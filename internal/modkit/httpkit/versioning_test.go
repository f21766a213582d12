package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "modelwatch/internal/platform/net/http"
)

// captureRouter records Route and Use calls; everything else panics if touched
type captureRouter struct {
	Router
	prefixes []string
	useCalls int
	mwLen    int
	mounted  int
}

func (c *captureRouter) Route(prefix string, fn func(Router)) {
	c.prefixes = append(c.prefixes, prefix)
	fn(c)
}

func (c *captureRouter) Use(mw ...func(http.Handler) http.Handler) {
	c.useCalls++
	c.mwLen = len(mw)
}

func TestMountAPI_PrefixesRoutes(t *testing.T) {
	r := &captureRouter{}
	MountAPI(r, "v2", nil, func(Router) { r.mounted++ })

	if len(r.prefixes) != 1 || r.prefixes[0] != "/api/v2" {
		t.Fatalf("prefixes: got %v", r.prefixes)
	}
	if r.useCalls != 0 {
		t.Fatalf("Use should be skipped without middleware, called %d times", r.useCalls)
	}
	if r.mounted != 1 {
		t.Fatalf("mount closure ran %d times", r.mounted)
	}
}

func TestMountAPI_TrimsLeadingSlashOnVersion(t *testing.T) {
	r := &captureRouter{}
	mw := func(next http.Handler) http.Handler { return next }

	MountAPI(r, "/v3", []func(http.Handler) http.Handler{mw, mw}, func(Router) { r.mounted++ })

	if r.prefixes[0] != "/api/v3" {
		t.Fatalf("prefix: got %q", r.prefixes[0])
	}
	if r.useCalls != 1 || r.mwLen != 2 {
		t.Fatalf("expected one Use call with 2 middlewares, got calls=%d len=%d", r.useCalls, r.mwLen)
	}
}

func TestMountAPIV1_ServesUnderAPIV1(t *testing.T) {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)

	scoped := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Scope", "api")
			next.ServeHTTP(w, req)
		})
	}

	MountAPIV1(r, []func(http.Handler) http.Handler{scoped}, func(api Router) {
		Get(api, "/sources", func(*http.Request) (any, error) {
			return []string{"claude", "bedrock", "azure"}, nil
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/v1/sources")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", res.StatusCode)
	}
	if got := res.Header.Get("X-Scope"); got != "api" {
		t.Fatalf("scope middleware header: got %q", got)
	}

	var env Envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data, ok := env.Data.([]any)
	if !ok || len(data) != 3 || data[0] != "claude" {
		t.Fatalf("data: got %#v", env.Data)
	}

	// the unprefixed path must not exist
	res2, err := http.Get(srv.URL + "/sources")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = res2.Body.Close() }()
	if res2.StatusCode != http.StatusNotFound {
		t.Fatalf("unprefixed path: got %d", res2.StatusCode)
	}
}
