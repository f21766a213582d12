package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "modelwatch/internal/platform/net/http"
)

// tagMW appends its tag on invocation so tests can observe chain order
func tagMW(order *[]string, tag string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*order = append(*order, tag)
			next.ServeHTTP(w, r)
		})
	}
}

func TestWithName_LastApplicationWins(t *testing.T) {
	t.Parallel()

	var s settings
	WithName("records")(&s)
	WithName("records-ro")(&s)

	if s.name != "records-ro" {
		t.Fatalf("name = %q, want records-ro", s.name)
	}
}

func TestWithMiddlewares_AccumulatesInCallOrder(t *testing.T) {
	t.Parallel()

	var order []string
	var s settings
	WithMiddlewares(tagMW(&order, "audit"), tagMW(&order, "throttle"))(&s)
	WithMiddlewares(tagMW(&order, "cache"))(&s)

	if len(s.mw) != 3 {
		t.Fatalf("len(mw) = %d, want 3", len(s.mw))
	}

	// wrap innermost-last so the first configured middleware runs first
	var h http.Handler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for i := len(s.mw) - 1; i >= 0; i-- {
		h = s.mw[i](h)
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/records", nil))

	want := []string{"audit", "throttle", "cache"}
	if len(order) != len(want) {
		t.Fatalf("ran %d middlewares, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("position %d ran %q, want %q", i, order[i], want[i])
		}
	}
}

func TestWithPorts_KeepsTheConcreteType(t *testing.T) {
	t.Parallel()

	type snapshotPorts struct {
		Backend string
		Sources int
	}

	var s settings
	WithPorts(snapshotPorts{Backend: "pg", Sources: 3})(&s)

	p, ok := s.ports.(snapshotPorts)
	if !ok {
		t.Fatalf("ports = %T, want snapshotPorts", s.ports)
	}
	if p.Backend != "pg" || p.Sources != 3 {
		t.Fatalf("ports = %+v, want the injected values", p)
	}
}

func TestWithRegister_CapturesTheHook(t *testing.T) {
	t.Parallel()

	var s settings
	if s.register != nil {
		t.Fatal("zero settings should carry no register hook")
	}

	called := false
	WithRegister(func(phttp.Router) { called = true })(&s)
	if s.register == nil {
		t.Fatal("WithRegister left the hook unset")
	}

	s.register(nil)
	if !called {
		t.Fatal("stored hook is not the one passed in")
	}
}
