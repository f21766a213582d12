package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	perr "modelwatch/internal/platform/errors"
)

func newTestClient(o Options) *Client {
	c := NewClient(o)
	c.sleep = func(time.Duration) {} // no real waiting in tests
	return c
}

func TestPage_OK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "modelwatch-scrape" {
			t.Errorf("unexpected UA %q", ua)
		}
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	c := newTestClient(Options{})
	body, err := c.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if body != "<html><body>hello</body></html>" {
		t.Fatalf("body got %q", body)
	}
}

func TestPage_RetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := newTestClient(Options{MaxRetries: 5})
	body, err := c.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if body != "ok" {
		t.Fatalf("body got %q", body)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestPage_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(Options{MaxRetries: 2})
	_, err := c.Page(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected error after retries exhausted")
	}
	if perr.CodeOf(err) != perr.ErrorCodeTransport {
		t.Fatalf("expected transport code, got %v", perr.CodeOf(err))
	}
}

func TestPage_NotFoundIsTerminal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newTestClient(Options{MaxRetries: 5})
	_, err := c.Page(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Fatalf("404 should not be retried, got %d calls", calls.Load())
	}
}

func TestPage_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("unused"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(Options{})
	if _, err := c.Page(ctx, srv.URL); err == nil {
		t.Fatalf("expected error with canceled context")
	}
}

func TestPage_OversizedBodyIsTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 1024))
	}))
	defer srv.Close()

	// a page past the cap must fail loudly, a silently clipped body would
	// surface later as a baffling extraction failure
	c := newTestClient(Options{MaxBody: 16})
	_, err := c.Page(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected error for oversized body")
	}
	if perr.CodeOf(err) != perr.ErrorCodeTransport {
		t.Fatalf("expected transport code, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestPage_BodyAtCapSucceeds(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 16))
	}))
	defer srv.Close()

	c := newTestClient(Options{MaxBody: 16})
	body, err := c.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if len(body) != 16 {
		t.Fatalf("body length got %d want 16", len(body))
	}
}

func TestRetryAfter_Header(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Set("Retry-After", "7")
	if got := retryAfter(h); got != 7*time.Second {
		t.Fatalf("retryAfter got %v", got)
	}
	h.Set("Retry-After", "soon")
	if got := retryAfter(h); got != 0 {
		t.Fatalf("retryAfter non-numeric got %v", got)
	}
}
