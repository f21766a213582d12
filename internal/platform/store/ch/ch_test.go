package ch

import (
	"context"
	"testing"
)

// TestOpen_BadDSN surfaces a parse error before dialing
func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cl, err := Open(ctx, Config{URL: "://not-a-dsn"})
	if err == nil {
		t.Fatalf("Open expected error for bad DSN")
	}
	if cl != nil {
		t.Fatalf("Open returned non nil client on error")
	}
}

// TestBuildClientInfo stamps name, role, and build metadata
func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo("modelwatch", "scrape")
	if len(ci.Products) != 4 {
		t.Fatalf("expected 4 products, got %d", len(ci.Products))
	}
	if ci.Products[0].Name != "modelwatch" || ci.Products[0].Version != "scrape" {
		t.Fatalf("first product mismatch: %+v", ci.Products[0])
	}

	names := map[string]bool{}
	for _, p := range ci.Products {
		names[p.Name] = true
		if p.Version == "" {
			t.Fatalf("product %q has empty version", p.Name)
		}
	}
	for _, want := range []string{"go", "commit", "host"} {
		if !names[want] {
			t.Fatalf("missing product %q", want)
		}
	}
}

func TestSafe_Trims(t *testing.T) {
	t.Parallel()

	if got := safe("  api \n"); got != "api" {
		t.Fatalf("safe got %q want %q", got, "api")
	}
}
