package testkit

import (
	"sync"
	"testing"
)

// one lock for every test that touches a package-level seam; Swap itself
// does not lock so callers opt in with Serial
var serialMu sync.Mutex

// Swap replaces a package-level seam variable for the duration of the test.
// The original value is restored via t.Cleanup, so swaps nest correctly
// across subtests
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	saved := *target
	*target = replacement
	t.Cleanup(func() { *target = saved })
}

// Serial holds the global seam lock until the test ends. Tests that Swap a
// shared seam call this first so parallel siblings cannot observe each
// other's replacement
func Serial(t *testing.T) {
	t.Helper()
	serialMu.Lock()
	t.Cleanup(serialMu.Unlock)
}
