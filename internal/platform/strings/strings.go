// Package strings carries the couple of string helpers the stdlib spells
// awkwardly. Import it as pstrings or str beside the standard package
package strings

import std "strings"

// IfEmpty returns def when in has no elements, otherwise in. Option
// structs use it to fall back to their documented defaults
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s unless it is blank, panicking with name so the
// missing requirement reads at the crash site
func MustString(s, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}
