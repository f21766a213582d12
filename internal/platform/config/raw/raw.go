// Package raw is the bootstrap env reader the logger configures itself
// from. It must not import the logger, so bad values fall back silently
// instead of warning
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf scopes lookups under a variable prefix, "LOG_" for example
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view with p appended to the namespace
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) get(k string) string { return strings.TrimSpace(os.Getenv(c.prefix + k)) }

// Get returns the trimmed value, or def when unset
func (c Conf) Get(key, def string) string {
	if v := c.get(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1, true or yes in any case; other values read as false.
// Unset falls back to def
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(c.get(key)) {
	case "":
		return def
	case "1", "true", "yes":
		return true
	}
	return false
}

// GetInt parses a non-negative integer; unset or unparsable falls back to def
func (c Conf) GetInt(key string, def int) int {
	s := c.get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
