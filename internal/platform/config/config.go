// Package config reads environment variables through namespaced views.
// The surface is default-driven: both binaries come up with nothing set,
// so lookups carry their fallback (the May family). Hard requirements are
// stated at wiring time through Require
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"modelwatch/internal/platform/logger"
)

// Conf scopes lookups under a variable prefix, "MODELWATCH_PGSQL_" for
// example. Scopes nest via Prefix
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view with p appended to the namespace
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key is the fully qualified variable name, for lookups and log lines
func (c Conf) key(k string) string { return c.prefix + k }

// get returns the trimmed value, "" when unset
func (c Conf) get(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// Require panics unless every key has a non-empty value, reporting all
// missing ones at once. Callers use it to turn soft lookups hard, like the
// pg snapshot backend needing its DSN
func (c Conf) Require(keys ...string) {
	var missing []string
	for _, k := range keys {
		if c.get(k) == "" {
			missing = append(missing, c.key(k))
		}
	}
	if len(missing) > 0 {
		logger.Get().Panic().Strs("keys", missing).Msg("required env not set")
	}
}

// MayString returns the value, or def when unset
func (c Conf) MayString(key, def string) string {
	if v := c.get(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the parsed value. Unset falls back to def silently,
// unparsable falls back with a warning
func (c Conf) MayInt(key string, def int) int {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("ignoring unparsable int")
		return def
	}
	return v
}

// MayBool returns the parsed value. Unset falls back to def silently,
// unparsable falls back with a warning
func (c Conf) MayBool(key string, def bool) bool {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Bool("default", def).Msg("ignoring unparsable bool")
		return def
	}
	return v
}

// MayDuration returns the parsed value ("250ms", "2s", "1h"). Unset falls
// back to def silently, unparsable falls back with a warning
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.get(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Dur("default", def).
			Msg("ignoring unparsable duration")
		return def
	}
	return d
}

// MayCSV splits a comma separated value into trimmed non-empty parts.
// Unset, or a value that trims down to nothing, falls back to def
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.get(key)
	if s == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns def when unset and panics when the value is not in
// allowed. Matching ignores case; the value comes back as given
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	if v == "" {
		return v
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).
		Strs("allowed", allowed).Msg("value not in allowed set")
	return "" // unreachable
}

// MayPort returns a listen address like ":4000". Bare port numbers gain a
// leading colon and host:port forms pass through. The port must be numeric
// and at most 65535, 0 meaning OS-assigned; anything else panics. The
// default runs through the same validation when the key is unset
func (c Conf) MayPort(key, def string) string {
	s := c.MayString(key, def)
	host, port := "", s
	if i := strings.LastIndex(s, ":"); i >= 0 {
		host, port = s[:i], s[i+1:]
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid listen port; expected 0..65535")
	}
	return host + ":" + port
}
