package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize strips the bytes that must never reach storage or the feed:
// NUL and the other C0 controls (keeping \n \r \t), DEL, the C1 range
// U+0080..U+009F, and bytes that do not decode as UTF-8. Returns the
// input unchanged when it is already clean
func Sanitize(s string) string {
	var out *strings.Builder

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		keep := true
		switch {
		case r == utf8.RuneError && size == 1:
			keep = false
		case r < 0x20:
			keep = r == '\n' || r == '\r' || r == '\t'
		case r == 0x7F:
			keep = false
		case r >= 0x80 && r <= 0x9F:
			keep = false
		}

		// first dropped rune switches to the copying path
		if !keep && out == nil {
			out = &strings.Builder{}
			out.Grow(len(s))
			out.WriteString(s[:i])
		}
		if keep && out != nil {
			out.WriteString(s[i : i+size])
		}
		i += size
	}

	if out == nil {
		return s
	}
	return out.String()
}
