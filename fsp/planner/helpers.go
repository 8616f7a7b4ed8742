package planner

import (
	"fmt"
	"regexp"
	"strings"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// quoteIdent validates a possibly qualified identifier and double-quotes
// each segment.
func quoteIdent(ident string) (string, error) {
	if !identRe.MatchString(ident) || strings.HasSuffix(ident, ".") || strings.Contains(ident, "..") {
		return "", fmt.Errorf("invalid identifier %q (must match %s)", ident, identRe.String())
	}
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = `"` + p + `"`
	}
	return strings.Join(parts, "."), nil
}

// escapeLike escapes %, _, and \ so the result can be used with "ESCAPE '\'"
// safely.
func escapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// containsPattern turns a substring into a LIKE pattern matching it anywhere.
func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// joinOr joins strings with " OR "
func joinOr(parts []string) string {
	return strings.Join(parts, " OR ")
}
