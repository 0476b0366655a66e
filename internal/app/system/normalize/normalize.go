// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls to ensure consistent behavior.
package normalize

import "strings"

// PodName normalizes a content type or taxonomy name by trimming
// whitespace and converting to lowercase. Pod names are idempotency
// keys, so they must compare consistently.
func PodName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Slug lowercases a string and collapses runs of non-alphanumerics to
// single hyphens, producing a URL-safe slug. Leading and trailing
// hyphens are dropped.
func Slug(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
