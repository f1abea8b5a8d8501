// Package target turns user-supplied URL-ish strings into canonical cache
// keys. Two inputs differing only by scheme, "www." prefix, path or a
// trailing slash map to the same key.
package target

import (
	"strings"
)

// Normalize derives the canonical key for a target. It never fails:
// arbitrary input produces a well-formed (if nonsensical) key and the
// analysis boundary remains responsible for rejecting invalid URLs.
// Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ToLower(s)

	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+len("://"):]
	}
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimSuffix(s, "/")
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}

	return s
}
