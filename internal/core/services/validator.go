package services

import (
	"strings"
	"unicode/utf8"
)

const (
	minQueryLength = 3
	maxQueryLength = 100
)

// queryDenylist holds substrings associated with injection and script
// attempts. Advisory defense in depth: the query is only ever forwarded as an
// opaque search string, never interpolated into anything structured.
var queryDenylist = []string{
	"<", ">", "'", "\"", "`", ";",
	"--", "/*", "*/",
	"script",
	"select ", "union ", "drop ",
	" or ", " and ",
}

// ValidQuery reports whether raw may reach the cache and the upstream call.
// It must run before any quota is consumed so garbage input never burns a
// client's budget.
func ValidQuery(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	if length := utf8.RuneCountInString(trimmed); length < minQueryLength || length > maxQueryLength {
		return false
	}

	lowered := strings.ToLower(trimmed)
	for _, token := range queryDenylist {
		if strings.Contains(lowered, token) {
			return false
		}
	}
	return true
}

// NormalizeQuery produces the canonical cache and throttle key for a query:
// lowercased and trimmed, so case and surrounding whitespace variants share
// one entry. Idempotent.
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
