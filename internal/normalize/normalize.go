package normalize

import "strings"

// Username returns the canonical form of a username used for storage and
// comparisons: surrounding whitespace trimmed and lower-cased.
func Username(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}
