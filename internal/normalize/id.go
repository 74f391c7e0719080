package normalize

import "strings"

// CoerceID normalizes an identifier to opaque text. Join keys are compared as
// strings to avoid precision and locale mismatches between integer and string
// renderings of the same id; a trailing ".0" left by a float round-trip is
// stripped so "4711.0" and "4711" compare equal.
func CoerceID(raw string) string {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutSuffix(s, ".0"); ok && rest != "" && allDigits(rest) {
		return rest
	}
	return s
}
