package normalize

import "strings"

// MultiDelimiter separates values in multi-valued export fields,
// e.g. "Featured | Highlighted".
const MultiDelimiter = "|"

// SplitMulti splits a delimited multi-valued field into ordered tags:
// tokens are trimmed, empties dropped, order preserved. Tags are NOT
// deduplicated; upstream may legitimately repeat one.
func SplitMulti(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, MultiDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
