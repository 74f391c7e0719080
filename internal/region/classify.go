package region

import (
	"regexp"
	"strings"
)

// Full UK postcode, e.g. "SW1A 1AA" or "M1 1AA". Group 1 is the outward code.
var postcodeRE = regexp.MustCompile(`\b([A-Z]{1,2}[0-9][0-9A-Z]?)\s*[0-9][A-Z]{2}\b`)

// Classify maps a free-text location string to a Region. The input may hold
// several delimited addresses; the first fragment that classifies wins, and
// anything unrecognized yields Unknown. Pure function over the table.
func (t *Table) Classify(raw string) Region {
	for _, frag := range SplitFragments(raw) {
		if r := t.classifyFragment(frag); r != Unknown {
			return r
		}
	}
	return Unknown
}

// SplitFragments splits a multi-address location string on the pipe and
// semicolon delimiters, trimming whitespace and dropping empty fragments.
func SplitFragments(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (t *Table) classifyFragment(frag string) Region {
	lower := strings.ToLower(frag)

	// "State, City, Country" exports: the second part is the city.
	if strings.Contains(frag, ",") {
		parts := strings.Split(frag, ",")
		if len(parts) >= 2 {
			city := strings.ToLower(strings.TrimSpace(parts[1]))
			if city != "" {
				if r, ok := t.cities[city]; ok {
					return r
				}
			}
		}
	}

	if area := extractPostcodeArea(frag); area != "" {
		if r, ok := t.lookupPostcode(area); ok {
			return r
		}
	}

	for _, entry := range t.places {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.region
			}
		}
	}
	return Unknown
}

// extractPostcodeArea pulls the full outward code from a fragment containing
// a UK postcode, e.g. "SW1A" from "SW1A 1AA". Prefix shortening happens in
// the lookup.
func extractPostcodeArea(frag string) string {
	m := postcodeRE.FindStringSubmatch(strings.ToUpper(frag))
	if m == nil {
		return ""
	}
	return m[1]
}

// lookupPostcode resolves an outward code against the prefix table,
// longest-prefix-wins: "SW1A" tries "SW1A", then "SW1", "SW", "S".
func (t *Table) lookupPostcode(area string) (Region, bool) {
	for p := area; p != ""; p = p[:len(p)-1] {
		if r, ok := t.postcodes[p]; ok {
			return r, true
		}
	}
	return Unknown, false
}
