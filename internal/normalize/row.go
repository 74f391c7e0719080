package normalize

import "strings"

// MapColumns builds a lowercased column name -> index map from a header row.
// Source schemas are externally owned and may gain, lose, or re-case columns;
// all field access goes through this map so a missing column reads as null.
func MapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// Col returns the named column's value, or "" when the column is absent from
// the schema or the row is short.
func Col(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[strings.ToLower(name)]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// FirstCol returns the first non-empty value among the named columns. Used
// where exports disagree on a column's name ("publishing_date" vs
// "start_date").
func FirstCol(record []string, colIdx map[string]int, names ...string) string {
	for _, name := range names {
		if v := Col(record, colIdx, name); v != "" {
			return v
		}
	}
	return ""
}
