package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMulti(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "Featured", []string{"Featured"}},
		{"two tags", "Featured | Highlighted", []string{"Featured", "Highlighted"}},
		{"no spaces", "a|b|c", []string{"a", "b", "c"}},
		{"empty tokens dropped", "a | | b", []string{"a", "b"}},
		{"order preserved", "z | a | m", []string{"z", "a", "m"}},
		{"duplicates kept", "Featured | Featured", []string{"Featured", "Featured"}},
		{"empty", "", nil},
		{"only delimiters", " | | ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMulti(tt.in))
		})
	}
}

func TestCoerceID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "12345", "12345"},
		{"whitespace", " 12345 ", "12345"},
		{"float round trip", "12345.0", "12345"},
		{"non-numeric suffix kept", "abc.0", "abc.0"},
		{"decimal fraction kept", "123.5", "123.5"},
		{"bare suffix", ".0", ".0"},
		{"alpha id", "J-42", "J-42"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceID(tt.in))
		})
	}
}

func TestMapColumnsAndCol(t *testing.T) {
	header := []string{"Entity_ID", " EVENT_NAME ", "event_date"}
	colIdx := MapColumns(header)

	row := []string{"J1", "job_visit", "20240101"}
	assert.Equal(t, "J1", Col(row, colIdx, "entity_id"))
	assert.Equal(t, "job_visit", Col(row, colIdx, "Event_Name"))
	assert.Equal(t, "", Col(row, colIdx, "missing_column"))

	// Short rows read absent cells as empty.
	assert.Equal(t, "", Col([]string{"J1"}, colIdx, "event_date"))
}

func TestFirstCol(t *testing.T) {
	colIdx := MapColumns([]string{"start_date", "publishing_date"})
	row := []string{"", "20240101"}
	assert.Equal(t, "20240101", FirstCol(row, colIdx, "publishing_date", "start_date"))
	assert.Equal(t, "20240101", FirstCol(row, colIdx, "start_date", "publishing_date"))
	assert.Equal(t, "", FirstCol(row, colIdx, "missing"))
}
