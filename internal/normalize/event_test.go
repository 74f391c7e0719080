package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
)

var eventHeader = []string{
	"entity_id", "event_name", "event_date", "organization_name",
	"region_raw", "upgrades", "importer_id",
}

func TestEvents(t *testing.T) {
	records := [][]string{
		{"101", "job_visit", "20240301", "Acme Ltd", "Leeds LS1 4AP", "Featured | Highlighted", "3"},
		{"101.0", "job_apply_start", "2024-03-02T10:00:00Z", "Acme Ltd", "", "", "3"},
		{"202", "job_visit", "not-a-date", "Beta Co", "", "Featured", "7.0"},
	}

	events, stats := Events(eventHeader, records)
	require.Len(t, events, 3)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 1, stats.MalformedDates)

	assert.Equal(t, "101", events[0].EntityID)
	assert.Equal(t, model.EventVisit, events[0].Name)
	assert.Equal(t, "2024-03-01", events[0].Date.String())
	assert.Equal(t, []string{"Featured", "Highlighted"}, events[0].Upgrades)
	assert.Equal(t, "3", events[0].ImporterID)

	// Float-rendered id coerces to the same opaque key.
	assert.Equal(t, "101", events[1].EntityID)
	assert.Equal(t, model.EventApplyStart, events[1].Name)

	// Malformed date is nulled; the row survives.
	assert.False(t, events[2].Date.Valid)
	assert.Equal(t, "202", events[2].EntityID)
	assert.Equal(t, "7", events[2].ImporterID)
}

// Count in always equals count out, whatever the input quality.
func TestEvents_TotalPreserving(t *testing.T) {
	records := [][]string{
		{"", "", "", "", "", "", ""},
		{"x", "weird_event", "garbage", "", "", "", ""},
		nil,
	}
	events, stats := Events(eventHeader, records)
	assert.Len(t, events, len(records))
	assert.Equal(t, len(records), stats.Rows)
}

func TestEvents_MissingOptionalColumns(t *testing.T) {
	// Schema without upgrades or importer: fields read as null.
	header := []string{"entity_id", "event_name", "event_date"}
	events, _ := Events(header, [][]string{{"9", "job_visit", "20240110"}})
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Upgrades)
	assert.Empty(t, events[0].ImporterID)
	assert.Empty(t, events[0].Organization)
}

func TestEvents_UnknownEventNamePreserved(t *testing.T) {
	events, _ := Events(eventHeader, [][]string{
		{"1", "job_detail_expand", "20240110", "", "", "", ""},
	})
	assert.Equal(t, model.EventName("job_detail_expand"), events[0].Name)
}
