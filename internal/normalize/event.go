package normalize

import (
	"go.uber.org/zap"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
)

// Stats counts recoverable issues seen while normalizing a batch.
type Stats struct {
	Rows           int `json:"rows"`
	MalformedDates int `json:"malformed_dates"`
}

// Add merges another batch's stats into s.
func (s *Stats) Add(other Stats) {
	s.Rows += other.Rows
	s.MalformedDates += other.MalformedDates
}

// EventFromRow builds an Event from one raw tabular row. A malformed event
// date is nulled and counted; the row itself always survives.
func EventFromRow(record []string, colIdx map[string]int, stats *Stats) model.Event {
	ev := model.Event{
		EntityID:     CoerceID(Col(record, colIdx, "entity_id")),
		Name:         model.EventName(Col(record, colIdx, "event_name")),
		Organization: Col(record, colIdx, "organization_name"),
		RawLocation:  FirstCol(record, colIdx, "region_raw", "locations", "regions"),
		Upgrades:     SplitMulti(Col(record, colIdx, "upgrades")),
		ImporterID:   CoerceID(Col(record, colIdx, "importer_id")),
	}

	ev.Date = dateOrNull(Col(record, colIdx, "event_date"), stats)

	stats.Rows++
	return ev
}

// Events normalizes a whole batch of raw event rows. The output always has
// one Event per input row.
func Events(header []string, records [][]string) ([]model.Event, Stats) {
	colIdx := MapColumns(header)
	out := make([]model.Event, 0, len(records))
	var stats Stats
	for _, record := range records {
		out = append(out, EventFromRow(record, colIdx, &stats))
	}
	if stats.MalformedDates > 0 {
		zap.L().Warn("normalize: malformed event dates nulled",
			zap.Int("rows", stats.Rows),
			zap.Int("malformed_dates", stats.MalformedDates),
		)
	}
	return out, stats
}
