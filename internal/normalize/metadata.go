package normalize

import (
	"go.uber.org/zap"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
)

// MetadataFromRow builds a Metadata record from one raw tabular row.
// Publishing and expiration dates are nulled independently when malformed.
func MetadataFromRow(record []string, colIdx map[string]int, stats *Stats) model.Metadata {
	md := model.Metadata{
		EntityID:           CoerceID(Col(record, colIdx, "entity_id")),
		Title:              FirstCol(record, colIdx, "title", "title_export"),
		WorkflowState:      model.ParseWorkflowState(Col(record, colIdx, "workflow_state")),
		OccupationalFields: SplitMulti(FirstCol(record, colIdx, "occupational_fields", "occupational_fields_export")),
		RawLocations:       FirstCol(record, colIdx, "locations", "regions"),
		Organization:       FirstCol(record, colIdx, "organization_profile_name", "organization_name"),
		EmploymentType:     Col(record, colIdx, "employment_type"),
	}

	md.PublishingDate = dateOrNull(FirstCol(record, colIdx, "publishing_date", "start_date"), stats)
	md.ExpirationDate = dateOrNull(FirstCol(record, colIdx, "expiration_date", "end_date"), stats)

	stats.Rows++
	return md
}

// MetadataRows normalizes a whole metadata snapshot. One record per input
// row; duplicate entity ids are resolved later by the join index, not here.
func MetadataRows(header []string, records [][]string) ([]model.Metadata, Stats) {
	colIdx := MapColumns(header)
	out := make([]model.Metadata, 0, len(records))
	var stats Stats
	for _, record := range records {
		out = append(out, MetadataFromRow(record, colIdx, &stats))
	}
	if stats.MalformedDates > 0 {
		zap.L().Warn("normalize: malformed metadata dates nulled",
			zap.Int("rows", stats.Rows),
			zap.Int("malformed_dates", stats.MalformedDates),
		)
	}
	return out, stats
}

// dateOrNull parses a date field, counting and nulling failures. An empty
// field is a plain null, not a malformed value.
func dateOrNull(raw string, stats *Stats) model.Date {
	if raw == "" {
		return model.Date{}
	}
	d, err := ParseDate(raw)
	if err != nil {
		stats.MalformedDates++
		return model.Date{}
	}
	return d
}
