package model

// EventName identifies the kind of user action an event row records.
// Upstream emits more kinds than the dashboard charts; unknown names are
// preserved verbatim so new event types survive normalization.
type EventName string

// Event names the dashboard aggregates over.
const (
	EventVisit      EventName = "job_visit"
	EventApplyStart EventName = "job_apply_start"
)

// Event is one observed user action against a job posting. Events are
// produced by the external tracking pipeline and are read-only here.
type Event struct {
	EntityID     string    `json:"entity_id"`
	Name         EventName `json:"event_name"`
	Date         Date      `json:"event_date"`
	Organization string    `json:"organization_name"`
	RawLocation  string    `json:"region_raw"`
	Upgrades     []string  `json:"upgrades"`
	ImporterID   string    `json:"importer_id"`
}
