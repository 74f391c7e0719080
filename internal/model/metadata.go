package model

import "strings"

// WorkflowState is the publishing state of a job posting.
type WorkflowState string

const (
	StatePublished   WorkflowState = "published"
	StateUnpublished WorkflowState = "unpublished"
	StateOther       WorkflowState = "other"
)

// ParseWorkflowState folds a raw state string into the closed enum.
func ParseWorkflowState(s string) WorkflowState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "published":
		return StatePublished
	case "unpublished":
		return StateUnpublished
	default:
		return StateOther
	}
}

// Metadata holds the descriptive attributes of a job posting. Each refresh is
// a full-replace snapshot of the export; rows are immutable once loaded.
type Metadata struct {
	EntityID           string        `json:"entity_id"`
	Title              string        `json:"title"`
	WorkflowState      WorkflowState `json:"workflow_state"`
	OccupationalFields []string      `json:"occupational_fields"`
	RawLocations       string        `json:"locations"`
	PublishingDate     Date          `json:"publishing_date"`
	ExpirationDate     Date          `json:"expiration_date"`
	Organization       string        `json:"organization_profile_name"`
	EmploymentType     string        `json:"employment_type"`
}
