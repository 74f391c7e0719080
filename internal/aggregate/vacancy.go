package aggregate

import (
	"sort"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
)

// VacancyRow is one posting's line in the per-vacancy detail table.
type VacancyRow struct {
	EntityID     string              `json:"entity_id"`
	Title        string              `json:"title"`
	Organization string              `json:"organization"`
	Region       region.Region       `json:"region"`
	Importer     string              `json:"importer"`
	Status       model.WorkflowState `json:"status"`

	Clicks  int     `json:"clicks"`
	Applies int     `json:"applies"`
	Ratio   float64 `json:"apply_click_ratio"`

	PublishingDate model.Date `json:"publishing_date"`
	ExpirationDate model.Date `json:"expiration_date"`

	// DaysActive is the posting's lifetime in days, inclusive of both
	// endpoints; 0 when either date is null.
	DaysActive    int     `json:"days_active"`
	ClicksPerDay  float64 `json:"clicks_per_day"`
	AppliesPerDay float64 `json:"applies_per_day"`
}

// Vacancies builds the per-vacancy table over a record set, one row per
// distinct entity, sorted by clicks descending then entity id.
func Vacancies(records []join.Record) []VacancyRow {
	counts, order := tally(records)

	// First record per entity carries the descriptive fields; metadata is
	// identical across an entity's records after the join.
	firstByID := make(map[string]join.Record, len(order))
	for _, r := range records {
		if _, ok := firstByID[r.Event.EntityID]; !ok {
			firstByID[r.Event.EntityID] = r
		}
	}

	rows := make([]VacancyRow, 0, len(order))
	for _, id := range order {
		r := firstByID[id]
		c := counts[id]

		row := VacancyRow{
			EntityID:     id,
			Title:        r.Title(),
			Organization: r.Organization(),
			Region:       r.Region,
			Importer:     r.Importer,
			Clicks:       c.clicks,
			Applies:      c.applies,
		}
		if c.clicks > 0 {
			row.Ratio = float64(c.applies) / float64(c.clicks) * 100
		}
		if r.Meta != nil {
			row.Status = r.Meta.WorkflowState
			row.PublishingDate = r.Meta.PublishingDate
			row.ExpirationDate = r.Meta.ExpirationDate
			row.DaysActive = daysActive(r.Meta.PublishingDate, r.Meta.ExpirationDate)
		}
		if row.DaysActive > 0 {
			row.ClicksPerDay = float64(row.Clicks) / float64(row.DaysActive)
			row.AppliesPerDay = float64(row.Applies) / float64(row.DaysActive)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Clicks != rows[j].Clicks {
			return rows[i].Clicks > rows[j].Clicks
		}
		return rows[i].EntityID < rows[j].EntityID
	})
	return rows
}

func daysActive(from, to model.Date) int {
	if !from.Valid || !to.Valid || to.Time.Before(from.Time) {
		return 0
	}
	return int(to.Time.Sub(from.Time).Hours()/24) + 1
}
