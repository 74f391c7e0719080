package aggregate

import (
	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
)

// Summary is the metric block computed over any record set. An empty record
// set yields a well-formed all-zero summary, never an error.
type Summary struct {
	Vacancies int `json:"vacancies"`
	Clicks    int `json:"clicks"`
	Applies   int `json:"applies"`

	// Ratio is applies per hundred clicks, 0 when there are no clicks.
	Ratio float64 `json:"apply_click_ratio"`

	ClicksPerVacancy  float64 `json:"clicks_per_vacancy"`
	AppliesPerVacancy float64 `json:"applies_per_vacancy"`

	// Per-entity distribution statistics. The robust means trim IQR
	// outliers so a single viral posting cannot drag the benchmark.
	MedianClicks      float64 `json:"median_clicks"`
	MedianApplies     float64 `json:"median_applies"`
	RobustMeanClicks  float64 `json:"robust_mean_clicks"`
	RobustMeanApplies float64 `json:"robust_mean_applies"`
}

// entityCounts is the per-posting tally behind the distribution metrics.
type entityCounts struct {
	clicks  int
	applies int
}

// tally accumulates click/apply counts per distinct entity, insertion order
// kept so downstream output is deterministic.
func tally(records []join.Record) (map[string]*entityCounts, []string) {
	counts := make(map[string]*entityCounts)
	var order []string
	for _, r := range records {
		id := r.Event.EntityID
		c, ok := counts[id]
		if !ok {
			c = &entityCounts{}
			counts[id] = c
			order = append(order, id)
		}
		switch r.Event.Name {
		case model.EventVisit:
			c.clicks++
		case model.EventApplyStart:
			c.applies++
		}
	}
	return counts, order
}

// Summarize computes the metric block for a record set. Vacancy count is the
// number of distinct entities observed in the records.
func Summarize(records []join.Record) Summary {
	counts, order := tally(records)

	var s Summary
	s.Vacancies = len(counts)

	clickDist := make([]float64, 0, len(order))
	applyDist := make([]float64, 0, len(order))
	for _, id := range order {
		c := counts[id]
		s.Clicks += c.clicks
		s.Applies += c.applies
		clickDist = append(clickDist, float64(c.clicks))
		applyDist = append(applyDist, float64(c.applies))
	}

	if s.Clicks > 0 {
		s.Ratio = float64(s.Applies) / float64(s.Clicks) * 100
	}
	if s.Vacancies > 0 {
		s.ClicksPerVacancy = float64(s.Clicks) / float64(s.Vacancies)
		s.AppliesPerVacancy = float64(s.Applies) / float64(s.Vacancies)
	}

	s.MedianClicks = Median(clickDist)
	s.MedianApplies = Median(applyDist)
	s.RobustMeanClicks = RobustMean(clickDist)
	s.RobustMeanApplies = RobustMean(applyDist)
	return s
}
