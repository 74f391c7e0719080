package aggregate

import (
	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
)

// Quartile labels for the performance breakdown.
const (
	QuartileTop    = "top 25%"
	QuartileMiddle = "middle 50%"
	QuartileBottom = "bottom 25%"
)

// QuartileBucket is one performance tier of the posting population.
type QuartileBucket struct {
	Label string `json:"label"`
	Summary
}

// Quartiles splits postings into top/middle/bottom tiers by click count and
// summarizes each tier. Tier boundaries are the quartiles of the per-posting
// click distribution: postings at or above Q3 form the top tier, those below
// Q1 the bottom. Fewer than 4 postings all land in the middle tier.
func Quartiles(records []join.Record) []QuartileBucket {
	counts, order := tally(records)

	tier := make(map[string]string, len(order))
	if len(order) < 4 {
		for _, id := range order {
			tier[id] = QuartileMiddle
		}
	} else {
		clicks := make([]float64, 0, len(order))
		for _, id := range order {
			clicks = append(clicks, float64(counts[id].clicks))
		}
		q1 := Quantile(clicks, 0.25)
		q3 := Quantile(clicks, 0.75)

		for _, id := range order {
			c := float64(counts[id].clicks)
			switch {
			case c >= q3:
				tier[id] = QuartileTop
			case c < q1:
				tier[id] = QuartileBottom
			default:
				tier[id] = QuartileMiddle
			}
		}
	}

	byTier := make(map[string][]join.Record, 3)
	for _, r := range records {
		label := tier[r.Event.EntityID]
		byTier[label] = append(byTier[label], r)
	}

	buckets := make([]QuartileBucket, 0, 3)
	for _, label := range []string{QuartileTop, QuartileMiddle, QuartileBottom} {
		buckets = append(buckets, QuartileBucket{
			Label:   label,
			Summary: Summarize(byTier[label]),
		})
	}
	return buckets
}
