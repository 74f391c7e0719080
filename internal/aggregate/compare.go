package aggregate

import "github.com/TomJordanJGP/job-performance-dashboard/internal/join"

// Delta is the change of one metric between two summaries. Pct is only
// meaningful when Defined is true; a zero baseline has no percentage.
type Delta struct {
	Abs     float64 `json:"abs"`
	Pct     float64 `json:"pct"`
	Defined bool    `json:"pct_defined"`
}

// Diff computes b relative to a.
func Diff(a, b float64) Delta {
	d := Delta{Abs: b - a}
	if a != 0 {
		d.Pct = (b - a) / a * 100
		d.Defined = true
	}
	return d
}

// Comparison holds two independently filtered summaries side by side with
// per-metric deltas (B relative to A).
type Comparison struct {
	A Summary `json:"a"`
	B Summary `json:"b"`

	Vacancies Delta `json:"vacancies"`
	Clicks    Delta `json:"clicks"`
	Applies   Delta `json:"applies"`
	Ratio     Delta `json:"ratio"`

	ClicksPerVacancy  Delta `json:"clicks_per_vacancy"`
	AppliesPerVacancy Delta `json:"applies_per_vacancy"`
}

// Compare runs both filters over the same record set and diffs the results.
// The two sides are fully independent; their filters may overlap.
func Compare(records []join.Record, a, b Filter) Comparison {
	sa := Summarize(Apply(records, a))
	sb := Summarize(Apply(records, b))
	return Comparison{
		A:                 sa,
		B:                 sb,
		Vacancies:         Diff(float64(sa.Vacancies), float64(sb.Vacancies)),
		Clicks:            Diff(float64(sa.Clicks), float64(sb.Clicks)),
		Applies:           Diff(float64(sa.Applies), float64(sb.Applies)),
		Ratio:             Diff(sa.Ratio, sb.Ratio),
		ClicksPerVacancy:  Diff(sa.ClicksPerVacancy, sb.ClicksPerVacancy),
		AppliesPerVacancy: Diff(sa.AppliesPerVacancy, sb.AppliesPerVacancy),
	}
}
