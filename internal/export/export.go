// Package export renders aggregate results as flat CSV or XLSX tables for
// download.
package export

import (
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/aggregate"
)

// groupRow fixes the exported column order. Struct tag order is the wire
// order: key and headline counts first, robust statistics after.
type groupRow struct {
	Key       string  `csv:"group"`
	Vacancies int     `csv:"vacancy_count"`
	Clicks    int     `csv:"click_count"`
	Applies   int     `csv:"apply_count"`
	Ratio     float64 `csv:"apply_click_ratio"`

	RobustMeanClicks float64 `csv:"robust_mean_clicks"`
	MedianClicks     float64 `csv:"median_clicks"`

	RobustMeanApplies float64 `csv:"robust_mean_applies"`
	MedianApplies     float64 `csv:"median_applies"`

	ClicksPerVacancy  float64 `csv:"clicks_per_vacancy"`
	AppliesPerVacancy float64 `csv:"applies_per_vacancy"`

	ClicksBand  string `csv:"clicks_band"`
	AppliesBand string `csv:"applies_band"`
	RatioBand   string `csv:"ratio_band"`
}

func toGroupRow(r aggregate.Row) groupRow {
	return groupRow{
		Key:               r.Key,
		Vacancies:         r.Vacancies,
		Clicks:            r.Clicks,
		Applies:           r.Applies,
		Ratio:             r.Ratio,
		RobustMeanClicks:  r.RobustMeanClicks,
		MedianClicks:      r.MedianClicks,
		RobustMeanApplies: r.RobustMeanApplies,
		MedianApplies:     r.MedianApplies,
		ClicksPerVacancy:  r.ClicksPerVacancy,
		AppliesPerVacancy: r.AppliesPerVacancy,
		ClicksBand:        string(r.ClicksBand),
		AppliesBand:       string(r.AppliesBand),
		RatioBand:         string(r.RatioBand),
	}
}

// vacancyRow is the per-posting detail export.
type vacancyRow struct {
	EntityID     string `csv:"entity_id"`
	Title        string `csv:"title"`
	Organization string `csv:"organization"`
	Region       string `csv:"region"`
	Importer     string `csv:"importer"`
	Status       string `csv:"status"`

	Clicks  int     `csv:"click_count"`
	Applies int     `csv:"apply_count"`
	Ratio   float64 `csv:"apply_click_ratio"`

	PublishingDate string  `csv:"publishing_date"`
	ExpirationDate string  `csv:"expiration_date"`
	DaysActive     int     `csv:"days_active"`
	ClicksPerDay   float64 `csv:"clicks_per_day"`
	AppliesPerDay  float64 `csv:"applies_per_day"`
}

func toVacancyRow(r aggregate.VacancyRow) vacancyRow {
	return vacancyRow{
		EntityID:       r.EntityID,
		Title:          r.Title,
		Organization:   r.Organization,
		Region:         string(r.Region),
		Importer:       r.Importer,
		Status:         string(r.Status),
		Clicks:         r.Clicks,
		Applies:        r.Applies,
		Ratio:          r.Ratio,
		PublishingDate: r.PublishingDate.String(),
		ExpirationDate: r.ExpirationDate.String(),
		DaysActive:     r.DaysActive,
		ClicksPerDay:   r.ClicksPerDay,
		AppliesPerDay:  r.AppliesPerDay,
	}
}

// GroupsCSV writes a breakdown as CSV.
func GroupsCSV(w io.Writer, rows []aggregate.Row) error {
	out := make([]groupRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toGroupRow(r))
	}
	return marshalCSV(w, out)
}

// VacanciesCSV writes the per-vacancy table as CSV.
func VacanciesCSV(w io.Writer, rows []aggregate.VacancyRow) error {
	out := make([]vacancyRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toVacancyRow(r))
	}
	return marshalCSV(w, out)
}

func marshalCSV(w io.Writer, rows any) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "export: marshal csv")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write csv")
	}
	return nil
}
