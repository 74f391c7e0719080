package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/aggregate"
)

var groupHeader = []string{
	"group", "vacancy_count", "click_count", "apply_count", "apply_click_ratio",
	"robust_mean_clicks", "median_clicks",
	"robust_mean_applies", "median_applies",
	"clicks_per_vacancy", "applies_per_vacancy",
	"clicks_band", "applies_band", "ratio_band",
}

// GroupsXLSX writes a breakdown as an XLSX workbook with a single sheet,
// same columns and order as the CSV export.
func GroupsXLSX(w io.Writer, sheetName string, rows []aggregate.Row) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	headerRow := sheet.AddRow()
	for _, name := range groupHeader {
		headerRow.AddCell().SetString(name)
	}

	for _, r := range rows {
		gr := toGroupRow(r)
		row := sheet.AddRow()
		row.AddCell().SetString(gr.Key)
		row.AddCell().SetInt(gr.Vacancies)
		row.AddCell().SetInt(gr.Clicks)
		row.AddCell().SetInt(gr.Applies)
		addFloatCell(row, gr.Ratio)
		addFloatCell(row, gr.RobustMeanClicks)
		addFloatCell(row, gr.MedianClicks)
		addFloatCell(row, gr.RobustMeanApplies)
		addFloatCell(row, gr.MedianApplies)
		addFloatCell(row, gr.ClicksPerVacancy)
		addFloatCell(row, gr.AppliesPerVacancy)
		row.AddCell().SetString(gr.ClicksBand)
		row.AddCell().SetString(gr.AppliesBand)
		row.AddCell().SetString(gr.RatioBand)
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}

var vacancyHeader = []string{
	"entity_id", "title", "organization", "region", "importer", "status",
	"click_count", "apply_count", "apply_click_ratio",
	"publishing_date", "expiration_date",
	"days_active", "clicks_per_day", "applies_per_day",
}

// VacanciesXLSX writes the per-vacancy table as an XLSX workbook, same
// columns and order as the CSV export.
func VacanciesXLSX(w io.Writer, sheetName string, rows []aggregate.VacancyRow) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	headerRow := sheet.AddRow()
	for _, name := range vacancyHeader {
		headerRow.AddCell().SetString(name)
	}

	for _, r := range rows {
		vr := toVacancyRow(r)
		row := sheet.AddRow()
		row.AddCell().SetString(vr.EntityID)
		row.AddCell().SetString(vr.Title)
		row.AddCell().SetString(vr.Organization)
		row.AddCell().SetString(vr.Region)
		row.AddCell().SetString(vr.Importer)
		row.AddCell().SetString(vr.Status)
		row.AddCell().SetInt(vr.Clicks)
		row.AddCell().SetInt(vr.Applies)
		addFloatCell(row, vr.Ratio)
		row.AddCell().SetString(vr.PublishingDate)
		row.AddCell().SetString(vr.ExpirationDate)
		row.AddCell().SetInt(vr.DaysActive)
		addFloatCell(row, vr.ClicksPerDay)
		addFloatCell(row, vr.AppliesPerDay)
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}

func addFloatCell(row *xlsx.Row, v float64) {
	row.AddCell().SetFloatWithFormat(v, floatFormat(v))
}

func floatFormat(v float64) string {
	if v == float64(int64(v)) {
		return "0"
	}
	return "0.00"
}
