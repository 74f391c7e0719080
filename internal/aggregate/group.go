package aggregate

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
)

// Dimension selects the categorical axis a breakdown groups on.
type Dimension string

const (
	DimRegion       Dimension = "region"
	DimImporter     Dimension = "importer"
	DimOrganization Dimension = "organization"
	DimOccupation   Dimension = "occupation"
	DimUpgrade      Dimension = "upgrade"
)

// ParseDimension validates a dimension name from the API or CLI.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimRegion, DimImporter, DimOrganization, DimOccupation, DimUpgrade:
		return Dimension(s), nil
	}
	return "", eris.Errorf("aggregate: unknown dimension %q", s)
}

// UnknownKey labels records that carry no value for the grouping dimension.
const UnknownKey = "Unknown"

// Band positions a group metric against the ungrouped benchmark.
type Band string

const (
	BandAbove  Band = "above"
	BandNormal Band = "normal"
	BandBelow  Band = "below"
)

// BandOf classifies value against benchmark with a 10% tolerance. A zero
// benchmark bands everything as normal since there is nothing to deviate
// from.
func BandOf(value, benchmark float64) Band {
	if benchmark == 0 {
		return BandNormal
	}
	switch {
	case value > benchmark*1.10:
		return BandAbove
	case value < benchmark*0.90:
		return BandBelow
	default:
		return BandNormal
	}
}

// Row is one group in a breakdown: its key, its metric block and how its
// per-vacancy rates sit against the ungrouped benchmark.
type Row struct {
	Key string `json:"key"`
	Summary

	ClicksBand  Band `json:"clicks_band"`
	AppliesBand Band `json:"applies_band"`
	RatioBand   Band `json:"ratio_band"`
}

// GroupBy computes one Row per value of the dimension. Multi-valued
// dimensions fan records out to every tag they carry, so one record can
// contribute to several rows and group totals may exceed the overall total.
// Rows sort by clicks descending, key ascending on ties.
func GroupBy(records []join.Record, dim Dimension) []Row {
	groups := make(map[string][]join.Record)
	var order []string
	add := func(key string, r join.Record) {
		if key == "" {
			key = UnknownKey
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	for _, r := range records {
		switch dim {
		case DimRegion:
			add(string(r.Region), r)
		case DimImporter:
			add(r.Importer, r)
		case DimOrganization:
			add(r.Organization(), r)
		case DimOccupation:
			fanOut(add, r.Occupations(), r)
		case DimUpgrade:
			fanOut(add, r.Event.Upgrades, r)
		}
	}

	overall := Summarize(records)

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		s := Summarize(groups[key])
		rows = append(rows, Row{
			Key:         key,
			Summary:     s,
			ClicksBand:  BandOf(s.ClicksPerVacancy, overall.ClicksPerVacancy),
			AppliesBand: BandOf(s.AppliesPerVacancy, overall.AppliesPerVacancy),
			RatioBand:   BandOf(s.Ratio, overall.Ratio),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Clicks != rows[j].Clicks {
			return rows[i].Clicks > rows[j].Clicks
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// fanOut sends a record to every tag it carries, once per distinct tag.
// Untagged records land in the unknown group.
func fanOut(add func(string, join.Record), tags []string, r join.Record) {
	if len(tags) == 0 {
		add(UnknownKey, r)
		return
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		add(tag, r)
	}
}
