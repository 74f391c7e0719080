// Package aggregate turns joined event records into the dashboard's
// summary tables: filtered totals, grouped breakdowns, benchmark bands,
// period comparisons and per-vacancy detail.
package aggregate

import (
	"strings"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
)

// Filter narrows the record set before aggregation. Dimensions combine with
// AND; values inside one multi-select dimension combine with OR. Zero-valued
// dimensions match everything.
type Filter struct {
	DateFrom model.Date `json:"date_from"`
	DateTo   model.Date `json:"date_to"`

	Regions       []region.Region `json:"regions"`
	Importers     []string        `json:"importers"`
	Organizations []string        `json:"organizations"`
	Occupations   []string        `json:"occupations"`
	Upgrades      []string        `json:"upgrades"`

	TitleQuery string `json:"title_query"`
}

// Match reports whether one record passes every active dimension.
func (f Filter) Match(r join.Record) bool {
	if !f.matchDates(r) {
		return false
	}
	if len(f.Regions) > 0 && !containsRegion(f.Regions, r.Region) {
		return false
	}
	if len(f.Importers) > 0 && !contains(f.Importers, r.Importer) {
		return false
	}
	if len(f.Organizations) > 0 && !contains(f.Organizations, r.Organization()) {
		return false
	}
	if len(f.Occupations) > 0 && !intersects(f.Occupations, r.Occupations()) {
		return false
	}
	if len(f.Upgrades) > 0 && !intersects(f.Upgrades, r.Event.Upgrades) {
		return false
	}
	if f.TitleQuery != "" &&
		!strings.Contains(strings.ToLower(r.Title()), strings.ToLower(f.TitleQuery)) {
		return false
	}
	return true
}

// matchDates applies the date range. A record passes when the posting's
// active window overlaps the range AND the event itself happened inside it.
// A null date on either side of the overlap test fails it, so undated
// postings disappear as soon as any date bound is set.
func (f Filter) matchDates(r join.Record) bool {
	if !f.DateFrom.Valid && !f.DateTo.Valid {
		return true
	}
	if !r.Event.Date.Valid {
		return false
	}
	if f.DateFrom.Valid && r.Event.Date.Before(f.DateFrom) {
		return false
	}
	if f.DateTo.Valid && r.Event.Date.After(f.DateTo) {
		return false
	}
	if r.Meta == nil {
		return false
	}
	// Active-window overlap: published no later than the range end and not
	// expired before the range start.
	if f.DateTo.Valid && (!r.Meta.PublishingDate.Valid || r.Meta.PublishingDate.After(f.DateTo)) {
		return false
	}
	if f.DateFrom.Valid && (!r.Meta.ExpirationDate.Valid || r.Meta.ExpirationDate.Before(f.DateFrom)) {
		return false
	}
	return true
}

// Apply returns the records passing the filter, input order preserved.
func Apply(records []join.Record, f Filter) []join.Record {
	out := make([]join.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsRegion(haystack []region.Region, needle region.Region) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// intersects reports whether any selected value appears among the record's
// tags (the ANY-of rule for multi-valued fields).
func intersects(selected, tags []string) bool {
	for _, tag := range tags {
		if contains(selected, tag) {
			return true
		}
	}
	return false
}
