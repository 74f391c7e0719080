package aggregate

import (
	"sort"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
)

// Facets lists the distinct values present for each filterable dimension,
// for populating filter controls.
type Facets struct {
	Regions       []string `json:"regions"`
	Importers     []string `json:"importers"`
	Organizations []string `json:"organizations"`
	Occupations   []string `json:"occupations"`
	Upgrades      []string `json:"upgrades"`
}

// CollectFacets scans a record set for the distinct values of every
// dimension. Regions keep taxonomy display order with Unknown last; the
// other dimensions sort alphabetically.
func CollectFacets(records []join.Record) Facets {
	regions := make(map[region.Region]struct{})
	importers := make(map[string]struct{})
	orgs := make(map[string]struct{})
	occupations := make(map[string]struct{})
	upgrades := make(map[string]struct{})

	for _, r := range records {
		regions[r.Region] = struct{}{}
		if r.Importer != "" {
			importers[r.Importer] = struct{}{}
		}
		if org := r.Organization(); org != "" {
			orgs[org] = struct{}{}
		}
		for _, o := range r.Occupations() {
			occupations[o] = struct{}{}
		}
		for _, u := range r.Event.Upgrades {
			upgrades[u] = struct{}{}
		}
	}

	var f Facets
	for _, reg := range region.All() {
		if _, ok := regions[reg]; ok {
			f.Regions = append(f.Regions, string(reg))
		}
	}
	if _, ok := regions[region.Unknown]; ok {
		f.Regions = append(f.Regions, string(region.Unknown))
	}
	f.Importers = sortedKeys(importers)
	f.Organizations = sortedKeys(orgs)
	f.Occupations = sortedKeys(occupations)
	f.Upgrades = sortedKeys(upgrades)
	return f
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
