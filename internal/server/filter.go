package server

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/aggregate"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/normalize"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
)

// parseFilter reads a Filter from query parameters, optionally prefixed
// (the comparison endpoint uses a_ and b_). Multi-value dimensions accept
// repeated parameters and comma-separated lists.
func parseFilter(q url.Values, prefix string) (aggregate.Filter, error) {
	var f aggregate.Filter

	for _, name := range multiValues(q, prefix+"regions") {
		f.Regions = append(f.Regions, region.Region(name))
	}
	f.Importers = multiValues(q, prefix+"importers")
	f.Organizations = multiValues(q, prefix+"organizations")
	f.Occupations = multiValues(q, prefix+"occupations")
	f.Upgrades = multiValues(q, prefix+"upgrades")
	f.TitleQuery = q.Get(prefix + "title")

	var err error
	if f.DateFrom, err = parseDateParam(q, prefix+"from"); err != nil {
		return f, err
	}
	if f.DateTo, err = parseDateParam(q, prefix+"to"); err != nil {
		return f, err
	}
	if f.DateFrom.Valid && f.DateTo.Valid && f.DateTo.Before(f.DateFrom) {
		return f, eris.Errorf("server: %sto precedes %sfrom", prefix, prefix)
	}
	return f, nil
}

func multiValues(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseDateParam(q url.Values, key string) (model.Date, error) {
	raw := q.Get(key)
	if raw == "" {
		return model.Date{}, nil
	}
	d, err := normalize.ParseDate(raw)
	if err != nil {
		return model.Date{}, eris.Wrapf(err, "server: parse %s", key)
	}
	return d, nil
}
