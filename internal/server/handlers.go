package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/aggregate"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/export"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/pipeline"
)

// filtered loads the dataset and applies the request's filter.
func (s *Server) filtered(w http.ResponseWriter, r *http.Request) ([]join.Record, pipeline.RefreshStats, bool) {
	ds, err := s.data.Dataset(r.Context())
	if err != nil {
		writeDataError(w, err)
		return nil, pipeline.RefreshStats{}, false
	}

	f, err := parseFilter(r.URL.Query(), "")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, pipeline.RefreshStats{}, false
	}

	return aggregate.Apply(ds.Records, f), ds.Stats, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	records, stats, ok := s.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Summary aggregate.Summary     `json:"summary"`
		Stats   pipeline.RefreshStats `json:"refresh"`
	}{aggregate.Summarize(records), stats})
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	dim, err := aggregate.ParseDimension(r.URL.Query().Get("by"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, _, ok := s.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		By   aggregate.Dimension `json:"by"`
		Rows []aggregate.Row     `json:"rows"`
	}{dim, aggregate.GroupBy(records, dim)})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	ds, err := s.data.Dataset(r.Context())
	if err != nil {
		writeDataError(w, err)
		return
	}

	a, err := parseFilter(r.URL.Query(), "a_")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := parseFilter(r.URL.Query(), "b_")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, aggregate.Compare(ds.Records, a, b))
}

func (s *Server) handleVacancies(w http.ResponseWriter, r *http.Request) {
	records, _, ok := s.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Rows []aggregate.VacancyRow `json:"rows"`
	}{aggregate.Vacancies(records)})
}

// handleFacets reports the distinct filter values over the whole dataset,
// unfiltered, so controls stay stable while filters are applied.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	ds, err := s.data.Dataset(r.Context())
	if err != nil {
		writeDataError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aggregate.CollectFacets(ds.Records))
}

func (s *Server) handleQuartiles(w http.ResponseWriter, r *http.Request) {
	records, _, ok := s.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Buckets []aggregate.QuartileBucket `json:"buckets"`
	}{aggregate.Quartiles(records)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	vacancyTable := by == "vacancies"
	var dim aggregate.Dimension
	if !vacancyTable {
		var err error
		if dim, err = aggregate.ParseDimension(by); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
		return
	}

	records, _, ok := s.filtered(w, r)
	if !ok {
		return
	}

	stamp := time.Now().UTC().Format("20060102")
	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv")
	} else {
		w.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s_%s.%s"`, by, stamp, format))

	var err error
	if vacancyTable {
		rows := aggregate.Vacancies(records)
		if format == "csv" {
			err = export.VacanciesCSV(w, rows)
		} else {
			err = export.VacanciesXLSX(w, "vacancies", rows)
		}
	} else {
		rows := aggregate.GroupBy(records, dim)
		if format == "csv" {
			err = export.GroupsCSV(w, rows)
		} else {
			err = export.GroupsXLSX(w, "by "+string(dim), rows)
		}
	}
	if err != nil {
		zap.L().Error("server: export failed", zap.Error(err))
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ds, err := s.data.Refresh(r.Context())
	if err != nil {
		writeDataError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.Stats)
}
