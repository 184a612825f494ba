package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/couchcryptid/order-dashboard/internal/adapter/chart"
	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/couchcryptid/order-dashboard/internal/pipeline"
)

// Query parameters that select an on-demand run.
const (
	paramStatus = "status"
	paramCity   = "city"
	paramField  = "field"
	paramQuery  = "q"
)

const maxFilterBody = 64 << 10

// dashboardData resolves the data for a request: an on-demand run when the
// query carries filters, otherwise the latest scheduled snapshot. On failure
// it writes the error response and returns nil.
func (s *Server) dashboardData(w http.ResponseWriter, r *http.Request) *pipeline.DashboardData {
	if spec, ok := specFromQuery(r.URL.Query()); ok {
		data, err := s.runner.Run(r.Context(), spec)
		if err != nil {
			s.logger.Error("on-demand dashboard run failed", "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
			return nil
		}
		return data
	}

	snap, ok := s.dashboard.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "dashboard has not been refreshed yet")
		return nil
	}
	if snap.Err != nil {
		writeError(w, http.StatusBadGateway, snap.Err.Error())
		return nil
	}
	return snap.Data
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := s.dashboardData(w, r)
	if data == nil {
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleGetFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Spec())
}

func (s *Server) handlePutFilters(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFilterBody))
	dec.DisallowUnknownFields()

	var spec domain.FilterSpec
	if err := dec.Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter spec: "+err.Error())
		return
	}

	s.dashboard.SetSpec(spec)
	s.logger.Info("dashboard filters updated",
		"statuses", spec.Statuses,
		"cities", spec.Cities,
		"search_field", spec.SearchField,
	)
	writeJSON(w, http.StatusAccepted, spec)
}

func (s *Server) handleDailyChart(w http.ResponseWriter, r *http.Request) {
	data := s.dashboardData(w, r)
	if data == nil {
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderDailyTrend(&buf, data.DailyTrend, data.MonthlyForecast); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("render daily chart failed", "error", err)
		writeError(w, http.StatusInternalServerError, "render chart failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// specFromQuery builds a filter selection from query parameters. It reports
// false when none of the filter parameters is present. A present but empty
// status or city parameter selects nothing.
func specFromQuery(q url.Values) (domain.FilterSpec, bool) {
	var spec domain.FilterSpec
	present := false

	if vals, ok := q[paramStatus]; ok {
		spec.Statuses = splitValues(vals)
		present = true
	}
	if vals, ok := q[paramCity]; ok {
		spec.Cities = splitValues(vals)
		present = true
	}
	if q.Has(paramQuery) || q.Has(paramField) {
		spec.Keyword = q.Get(paramQuery)
		spec.SearchField = q.Get(paramField)
		if spec.SearchField == "" {
			spec.SearchField = domain.ColumnCustomerName
		}
		present = true
	}
	return spec, present
}

// splitValues accepts repeated and comma-separated values.
func splitValues(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
