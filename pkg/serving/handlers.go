package serving

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"SystemMonitor/pkg/apperrors"
	"SystemMonitor/pkg/graphing"
	"SystemMonitor/pkg/logging"
	"SystemMonitor/pkg/metrics"
)

// validationError is one entry of a 422 response, shaped like the
// validation errors browser clients of this API already understand.
type validationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// errBadQuery is returned by query parsing; the handler answers 422.
type errBadQuery struct {
	detail []validationError
}

func (e *errBadQuery) Error() string {
	return e.detail[0].Msg
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap, err := s.svc.GetSystemSnapshot(r.Context())
	s.metrics.ObserveSample("system", time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.ObserveSnapshot(snap)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleProcesses(w http.ResponseWriter, r *http.Request) {
	limit, sortBy, err := s.processQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	procs, err := s.svc.ListTopProcesses(r.Context(), limit, sortBy)
	s.metrics.ObserveSample("processes", time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, procs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"instance_id":         s.cfg.InstanceID,
		"version":             s.version,
		"host":                s.host,
		"uptime_seconds":      int64(time.Since(s.started).Seconds()),
		"cpu_sample_interval": s.cfg.CPUSampleInterval.String(),
		"default_limit":       s.cfg.DefaultLimit,
		"default_sort_by":     s.cfg.DefaultSortBy,
	})
}

// handleChart renders the current snapshot as an HTML chart page.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	limit, sortBy, err := s.processQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	rep, err := s.svc.Report(r.Context(), limit, sortBy)
	s.metrics.ObserveSample("report", time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.ObserveSnapshot(rep.System)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = graphing.RenderProcesses(w, rep,
		graphing.WithHost(s.host),
		graphing.WithInstanceID(s.cfg.InstanceID),
	)
	if err != nil {
		s.log.Error("chart render failed", err, logging.String("request_id", RequestID(r.Context())))
	}
}

// processQuery reads limit and sort_by. A limit that is present but not an
// integer is rejected; an unknown sort_by silently means cpu.
func (s *Server) processQuery(q url.Values) (int, metrics.SortKey, error) {
	limit := s.cfg.DefaultLimit
	if q.Has("limit") {
		n, err := strconv.Atoi(q.Get("limit"))
		if err != nil {
			return 0, "", &errBadQuery{detail: []validationError{{
				Loc:  []string{"query", "limit"},
				Msg:  "value is not a valid integer",
				Type: "type_error.integer",
			}}}
		}
		limit = n
	}

	sortBy := metrics.ParseSortKey(s.cfg.DefaultSortBy)
	if q.Has("sort_by") {
		sortBy = metrics.ParseSortKey(q.Get("sort_by"))
	}
	return limit, sortBy, nil
}

// writeError maps an error to a status code and a {"detail": ...} body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := logging.String("request_id", RequestID(r.Context()))

	var bad *errBadQuery
	switch {
	case errors.As(err, &bad):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": bad.detail})
	case errors.Is(err, apperrors.ErrMetricsUnavailable):
		s.log.Error("metrics unavailable", err, reqID, logging.String("path", r.URL.Path))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": err.Error()})
	case apperrors.IsContextError(err):
		// The client is gone; nobody reads the body.
		s.log.Debug("request abandoned", reqID, logging.String("path", r.URL.Path))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "request cancelled"})
	default:
		s.log.Error("request failed", err, reqID, logging.String("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
