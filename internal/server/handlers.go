package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ccollicutt/etlwatch/pkg/backend"
	"github.com/ccollicutt/etlwatch/pkg/joblog"
	"github.com/ccollicutt/etlwatch/pkg/monitor"
	"github.com/ccollicutt/etlwatch/pkg/output"
	"github.com/ccollicutt/etlwatch/pkg/pagination"
	"github.com/ccollicutt/etlwatch/pkg/timestamp"
)

// NormalizeResponse is the body of /api/timestamps/normalize.
type NormalizeResponse struct {
	Raw       string          `json:"raw"`
	State     timestamp.State `json:"state"`
	Time      string          `json:"time,omitempty"`
	Format    string          `json:"format,omitempty"`
	Ambiguous bool            `json:"ambiguous,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMonitor(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := pagination.New(atoiOrZero(q.Get("page")), atoiOrZero(q.Get("limit")))
	if q.Get("limit") == "" && s.pageSize > 0 {
		state.Limit = s.pageSize
	}

	page, err := s.history.JobHistory(r.Context(), backend.HistoryQuery{
		AppID: q.Get("app_id"),
		Page:  state.Page,
		Limit: state.Limit,
	})
	if err != nil {
		s.logger.Warn("fetching job history failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	now := s.clock.Now()
	rows := monitor.Build(page.Data, now, s.normalizer)
	writeJSON(w, http.StatusOK, output.NewReport(rows, page.Pagination, s.history.BaseURL(), now))
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	c := s.normalizer.Classify(r.URL.Query().Get("raw"))

	resp := NormalizeResponse{
		Raw:       c.Instant.Raw,
		State:     c.Instant.State,
		Time:      c.Instant.RFC3339(),
		Format:    c.Format,
		Ambiguous: c.Ambiguous,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJobLog(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		writeJSON(w, http.StatusOK, []joblog.Entry{})
		return
	}

	entries, err := s.jobs.Load(r.Context())
	if err != nil {
		s.logger.Error("loading job log failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeJSON encodes data before touching the response so an encoding
// failure still produces a 500 with a body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&buf).Encode(data); err != nil {
			buf.Reset()
			status = http.StatusInternalServerError
			_ = json.NewEncoder(&buf).Encode(map[string]string{"error": "encoding response: " + err.Error()})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
