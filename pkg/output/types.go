// Package output renders monitor reports for the terminal and for machines.
package output

import (
	"time"

	"github.com/ccollicutt/etlwatch/pkg/backend"
	"github.com/ccollicutt/etlwatch/pkg/monitor"
)

// Report is one rendered page of job history.
type Report struct {
	// Summary counts the rows on this page by outcome.
	Summary monitor.Summary `json:"summary"`

	// Rows are the jobs, newest first.
	Rows []monitor.Row `json:"rows"`

	// Pagination is the backend's paging view of the history.
	Pagination Pagination `json:"pagination"`

	// Metadata provides context about the render.
	Metadata Metadata `json:"metadata"`
}

// Pagination mirrors the backend paging block.
type Pagination struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalRecords int `json:"total_records"`
}

// Metadata provides context about where and when the report was built.
type Metadata struct {
	// Backend is the base URL the history came from.
	Backend string `json:"backend"`

	// GeneratedAt is the render time every ongoing duration was measured against.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewReport builds a Report from rendered rows and the backend's paging block.
func NewReport(rows []monitor.Row, page backend.Pagination, backendURL string, generatedAt time.Time) *Report {
	if rows == nil {
		rows = []monitor.Row{}
	}
	return &Report{
		Summary: monitor.Summarize(rows),
		Rows:    rows,
		Pagination: Pagination{
			Page:         page.CurrentPage,
			TotalPages:   page.TotalPages,
			TotalRecords: page.TotalRecords,
		},
		Metadata: Metadata{
			Backend:     backendURL,
			GeneratedAt: generatedAt,
		},
	}
}

// HasFailures returns true if any job on the page failed.
func (r *Report) HasFailures() bool {
	return r.Summary.HasFailures()
}
