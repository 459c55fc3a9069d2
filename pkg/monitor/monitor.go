// Package monitor turns backend job records into dashboard rows.
package monitor

import (
	"strings"
	"time"

	"github.com/ccollicutt/etlwatch/pkg/backend"
	"github.com/ccollicutt/etlwatch/pkg/elapsed"
	"github.com/ccollicutt/etlwatch/pkg/timestamp"
)

// DisplayLayout renders started and finished times.
const DisplayLayout = "02/01/2006 15:04:05"

// Row is one rendered job.
type Row struct {
	ID       int64  `json:"id"`
	App      string `json:"app"`
	Status   string `json:"status"`
	RunType  string `json:"run_type,omitempty"`
	Started  string `json:"started"`
	Finished string `json:"finished"`
	Duration string `json:"duration"`
	Events   int64  `json:"events"`

	// Ongoing is set when the job has no finish time yet; Duration then
	// counts up to the render time.
	Ongoing bool `json:"ongoing"`

	// DataIssue flags a missing start or a timestamp that could not be
	// read. The raw text is shown in place of the formatted time.
	DataIssue bool `json:"data_issue"`
}

// Summary counts rows by outcome.
type Summary struct {
	Total      int `json:"total"`
	Running    int `json:"running"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
	DataIssues int `json:"data_issues"`
}

// Build renders records against a single render time. A nil normalizer
// uses the package default.
func Build(records []backend.JobRecord, now time.Time, n *timestamp.Normalizer) []Row {
	if n == nil {
		n = timestamp.New()
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, buildRow(rec, now, n))
	}
	return rows
}

func buildRow(rec backend.JobRecord, now time.Time, n *timestamp.Normalizer) Row {
	start := n.Normalize(rec.StartTime)
	end := n.Normalize(rec.EndTime)

	row := Row{
		ID:       rec.ID,
		App:      rec.AppName,
		Status:   rec.Status,
		RunType:  rec.RunType,
		Started:  start.Display(DisplayLayout),
		Finished: end.Display(DisplayLayout),
		Duration: elapsed.FormatInstants(start, end, now),
		Events:   rec.TotalEvents,
		Ongoing:  end.IsAbsent(),
	}

	if row.Started == "" {
		row.Started = elapsed.Placeholder
	}
	if end.IsAbsent() {
		row.Finished = elapsed.Placeholder
	}
	row.DataIssue = !start.IsValid() || end.IsUnparseable()

	return row
}

// Summarize counts rows by status. Statuses are matched case-insensitively.
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		switch strings.ToLower(r.Status) {
		case strings.ToLower(backend.StatusRunning), strings.ToLower(backend.StatusProcessing):
			s.Running++
		case strings.ToLower(backend.StatusSuccess):
			s.Succeeded++
		case strings.ToLower(backend.StatusFailed):
			s.Failed++
		case strings.ToLower(backend.StatusCancelled):
			s.Cancelled++
		}
		if r.DataIssue {
			s.DataIssues++
		}
	}
	return s
}

// HasFailures reports whether any job failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}
