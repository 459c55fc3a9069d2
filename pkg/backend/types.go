package backend

import "encoding/json"

// Job statuses reported by the backend.
const (
	StatusRunning    = "Running"
	StatusProcessing = "Processing"
	StatusSuccess    = "Success"
	StatusFailed     = "Failed"
	StatusCancelled  = "Cancelled"
)

// Run types accepted by RunETL.
const (
	RunTypeManual = "manual"
	RunTypeRetry  = "retry"
	RunTypeDemo   = "demo"
)

// JobRecord is one ETL run from the job history.
// StartTime and EndTime are raw backend strings; an empty EndTime means the
// job has not finished.
type JobRecord struct {
	ID           int64  `json:"id"`
	AppID        int64  `json:"app_id"`
	AppName      string `json:"app_name"`
	Status       string `json:"status"`
	RunType      string `json:"run_type"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	TotalEvents  int64  `json:"total_events"`
	SuccessCount int64  `json:"success_count"`
	ErrorCount   int64  `json:"error_count"`
	Logs         string `json:"logs,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

// Pagination is the paging block returned with list endpoints.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalRecords int `json:"total_records"`
	Limit        int `json:"limit,omitempty"`
}

// JobPage is one page of job history.
type JobPage struct {
	Data       []JobRecord `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// EventRecord is one raw analytics event.
type EventRecord struct {
	ID        int64           `json:"id"`
	AppID     int64           `json:"app_id,omitempty"`
	EventName string          `json:"event_name"`
	UserID    string          `json:"user_id,omitempty"`
	CreatedAt string          `json:"created_at"`
	KeyInfo   string          `json:"key_info,omitempty"`
	EventJSON json.RawMessage `json:"event_json,omitempty"`
}

// EventPage is one page of event search results.
type EventPage struct {
	Success    bool          `json:"success"`
	Data       []EventRecord `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// App is an application tracked by the backend. The API token is never decoded.
type App struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	AppID           string `json:"app_id"`
	IsActive        bool   `json:"is_active"`
	ScheduleTime    string `json:"schedule_time,omitempty"`
	IntervalMinutes int    `json:"interval_minutes,omitempty"`
}

// AppInput is the body of an app create or update. The backend replaces
// every field on update, so callers send the full record.
type AppInput struct {
	Name            string `json:"name"`
	AppID           string `json:"app_id"`
	APIToken        string `json:"api_token"`
	IsActive        bool   `json:"is_active"`
	ScheduleTime    string `json:"schedule_time,omitempty"`
	IntervalMinutes int    `json:"interval_minutes,omitempty"`
}

// HistoryQuery selects a page of job history. Zero values are omitted.
type HistoryQuery struct {
	AppID string
	Page  int
	Limit int
}

// EventQuery filters the event search. AppID is required; dates are YYYY-MM-DD.
type EventQuery struct {
	AppID     string
	Page      int
	Limit     int
	StartDate string
	EndDate   string
	EventName string
	Keyword   string
}

// RunRequest is the body of a run trigger.
type RunRequest struct {
	RunType    string `json:"run_type"`
	RetryJobID int64  `json:"retry_job_id,omitempty"`
}

// RunResult is the backend's answer to a run trigger.
type RunResult struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}
