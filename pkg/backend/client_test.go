package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const historyBody = `{
  "data": [
    {"id": 12, "app_id": 1, "app_name": "Puzzle", "status": "Success", "run_type": "manual",
     "start_time": "05/03/2024 09:00:00", "end_time": "05/03/2024 10:02:30", "total_events": 1500},
    {"id": 13, "app_id": 1, "app_name": "Puzzle", "status": "Running", "run_type": "schedule",
     "start_time": "05/03/2024 11:00:00", "end_time": null}
  ],
  "pagination": {"current_page": 2, "total_pages": 4, "total_records": 95}
}`

func TestClient_JobHistory(t *testing.T) {
	var gotPath, gotQuery, gotAgent, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(historyBody))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", WithToken("secret"))
	page, err := client.JobHistory(context.Background(), HistoryQuery{AppID: "1", Page: 2, Limit: 30})
	if err != nil {
		t.Fatalf("JobHistory() error = %v", err)
	}

	if gotPath != "/monitor/history" {
		t.Errorf("path = %q, want /monitor/history", gotPath)
	}
	if gotQuery != "app_id=1&limit=30&page=2" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAgent != "etlwatch" {
		t.Errorf("User-Agent = %q, want etlwatch", gotAgent)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}

	if len(page.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(page.Data))
	}
	if page.Data[0].StartTime != "05/03/2024 09:00:00" {
		t.Errorf("StartTime = %q, want raw backend string", page.Data[0].StartTime)
	}
	if page.Data[1].EndTime != "" {
		t.Errorf("EndTime = %q, want empty for null", page.Data[1].EndTime)
	}
	if page.Pagination.TotalRecords != 95 || page.Pagination.CurrentPage != 2 {
		t.Errorf("Pagination = %+v", page.Pagination)
	}
}

func TestClient_JobHistory_OmitsEmptyQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data": null, "pagination": {}}`))
	}))
	defer server.Close()

	page, err := NewClient(server.URL).JobHistory(context.Background(), HistoryQuery{})
	if err != nil {
		t.Fatalf("JobHistory() error = %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want empty", gotQuery)
	}
	if page.Data == nil {
		t.Error("Data is nil, want empty slice")
	}
}

func TestClient_Mutations(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
	}{
		{
			name:       "delete history",
			call:       func(c *Client) error { return c.DeleteHistory(context.Background(), 7) },
			wantMethod: http.MethodDelete,
			wantPath:   "/monitor/history/7",
		},
		{
			name:       "purge",
			call:       func(c *Client) error { return c.PurgeHistory(context.Background()) },
			wantMethod: http.MethodDelete,
			wantPath:   "/monitor/purge",
		},
		{
			name:       "stop",
			call:       func(c *Client) error { return c.StopJob(context.Background(), 42) },
			wantMethod: http.MethodPost,
			wantPath:   "/etl/stop/42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				_, _ = w.Write([]byte(`{"success": true, "msg": "ok"}`))
			}))
			defer server.Close()

			if err := tt.call(NewClient(server.URL)); err != nil {
				t.Fatalf("call error = %v", err)
			}
			if gotMethod != tt.wantMethod {
				t.Errorf("method = %s, want %s", gotMethod, tt.wantMethod)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %s, want %s", gotPath, tt.wantPath)
			}
		})
	}
}

func TestClient_RunETL(t *testing.T) {
	var got RunRequest
	var gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/etl/run/3" {
			t.Errorf("path = %s, want /etl/run/3", r.URL.Path)
		}
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"status": "started", "mode": "retry"}`))
	}))
	defer server.Close()

	result, err := NewClient(server.URL).RunETL(context.Background(), 3, RunRequest{RunType: RunTypeRetry, RetryJobID: 9})
	if err != nil {
		t.Fatalf("RunETL() error = %v", err)
	}
	if got.RunType != RunTypeRetry || got.RetryJobID != 9 {
		t.Errorf("request body = %+v", got)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if result.Status != "started" || result.Mode != "retry" {
		t.Errorf("result = %+v", result)
	}
}

func TestClient_RunETL_DefaultsToManual(t *testing.T) {
	var got RunRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"status": "started", "mode": "manual"}`))
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).RunETL(context.Background(), 1, RunRequest{}); err != nil {
		t.Fatalf("RunETL() error = %v", err)
	}
	if got.RunType != RunTypeManual {
		t.Errorf("run_type = %q, want manual", got.RunType)
	}
}

func TestClient_RunETL_Busy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status": "error", "message": "System is busy processing another job."}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).RunETL(context.Background(), 1, RunRequest{})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("RunETL() error = %v, want ErrBusy", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *APIError", err)
	}
	if apiErr.Message != "System is busy processing another job." {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestClient_Apps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Puzzle", "app_id": "com.example.puzzle", "api_token": "hidden",
			 "is_active": true, "schedule_time": "12:00", "interval_minutes": 60}
		]`))
	}))
	defer server.Close()

	apps, err := NewClient(server.URL).Apps(context.Background())
	if err != nil {
		t.Fatalf("Apps() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("len(apps) = %d, want 1", len(apps))
	}
	if apps[0].AppID != "com.example.puzzle" || !apps[0].IsActive || apps[0].IntervalMinutes != 60 {
		t.Errorf("app = %+v", apps[0])
	}

	encoded, _ := json.Marshal(apps[0])
	if strings.Contains(string(encoded), "hidden") {
		t.Error("api token leaked into encoded app")
	}
}

func TestClient_SearchEvents(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [{"id": 5, "event_name": "level_start", "created_at": "2024-03-05 09:00:00",
			          "key_info": "Lv.3", "event_json": {"levelID": 3}}],
			"pagination": {"current_page": 1, "total_pages": 1, "total_records": 1, "limit": 20}
		}`))
	}))
	defer server.Close()

	page, err := NewClient(server.URL).SearchEvents(context.Background(), EventQuery{
		AppID:     "1",
		StartDate: "2024-03-01",
		EventName: "level_start",
	})
	if err != nil {
		t.Fatalf("SearchEvents() error = %v", err)
	}
	if gotQuery != "app_id=1&event_name=level_start&start_date=2024-03-01" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(page.Data) != 1 || page.Data[0].KeyInfo != "Lv.3" {
		t.Errorf("data = %+v", page.Data)
	}
	if string(page.Data[0].EventJSON) != `{"levelID": 3}` {
		t.Errorf("EventJSON = %s", page.Data[0].EventJSON)
	}
}

func TestClient_SearchEvents_RequiresApp(t *testing.T) {
	if _, err := NewClient("http://unused").SearchEvents(context.Background(), EventQuery{}); err == nil {
		t.Error("SearchEvents() expected error without app id")
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantMissing bool
	}{
		{"error field", http.StatusInternalServerError, `{"success": false, "error": "db down"}`, "db down", false},
		{"msg field", http.StatusBadRequest, `{"msg": "bad input"}`, "bad input", false},
		{"plain text", http.StatusBadGateway, "upstream failure", "upstream failure", false},
		{"not found", http.StatusNotFound, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).DeleteHistory(context.Background(), 1)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %v is not an *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if got := errors.Is(err, ErrNotFound); got != tt.wantMissing {
				t.Errorf("errors.Is(err, ErrNotFound) = %v, want %v", got, tt.wantMissing)
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	err := NewClient(server.URL, WithTimeout(20*time.Millisecond)).PurgeHistory(context.Background())
	if err == nil {
		t.Error("PurgeHistory() expected timeout error")
	}
}

func TestClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).Apps(context.Background()); err == nil {
		t.Error("Apps() expected decode error")
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if _, err := NewClient(url).Apps(context.Background()); err == nil {
		t.Error("Apps() expected connection error")
	}
}
