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
)

const dashboardBody = `{
  "success": true,
  "overview": {
    "cards": {"revenue": 4500, "active_users": 120, "total_events": 9800},
    "chart_main": [{"name": "level_start", "value": 4000}, {"name": "level_win", "value": 2100}],
    "booster_chart": [{"name": "Hammer", "usage_count": 30, "total_spent": 3000}]
  }
}`

const levelBody = `{
  "success": true,
  "level_id": "5",
  "filter": {"start": "2024-03-01", "end": null},
  "metrics": {"total_plays": 210, "win_rate": 42.5, "arpu": null, "top_item": "Hammer"},
  "funnel": [{"event_type": "START", "count": 210, "revenue": "1500"},
             {"event_type": "WIN", "count": 80, "revenue": null}],
  "logs": [{"time": "09:15:02 05/03", "user_id": "u1", "event_name": "use_hammer",
            "item_name": "Hammer", "coin_spent": 100}]
}`

func TestClient_Dashboard(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(dashboardBody))
	}))
	defer server.Close()

	d, err := NewClient(server.URL).Dashboard(context.Background(), 3, DateRange{StartDate: "2024-03-01", EndDate: "2024-03-05"})
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if gotPath != "/dashboard/3" {
		t.Errorf("path = %s", gotPath)
	}
	if gotQuery != "end_date=2024-03-05&start_date=2024-03-01" {
		t.Errorf("query = %q", gotQuery)
	}
	if d.Cards.Revenue != 4500 || d.Cards.ActiveUsers != 120 || d.Cards.TotalEvents != 9800 {
		t.Errorf("cards = %+v", d.Cards)
	}
	if len(d.TopEvents) != 2 || d.TopEvents[0].Name != "level_start" {
		t.Errorf("top events = %+v", d.TopEvents)
	}
	if len(d.BoosterUsage) != 1 || d.BoosterUsage[0].TotalSpent != 3000 {
		t.Errorf("boosters = %+v", d.BoosterUsage)
	}
}

func TestClient_Dashboard_Unsuccessful(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "DB Connection failed"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Dashboard(context.Background(), 3, DateRange{})
	if !errors.Is(err, ErrUnsuccessful) {
		t.Fatalf("error = %v, want ErrUnsuccessful", err)
	}
	if got := err.Error(); !strings.Contains(got, "DB Connection failed") {
		t.Errorf("error %q does not carry the backend message", got)
	}
}

func TestClient_LevelDetail(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/3/level-detail" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(levelBody))
	}))
	defer server.Close()

	d, err := NewClient(server.URL).LevelDetail(context.Background(), 3, LevelQuery{LevelID: "5"})
	if err != nil {
		t.Fatalf("LevelDetail() error = %v", err)
	}
	if gotQuery != "level_id=5" {
		t.Errorf("query = %q", gotQuery)
	}
	if d.LevelID != "5" || d.Metrics.TotalPlays != 210 || d.Metrics.TopItem != "Hammer" {
		t.Errorf("detail = %+v", d)
	}
	if !d.Metrics.WinRate.Valid || d.Metrics.WinRate.Value != 42.5 {
		t.Errorf("win rate = %+v", d.Metrics.WinRate)
	}
	if d.Metrics.ARPU.Valid {
		t.Errorf("null arpu decoded as %+v", d.Metrics.ARPU)
	}
	if len(d.Funnel) != 2 || d.Funnel[0].Revenue.String() != "1500" || d.Funnel[1].Revenue.String() != "-" {
		t.Errorf("funnel = %+v", d.Funnel)
	}
	if len(d.Logs) != 1 || d.Logs[0].CoinSpent.Value != 100 {
		t.Errorf("logs = %+v", d.Logs)
	}
}

func TestClient_LevelDetail_RequiresLevel(t *testing.T) {
	if _, err := NewClient("http://unused").LevelDetail(context.Background(), 3, LevelQuery{}); err == nil {
		t.Error("LevelDetail() expected error without level id")
	}
}

func TestClient_AnalyticsConfig(t *testing.T) {
	var saved AnalyticsConfig
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/apps/3/analytics-config" {
			http.NotFound(w, r)
			return
		}
		gotMethod = r.Method
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &saved)
			_, _ = w.Write([]byte(`{"success": true, "msg": "Configuration Saved Successfully"}`))
			return
		}
		_, _ = w.Write([]byte(`{"events": {"level_start": "level_start", "level_win": null, "level_fail": ""},
			"boosters": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	cfg, err := client.AnalyticsConfig(context.Background(), 3)
	if err != nil {
		t.Fatalf("AnalyticsConfig() error = %v", err)
	}
	if cfg.Events.LevelStart != "level_start" || cfg.Events.LevelWin != "" || cfg.Boosters == nil {
		t.Errorf("config = %+v", cfg)
	}

	cfg.Boosters = append(cfg.Boosters, Booster{EventName: "use_hammer", DisplayName: "Hammer", CoinCost: 100})
	if err := client.SaveAnalyticsConfig(context.Background(), 3, *cfg); err != nil {
		t.Fatalf("SaveAnalyticsConfig() error = %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if len(saved.Boosters) != 1 || saved.Boosters[0].CoinCost != 100 {
		t.Errorf("saved = %+v", saved)
	}
}

func TestClient_SaveAnalyticsConfig_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success": false, "error": "duplicate key"}`))
	}))
	defer server.Close()

	err := NewClient(server.URL).SaveAnalyticsConfig(context.Background(), 3, AnalyticsConfig{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "duplicate key" {
		t.Errorf("error = %v, want APIError with backend message", err)
	}
}

func TestClient_AppCRUD(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]any
	}
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &c.body)
		}
		calls = append(calls, c)
		_, _ = w.Write([]byte(`{"msg": "ok"}`))
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL)
	in := AppInput{Name: "Puzzle", AppID: "com.example.puzzle", APIToken: "tok", IsActive: true, ScheduleTime: "12:00", IntervalMinutes: 60}

	if err := client.CreateApp(ctx, in); err != nil {
		t.Fatalf("CreateApp() error = %v", err)
	}
	if err := client.UpdateApp(ctx, 4, in); err != nil {
		t.Fatalf("UpdateApp() error = %v", err)
	}
	if err := client.DeleteApp(ctx, 4); err != nil {
		t.Fatalf("DeleteApp() error = %v", err)
	}

	want := []struct{ method, path string }{
		{http.MethodPost, "/apps"},
		{http.MethodPut, "/apps/4"},
		{http.MethodDelete, "/apps/4"},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i, w := range want {
		if calls[i].method != w.method || calls[i].path != w.path {
			t.Errorf("call %d = %s %s, want %s %s", i, calls[i].method, calls[i].path, w.method, w.path)
		}
	}
	if calls[0].body["api_token"] != "tok" || calls[0].body["interval_minutes"] != float64(60) {
		t.Errorf("create body = %v", calls[0].body)
	}
}

func TestClient_AppInputValidation(t *testing.T) {
	client := NewClient("http://unused")
	if err := client.CreateApp(context.Background(), AppInput{AppID: "x"}); err == nil {
		t.Error("CreateApp() expected error without name")
	}
	if err := client.UpdateApp(context.Background(), 1, AppInput{Name: "x"}); err == nil {
		t.Error("UpdateApp() expected error without app id")
	}
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{`12`, "12", true},
		{`42.5`, "42.5", true},
		{`"1500"`, "1500", true},
		{`null`, "-", false},
		{`""`, "-", false},
	}

	for _, tt := range tests {
		var n Number
		if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.in, err)
			continue
		}
		if n.Valid != tt.valid || n.String() != tt.want {
			t.Errorf("Unmarshal(%s) = %+v (%s), want %s", tt.in, n, n, tt.want)
		}
	}

	var n Number
	if err := json.Unmarshal([]byte(`"abc"`), &n); err == nil {
		t.Error("Unmarshal(\"abc\") expected error")
	}
}
