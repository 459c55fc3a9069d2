package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Number is a numeric aggregate that the backend sends as a JSON number, a
// decimal string or null.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON accepts 12, 12.5, "12.5" and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	text := string(data)
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			*n = Number{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

// MarshalJSON writes the value as a JSON number, or null when not valid.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

func (n Number) String() string {
	if !n.Valid {
		return "-"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// DateRange limits an aggregate to whole days. Dates are YYYY-MM-DD and
// either end may be empty.
type DateRange struct {
	StartDate string
	EndDate   string
}

func (r DateRange) values() url.Values {
	params := url.Values{}
	setString(params, "start_date", r.StartDate)
	setString(params, "end_date", r.EndDate)
	return params
}

// NamedCount is one bar of the top-events chart.
type NamedCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// BoosterStat is booster usage and coins spent on it.
type BoosterStat struct {
	Name       string `json:"name"`
	UsageCount int64  `json:"usage_count"`
	TotalSpent int64  `json:"total_spent"`
}

// DashboardCards are the headline numbers of the overview.
type DashboardCards struct {
	Revenue     int64 `json:"revenue"`
	ActiveUsers int64 `json:"active_users"`
	TotalEvents int64 `json:"total_events"`
}

// Dashboard is the KPI overview the backend computes for one app.
type Dashboard struct {
	Cards        DashboardCards `json:"cards"`
	TopEvents    []NamedCount   `json:"chart_main"`
	BoosterUsage []BoosterStat  `json:"booster_chart"`
}

// LevelQuery selects the detail view for one level.
type LevelQuery struct {
	LevelID string
	DateRange
}

// LevelMetrics are the headline numbers for one level. WinRate is a
// percentage; it and ARPU are not valid when there is no data.
type LevelMetrics struct {
	TotalPlays int64  `json:"total_plays"`
	WinRate    Number `json:"win_rate"`
	ARPU       Number `json:"arpu"`
	TopItem    string `json:"top_item"`
}

// FunnelStep counts one event type within a level.
type FunnelStep struct {
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
	Revenue   Number `json:"revenue"`
}

// LevelEvent is one recent event of a level. Time is the backend's
// "HH:MM:SS DD/MM" rendering and carries no year.
type LevelEvent struct {
	Time      string `json:"time"`
	UserID    string `json:"user_id"`
	EventName string `json:"event_name"`
	ItemName  string `json:"item_name"`
	CoinSpent Number `json:"coin_spent"`
}

// LevelDetail is the per-level drill-down.
type LevelDetail struct {
	LevelID string       `json:"level_id"`
	Metrics LevelMetrics `json:"metrics"`
	Funnel  []FunnelStep `json:"funnel"`
	Logs    []LevelEvent `json:"logs"`
}

// LevelEvents names the events that mark a level start, win and fail.
type LevelEvents struct {
	LevelStart string `json:"level_start" yaml:"level_start"`
	LevelWin   string `json:"level_win" yaml:"level_win"`
	LevelFail  string `json:"level_fail" yaml:"level_fail"`
}

// Booster maps a booster purchase event to a display name and coin cost.
type Booster struct {
	EventName   string `json:"event_name" yaml:"event_name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	CoinCost    int64  `json:"coin_cost" yaml:"coin_cost"`
}

// AnalyticsConfig tells the backend how to read an app's raw events.
type AnalyticsConfig struct {
	Events   LevelEvents `json:"events" yaml:"events"`
	Boosters []Booster   `json:"boosters" yaml:"boosters"`
}

// envelope is the success flag and error the aggregate endpoints wrap their payload in.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

func (e envelope) err() error {
	if e.Success == nil || *e.Success {
		return nil
	}
	msg := e.Error
	if msg == "" {
		msg = e.Msg
	}
	if msg == "" {
		return ErrUnsuccessful
	}
	return fmt.Errorf("%w: %s", ErrUnsuccessful, msg)
}

// Dashboard fetches the KPI overview for an app (the backend's numeric row id).
func (c *Client) Dashboard(ctx context.Context, appID int64, r DateRange) (*Dashboard, error) {
	var resp struct {
		envelope
		Overview Dashboard `json:"overview"`
	}
	if err := c.do(ctx, http.MethodGet, "/dashboard/"+strconv.FormatInt(appID, 10), r.values(), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching dashboard for app %d: %w", appID, err)
	}
	if err := resp.err(); err != nil {
		return nil, fmt.Errorf("fetching dashboard for app %d: %w", appID, err)
	}

	d := resp.Overview
	if d.TopEvents == nil {
		d.TopEvents = []NamedCount{}
	}
	if d.BoosterUsage == nil {
		d.BoosterUsage = []BoosterStat{}
	}
	return &d, nil
}

// LevelDetail fetches the drill-down for one level of an app.
func (c *Client) LevelDetail(ctx context.Context, appID int64, q LevelQuery) (*LevelDetail, error) {
	if strings.TrimSpace(q.LevelID) == "" {
		return nil, errors.New("fetching level detail: level id is required")
	}

	params := q.DateRange.values()
	params.Set("level_id", q.LevelID)

	var resp struct {
		envelope
		LevelDetail
	}
	path := "/dashboard/" + strconv.FormatInt(appID, 10) + "/level-detail"
	if err := c.do(ctx, http.MethodGet, path, params, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching level %s for app %d: %w", q.LevelID, appID, err)
	}
	if err := resp.err(); err != nil {
		return nil, fmt.Errorf("fetching level %s for app %d: %w", q.LevelID, appID, err)
	}

	d := resp.LevelDetail
	if d.Funnel == nil {
		d.Funnel = []FunnelStep{}
	}
	if d.Logs == nil {
		d.Logs = []LevelEvent{}
	}
	return &d, nil
}

// AnalyticsConfig fetches the level events and booster catalog of an app.
// An app that was never configured returns empty event names and no boosters.
func (c *Client) AnalyticsConfig(ctx context.Context, appID int64) (*AnalyticsConfig, error) {
	var resp struct {
		envelope
		AnalyticsConfig
	}
	path := "/apps/" + strconv.FormatInt(appID, 10) + "/analytics-config"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching analytics config for app %d: %w", appID, err)
	}
	if err := resp.err(); err != nil {
		return nil, fmt.Errorf("fetching analytics config for app %d: %w", appID, err)
	}

	cfg := resp.AnalyticsConfig
	if cfg.Boosters == nil {
		cfg.Boosters = []Booster{}
	}
	return &cfg, nil
}

// SaveAnalyticsConfig replaces the level events and the whole booster catalog of an app.
func (c *Client) SaveAnalyticsConfig(ctx context.Context, appID int64, cfg AnalyticsConfig) error {
	if cfg.Boosters == nil {
		cfg.Boosters = []Booster{}
	}

	var resp envelope
	path := "/apps/" + strconv.FormatInt(appID, 10) + "/analytics-config"
	if err := c.do(ctx, http.MethodPost, path, nil, cfg, &resp); err != nil {
		return fmt.Errorf("saving analytics config for app %d: %w", appID, err)
	}
	if err := resp.err(); err != nil {
		return fmt.Errorf("saving analytics config for app %d: %w", appID, err)
	}
	return nil
}
