package joblog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Key is the store key holding the job-log list.
const Key = "etlLogs"

// DefaultMaxEntries caps the list when no limit is configured.
const DefaultMaxEntries = 50

// ErrCorrupt reports a stored job log that cannot be decoded.
var ErrCorrupt = errors.New("corrupt job log")

// Entry is one summary line in the job log, newest first.
type Entry struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Rows     int64  `json:"rows"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
}

// Log is the job-log list kept in a Store.
type Log struct {
	store      Store
	maxEntries int
}

// LogOption configures a Log.
type LogOption func(*Log)

// WithMaxEntries caps the number of retained entries. Values <= 0 keep the default.
func WithMaxEntries(n int) LogOption {
	return func(l *Log) {
		if n > 0 {
			l.maxEntries = n
		}
	}
}

// NewLog creates a job log on top of store.
func NewLog(store Store, opts ...LogOption) *Log {
	l := &Log{store: store, maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewEntryID returns an identifier for an entry recorded locally.
func NewEntryID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ETL-" + strings.ToUpper(id[:8])
}

// Load returns the stored entries, newest first. A missing list is empty.
func (l *Log) Load(ctx context.Context) ([]Entry, error) {
	raw, ok, err := l.store.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("loading job log: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Record prepends e to the list and trims it to the configured size.
// An entry without an ID gets one from NewEntryID.
// A corrupt stored list is replaced rather than blocking new entries.
func (l *Log) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = NewEntryID()
	}

	entries, err := l.Load(ctx)
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return e, err
	}

	entries = append([]Entry{e}, entries...)
	if len(entries) > l.maxEntries {
		entries = entries[:l.maxEntries]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return e, fmt.Errorf("encoding job log: %w", err)
	}
	if err := l.store.Set(ctx, Key, string(data)); err != nil {
		return e, fmt.Errorf("saving job log: %w", err)
	}
	return e, nil
}

// Clear removes every entry.
func (l *Log) Clear(ctx context.Context) error {
	if err := l.store.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clearing job log: %w", err)
	}
	return nil
}
