package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/etlwatch/internal/logging"
	"github.com/ccollicutt/etlwatch/pkg/backend"
	"github.com/ccollicutt/etlwatch/pkg/config"
	"github.com/ccollicutt/etlwatch/pkg/joblog"
	"github.com/ccollicutt/etlwatch/pkg/timestamp"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	BackendURL string
	Timezone   string
	LogLevel   string
	LogFormat  string

	logger *zap.Logger
}

// LoadConfig resolves the configuration from the config file (when given),
// the environment and the persistent flags.
func (g *GlobalOptions) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Resolve(ctx, g.ConfigPath, config.Overrides{
		BackendURL: g.BackendURL,
		Timezone:   g.Timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Logger returns the diagnostic logger, building it on first use.
func (g *GlobalOptions) Logger() *zap.Logger {
	if g.logger != nil {
		return g.logger
	}
	logger, err := logging.New(g.LogLevel, g.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging disabled\n", err)
		logger = zap.NewNop()
	}
	g.logger = logger
	return logger
}

// Location returns the timezone used to read zoneless timestamps without
// requiring a backend: the --timezone flag, then ETLWATCH_TIMEZONE, then the
// config file, then the local zone.
func (g *GlobalOptions) Location(ctx context.Context) (*time.Location, error) {
	tz := g.Timezone
	if tz == "" {
		tz = os.Getenv(config.EnvTimezone)
	}
	if tz == "" && g.ConfigPath != "" {
		cfg, err := g.LoadConfig(ctx)
		if err != nil {
			return nil, err
		}
		return cfg.Location(), nil
	}
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return loc, nil
}

func newBackendClient(cfg *config.Config) *backend.Client {
	return backend.NewClient(cfg.Backend.URL,
		backend.WithToken(cfg.Backend.Token),
		backend.WithTimeout(cfg.Backend.Timeout),
	)
}

func newNormalizer(cfg *config.Config) *timestamp.Normalizer {
	return timestamp.New(timestamp.WithLocation(cfg.Location()))
}

// openJobLog opens the configured job-log cache. The caller closes the store.
func openJobLog(cfg *config.Config) (*joblog.Log, joblog.Store, error) {
	store, err := joblog.Open(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("opening job log: %w", err)
	}
	return joblog.NewLog(store, joblog.WithMaxEntries(cfg.Cache.MaxEntries)), store, nil
}

// validateDates checks that every non-empty value is a YYYY-MM-DD day.
func validateDates(dates ...string) error {
	for _, d := range dates {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", d)
		}
	}
	return nil
}

func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
