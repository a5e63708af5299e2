package benchfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Default engine parameters, overridable per run.
var (
	DefaultReferenceSymbol = "NIFTYBEES"
	DefaultBenchmarkSymbol = "MONIFTY500"
	DefaultPeriod          = "1yr"
	DefaultFilter          = "price"
	DefaultMonths          = 6

	// DefaultIndexSymbols are always fetched alongside ledger symbols.
	DefaultIndexSymbols = []string{"NIFTYBEES", "MONIFTY500", "GOLDIETF", "MON100"}
)

// AIConfig selects and configures the text-generation provider for
// insight generation.
type AIConfig struct {
	Provider string // "gemini", "claude" or "openai"
	Model    string
	APIKey   string
}

// Options controls Core initialization.
type Options struct {
	DBPath       string
	Logger       *slog.Logger
	PriceBaseURL string
	PriceAPIKey  string
	HTTPTimeout  time.Duration
	MaxParallel  int
	HTTPClient   HTTPDoer // Optional: inject custom client for testing
	Defaults     ReportParams
	AI           AIConfig
}

// Core provides access to the valuation engine and report storage.
type Core struct {
	db       *sql.DB
	logger   *slog.Logger
	prices   *priceClient
	defaults ReportParams
	ai       AIConfig
	dbPath   string
}

// Open initializes a Core using the provided database path.
func Open(dbPath string) (*Core, error) {
	return OpenWithOptions(Options{DBPath: dbPath})
}

// OpenWithOptions initializes a Core using the provided options.
func OpenWithOptions(opts Options) (*Core, error) {
	if opts.DBPath == "" {
		return nil, errors.New("db path is required")
	}
	cleanPath := filepath.Clean(opts.DBPath)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("pragma busy_timeout failed", "err", err)
	}

	if err := initDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	pc := newPriceClient(priceClientOptions{
		Logger:      logger,
		BaseURL:     opts.PriceBaseURL,
		APIKey:      opts.PriceAPIKey,
		HTTPTimeout: defaultDuration(opts.HTTPTimeout, 15*time.Second),
		MaxParallel: opts.MaxParallel,
		HTTPClient:  opts.HTTPClient,
	})

	return &Core{
		db:       db,
		logger:   logger,
		prices:   pc,
		defaults: normalizeParams(opts.Defaults),
		ai:       opts.AI,
		dbPath:   cleanPath,
	}, nil
}

// Close releases database resources.
func (c *Core) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DBPath returns the underlying database path.
func (c *Core) DBPath() string {
	return c.dbPath
}

// normalizeParams fills zero-valued fields with package defaults.
func normalizeParams(p ReportParams) ReportParams {
	if p.ReferenceSymbol == "" {
		p.ReferenceSymbol = DefaultReferenceSymbol
	}
	if p.BenchmarkSymbol == "" {
		p.BenchmarkSymbol = DefaultBenchmarkSymbol
	}
	if p.Period == "" {
		p.Period = DefaultPeriod
	}
	if p.Filter == "" {
		p.Filter = DefaultFilter
	}
	if p.Months <= 0 {
		p.Months = DefaultMonths
	}
	if len(p.IndexSymbols) == 0 {
		p.IndexSymbols = append([]string(nil), DefaultIndexSymbols...)
	}
	return p
}

// mergeParams overlays per-run overrides on the Core defaults.
func (c *Core) mergeParams(override ReportParams) ReportParams {
	merged := c.defaults
	if override.ReferenceSymbol != "" {
		merged.ReferenceSymbol = override.ReferenceSymbol
	}
	if override.BenchmarkSymbol != "" {
		merged.BenchmarkSymbol = override.BenchmarkSymbol
	}
	if override.Period != "" {
		merged.Period = override.Period
	}
	if override.Filter != "" {
		merged.Filter = override.Filter
	}
	if override.Months > 0 {
		merged.Months = override.Months
	}
	if len(override.IndexSymbols) > 0 {
		merged.IndexSymbols = append([]string(nil), override.IndexSymbols...)
	}
	if override.AsOf != "" {
		merged.AsOf = override.AsOf
	}
	return merged
}

func defaultDuration(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
