package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Environment variables recognized by the server.
const (
	envDataDir     = "BENCHFOLIO_DATA_DIR"
	envDBPath      = "BENCHFOLIO_DB_PATH"
	envPriceAPIURL = "BENCHFOLIO_PRICE_API_URL"
	envPriceAPIKey = "BENCHFOLIO_PRICE_API_KEY"
	envAIProvider  = "BENCHFOLIO_AI_PROVIDER"
	envAIModel     = "BENCHFOLIO_AI_MODEL"
	envAIAPIKey    = "BENCHFOLIO_AI_API_KEY"
	envReference   = "BENCHFOLIO_REFERENCE_SYMBOL"
	envBenchmark   = "BENCHFOLIO_BENCHMARK_SYMBOL"
	envPeriod      = "BENCHFOLIO_PERIOD"
	envFilter      = "BENCHFOLIO_FILTER"
	envMonths      = "BENCHFOLIO_MONTHS"
)

const defaultDBName = "reports.db"

var runtimeDataDir string
var runtimePort = 8000

// SetRuntimeDataDir overrides the data directory for this process,
// taking precedence over environment and user config.
func SetRuntimeDataDir(dir string) {
	runtimeDataDir = dir
}

// SetRuntimePort records the port the server was started with.
func SetRuntimePort(port int) {
	if port > 0 {
		runtimePort = port
	}
}

// GetRuntimePort returns the configured server port.
func GetRuntimePort() int {
	return runtimePort
}

// UserConfig is the persisted user configuration file.
type UserConfig struct {
	DBName  string `json:"db_name"`
	DataDir string `json:"data_dir"`
}

func appConfigDir() (string, error) {
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "Benchfolio"), nil
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Benchfolio"), nil
		}
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", herr
		}
		return filepath.Join(home, ".config", "benchfolio"), nil
	}
	return filepath.Join(configDir, "benchfolio"), nil
}

func userConfigPath() (string, error) {
	dir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadUserConfig reads the user config file, falling back to defaults
// on any failure.
func LoadUserConfig() UserConfig {
	defaults := UserConfig{DBName: defaultDBName}
	path, err := userConfigPath()
	if err != nil {
		return defaults
	}
	file, err := os.Open(path)
	if err != nil {
		return defaults
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&defaults); err != nil {
		return UserConfig{DBName: defaultDBName}
	}
	if defaults.DBName == "" {
		defaults.DBName = defaultDBName
	}
	return defaults
}

// SaveUserConfig persists the user config file.
func SaveUserConfig(cfg UserConfig) error {
	path, err := userConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetDataDir resolves the data directory: runtime override, then
// environment, then user config, then the per-OS application dir.
// The directory is created if missing.
func GetDataDir() (string, error) {
	candidates := []string{runtimeDataDir, os.Getenv(envDataDir), LoadUserConfig().DataDir}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		return dir, nil
	}
	dir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDBPath resolves the sqlite database path.
func GetDBPath() (string, error) {
	if envPath := os.Getenv(envDBPath); envPath != "" {
		return envPath, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	name := LoadUserConfig().DBName
	if name == "" {
		name = defaultDBName
	}
	return filepath.Join(dataDir, name), nil
}

// Settings are the provider and engine settings read from the
// environment. Empty strings mean "use the engine default".
type Settings struct {
	PriceBaseURL    string
	PriceAPIKey     string
	AIProvider      string
	AIModel         string
	AIAPIKey        string
	ReferenceSymbol string
	BenchmarkSymbol string
	Period          string
	Filter          string
	Months          int
}

// FromEnv reads provider and engine settings from the environment.
func FromEnv() Settings {
	months := 0
	if raw := strings.TrimSpace(os.Getenv(envMonths)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			months = n
		}
	}
	return Settings{
		PriceBaseURL:    strings.TrimSpace(os.Getenv(envPriceAPIURL)),
		PriceAPIKey:     strings.TrimSpace(os.Getenv(envPriceAPIKey)),
		AIProvider:      strings.TrimSpace(os.Getenv(envAIProvider)),
		AIModel:         strings.TrimSpace(os.Getenv(envAIModel)),
		AIAPIKey:        strings.TrimSpace(os.Getenv(envAIAPIKey)),
		ReferenceSymbol: strings.TrimSpace(os.Getenv(envReference)),
		BenchmarkSymbol: strings.TrimSpace(os.Getenv(envBenchmark)),
		Period:          strings.TrimSpace(os.Getenv(envPeriod)),
		Filter:          strings.TrimSpace(os.Getenv(envFilter)),
		Months:          months,
	}
}
