package configloader

import (
	"fmt"
	"os"
	"strings"
	"time"

	"balance_dashboard/internal/domain/entity"
	"balance_dashboard/internal/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceBinance = "binance"
	SourceStatic  = "static"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int      `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int      `yaml:"idleTimeoutSeconds"`
	AllowedOrigins      []string `yaml:"allowedOrigins"`
	Pprof               bool     `yaml:"pprof"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// SourceConfig selects where GET /api/balances/ reads from.
type SourceConfig struct {
	Kind            string                 `yaml:"kind"`
	CacheTTLSeconds int                    `yaml:"cacheTTLSeconds"`
	Static          []entity.BalanceRecord `yaml:"static"`
}

// BinanceConfig holds Binance API specific configurations.
type BinanceConfig struct {
	APIKey            string  `yaml:"apiKey"`
	APISecret         string  `yaml:"apiSecret"`
	BaseURL           string  `yaml:"baseURL"`
	Testnet           bool    `yaml:"testnet"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
	HideZeroBalances  *bool   `yaml:"hideZeroBalances"`
}

// RedisConfig holds the optional snapshot store connection.
type RedisConfig struct {
	Enabled            bool   `yaml:"enabled"`
	Addr               string `yaml:"addr"`
	Password           string `yaml:"password"`
	DB                 int    `yaml:"db"`
	SnapshotTTLMinutes int    `yaml:"snapshotTTLMinutes"`
}

// DashboardConfig configures the balances table poller.
type DashboardConfig struct {
	// BalancesBaseURL is where the table fetches /api/balances/ from. Empty means this server.
	BalancesBaseURL       string `yaml:"balancesBaseURL"`
	RefreshIntervalMillis int64  `yaml:"refreshIntervalMillis"`
	RequestTimeoutMillis  int64  `yaml:"requestTimeoutMillis"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Source    SourceConfig    `yaml:"source"`
	Binance   BinanceConfig   `yaml:"binance"`
	Redis     RedisConfig     `yaml:"redis"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// Load reads the YAML configuration file from the given path, applies
// environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Binance.APIKey = utils.GetEnv("BINANCE_TESTNET_API_KEY", cfg.Binance.APIKey)
	cfg.Binance.APISecret = utils.GetEnv("BINANCE_TESTNET_API_SECRET", cfg.Binance.APISecret)
	cfg.Binance.BaseURL = utils.GetEnv("TESTNET_BASE_URL", cfg.Binance.BaseURL)
	cfg.Redis.Addr = utils.GetEnv("REDIS_ADDR", cfg.Redis.Addr)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	cfg.Server.Port = strings.TrimPrefix(cfg.Server.Port, ":")
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 15
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 120
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourceBinance
	}
	cfg.Source.Kind = strings.ToLower(cfg.Source.Kind)
	if cfg.Source.CacheTTLSeconds <= 0 {
		cfg.Source.CacheTTLSeconds = 30
	}

	if cfg.Binance.RequestsPerSecond <= 0 {
		cfg.Binance.RequestsPerSecond = 1
	}
	if cfg.Binance.Burst <= 0 {
		cfg.Binance.Burst = 1
	}
	if cfg.Binance.HideZeroBalances == nil {
		hide := true
		cfg.Binance.HideZeroBalances = &hide
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.SnapshotTTLMinutes <= 0 {
		cfg.Redis.SnapshotTTLMinutes = 24 * 60
	}

	if cfg.Dashboard.RefreshIntervalMillis <= 0 {
		cfg.Dashboard.RefreshIntervalMillis = 300000
	}
	if cfg.Dashboard.RequestTimeoutMillis <= 0 {
		cfg.Dashboard.RequestTimeoutMillis = 10000
	}
	if cfg.Dashboard.BalancesBaseURL == "" {
		cfg.Dashboard.BalancesBaseURL = "http://127.0.0.1:" + cfg.Server.Port
	}
}

// Validate reports configuration that cannot be served.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceBinance:
		if c.Binance.APIKey == "" || c.Binance.APISecret == "" {
			return fmt.Errorf("binance source requires apiKey and apiSecret (or BINANCE_TESTNET_API_KEY / BINANCE_TESTNET_API_SECRET)")
		}
	case SourceStatic:
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}

	seen := make(map[string]struct{}, len(c.Source.Static))
	for _, r := range c.Source.Static {
		if r.Asset == "" {
			return fmt.Errorf("static balance without asset")
		}
		if _, dup := seen[r.Asset]; dup {
			return fmt.Errorf("duplicate static balance for asset %s", r.Asset)
		}
		seen[r.Asset] = struct{}{}
		if r.Free.IsNegative() || r.Locked.IsNegative() {
			return fmt.Errorf("static balance %s has a negative amount", r.Asset)
		}
	}
	return nil
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Dashboard.RefreshIntervalMillis) * time.Millisecond
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Dashboard.RequestTimeoutMillis) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Source.CacheTTLSeconds) * time.Second
}

func (c *Config) SnapshotTTL() time.Duration {
	return time.Duration(c.Redis.SnapshotTTLMinutes) * time.Minute
}
