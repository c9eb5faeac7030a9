package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DataSourceGoogleSheets = "gsheets"
	DataSourceCSV          = "csv"
	DataSourceXLSX         = "xlsx"
)

type Config struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// prometheus metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// redis (sessions, rate limiting)
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres (refresh log), optional
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// workout data source
	DataSource          string `toml:"data_source"`
	SpreadsheetID       string `toml:"spreadsheet_id"`
	SpreadsheetName     string `toml:"spreadsheet_name"`
	Worksheet           string `toml:"worksheet"`
	SheetHeaderRow      int    `toml:"sheet_header_row"`
	GoogleCredentials   string `toml:"google_credentials"`
	LocalExportPath     string `toml:"local_export_path"`
	StrictCoercion      bool   `toml:"strict_coercion"`
	CompareDefaultCount int    `toml:"compare_default_count"`

	AllowedOrigins []string `toml:"allowed_origins"`
	// login/logout attempts per minute, per client
	LoginRateLimit int `toml:"login_rate_limit"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env %s not found", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path, picks the section for env and fills in defaults.
func Load(env, path string) (*Config, error) {
	tomlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var t Toml
	if _, err := toml.Decode(string(tomlBytes), &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.DataSource == "" {
		c.DataSource = DataSourceGoogleSheets
	}
	if c.Worksheet == "" {
		c.Worksheet = "DATA"
	}
	if c.SheetHeaderRow == 0 {
		c.SheetHeaderRow = 2
	}
	if c.CompareDefaultCount == 0 {
		c.CompareDefaultCount = 3
	}
	if c.LoginRateLimit == 0 {
		c.LoginRateLimit = 10
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
}

func (c *Config) Validate() error {
	switch c.DataSource {
	case DataSourceGoogleSheets:
		if c.SpreadsheetID == "" && c.SpreadsheetName == "" {
			return fmt.Errorf("data source %s needs spreadsheet_id or spreadsheet_name", c.DataSource)
		}
	case DataSourceCSV, DataSourceXLSX:
		if c.LocalExportPath == "" {
			return fmt.Errorf("data source %s needs local_export_path", c.DataSource)
		}
	default:
		return fmt.Errorf("unknown data source: %s", c.DataSource)
	}
	if c.SheetHeaderRow < 1 {
		return fmt.Errorf("sheet_header_row must be >= 1, got %d", c.SheetHeaderRow)
	}
	return nil
}

func (c *Config) PostgresEnabled() bool {
	return c.PostgresHost != ""
}
