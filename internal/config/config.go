package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "AGRO"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Sidra     SidraConfig     `yaml:"sidra" envconfig:"SIDRA"`
	Query     QueryConfig     `yaml:"query" envconfig:"QUERY"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"75s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"40"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/agrostats.log"`
}

// SidraConfig describes the remote statistics table and how it is queried.
type SidraConfig struct {
	BaseURL          string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://apisidra.ibge.gov.br"`
	Timeout          time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"60s"`
	UserAgent        string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"agrostats"`
	TableCode        string        `yaml:"table_code" envconfig:"TABLE_CODE" default:"1612"`
	TerritorialLevel string        `yaml:"territorial_level" envconfig:"TERRITORIAL_LEVEL" default:"6"`
	Region           string        `yaml:"region" envconfig:"REGION" default:"all"`
	Classification   string        `yaml:"classification" envconfig:"CLASSIFICATION" default:"81"`
	MaxAttempts      int           `yaml:"max_attempts" envconfig:"MAX_ATTEMPTS" default:"3"`
}

// QueryConfig bounds and defaults the parameters accepted from callers.
type QueryConfig struct {
	MinYear          int      `yaml:"min_year" envconfig:"MIN_YEAR" default:"2021"`
	MaxYear          int      `yaml:"max_year" envconfig:"MAX_YEAR" default:"2025"`
	AllowedVariables []string `yaml:"allowed_variables" envconfig:"ALLOWED_VARIABLES" default:"109,112,214,215,216"`
	DefaultVariables []string `yaml:"default_variables" envconfig:"DEFAULT_VARIABLES" default:"214"`
	DefaultYears     []string `yaml:"default_years" envconfig:"DEFAULT_YEARS" default:"last"`
}

// TelemetryConfig selects the trace and metric exporters.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"agrostats"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`

	// Sampling interval for Go runtime gauges; zero disables it.
	RuntimeInterval time.Duration `yaml:"runtime_interval" envconfig:"RUNTIME_INTERVAL" default:"15s"`
}

// MetricsEnabled reports whether pipeline metrics should be recorded.
func (t TelemetryConfig) MetricsEnabled() bool {
	return t.MetricExporter == "prometheus"
}

// TracingEnabled reports whether spans should be exported.
func (t TelemetryConfig) TracingEnabled() bool {
	return t.TraceExporter == "stdout"
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration from environment variables and the given YAML
// file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays the file config onto the env config. Values set
// explicitly in the environment win; otherwise a value present in the file
// replaces the envconfig default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	set := func(key string) bool {
		_, ok := os.LookupEnv(EnvPrefix + "_" + key)
		return ok
	}

	if fileConfig.Server.Port != 0 && !set("SERVER_PORT") {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Server.ReadTimeout != 0 && !set("SERVER_READ_TIMEOUT") {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if fileConfig.Server.WriteTimeout != 0 && !set("SERVER_WRITE_TIMEOUT") {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if fileConfig.Server.RequestTimeout != 0 && !set("SERVER_REQUEST_TIMEOUT") {
		envConfig.Server.RequestTimeout = fileConfig.Server.RequestTimeout
	}
	if len(fileConfig.Security.AllowedOrigins) > 0 && !set("SECURITY_ALLOWED_ORIGINS") {
		envConfig.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if fileConfig.Logging.Level != "" && !set("LOGGING_LEVEL") {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Output != "" && !set("LOGGING_OUTPUT") {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && !set("LOGGING_FILE_PATH") {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if fileConfig.Sidra.BaseURL != "" && !set("SIDRA_BASE_URL") {
		envConfig.Sidra.BaseURL = fileConfig.Sidra.BaseURL
	}
	if fileConfig.Sidra.Timeout != 0 && !set("SIDRA_TIMEOUT") {
		envConfig.Sidra.Timeout = fileConfig.Sidra.Timeout
	}
	if fileConfig.Sidra.MaxAttempts != 0 && !set("SIDRA_MAX_ATTEMPTS") {
		envConfig.Sidra.MaxAttempts = fileConfig.Sidra.MaxAttempts
	}
	if fileConfig.Query.MinYear != 0 && !set("QUERY_MIN_YEAR") {
		envConfig.Query.MinYear = fileConfig.Query.MinYear
	}
	if fileConfig.Query.MaxYear != 0 && !set("QUERY_MAX_YEAR") {
		envConfig.Query.MaxYear = fileConfig.Query.MaxYear
	}
	if len(fileConfig.Query.AllowedVariables) > 0 && !set("QUERY_ALLOWED_VARIABLES") {
		envConfig.Query.AllowedVariables = fileConfig.Query.AllowedVariables
	}
	if fileConfig.Telemetry.TraceExporter != "" && !set("TELEMETRY_TRACE_EXPORTER") {
		envConfig.Telemetry.TraceExporter = fileConfig.Telemetry.TraceExporter
	}
	if fileConfig.Telemetry.MetricExporter != "" && !set("TELEMETRY_METRIC_EXPORTER") {
		envConfig.Telemetry.MetricExporter = fileConfig.Telemetry.MetricExporter
	}
	if fileConfig.Telemetry.RuntimeInterval != 0 && !set("TELEMETRY_RUNTIME_INTERVAL") {
		envConfig.Telemetry.RuntimeInterval = fileConfig.Telemetry.RuntimeInterval
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if _, err := url.ParseRequestURI(c.Sidra.BaseURL); err != nil {
		return fmt.Errorf("invalid sidra base url %q: %w", c.Sidra.BaseURL, err)
	}

	if c.Sidra.MaxAttempts < 1 {
		return fmt.Errorf("sidra max attempts must be at least 1, got %d", c.Sidra.MaxAttempts)
	}

	if c.Query.MinYear > c.Query.MaxYear {
		return fmt.Errorf("query year range is empty: %d > %d", c.Query.MinYear, c.Query.MaxYear)
	}

	if len(c.Query.AllowedVariables) == 0 {
		return fmt.Errorf("at least one allowed variable must be specified")
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	c.Logging.Level = strings.ToLower(c.Logging.Level)

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  75 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/agrostats.log",
		},
		Sidra: SidraConfig{
			BaseURL:          DefaultSidraBaseURL,
			Timeout:          60 * time.Second,
			UserAgent:        AppName,
			TableCode:        ProductionTableCode,
			TerritorialLevel: MunicipalityLevel,
			Region:           AllRegions,
			Classification:   TemporaryCropsClassification,
			MaxAttempts:      DefaultMaxAttempts,
		},
		Query: QueryConfig{
			MinYear:          MinSupportedYear,
			MaxYear:          MaxSupportedYear,
			AllowedVariables: AllowedVariableCodes(),
			DefaultVariables: []string{VariableQuantityProduced},
			DefaultYears:     []string{LastPeriod},
		},
		Telemetry: TelemetryConfig{
			ServiceName:     AppName,
			Environment:     "development",
			TraceExporter:   "none",
			MetricExporter:  "prometheus",
			RuntimeInterval: 15 * time.Second,
		},
	}
}
