package model

import "time"

// Config is the complete runtime configuration.
// Values are layered: CLI flags > OBITUARY_* env > config file > DefaultConfig.
type Config struct {
	Geocoder    GeocoderConfig    `yaml:"geocoder" mapstructure:"geocoder"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// GeocoderConfig controls birth-place enrichment
type GeocoderConfig struct {
	Enabled           bool          `yaml:"enabled" mapstructure:"enabled"`
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig selects the geocode cache backend
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend  string        `yaml:"backend" mapstructure:"backend"` // memory, disk, layered, redis
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	RedisURL string        `yaml:"redis_url" mapstructure:"redis_url"`
}

// HTTPConfig controls fetching obituaries from URLs
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per-host fetch rate
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // json or yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// DefaultUserAgent identifies the tool to remote services
const DefaultUserAgent = "obituary-parser/0.3 (+https://github.com/nigelhorne/Genealogy-Obituary-Parser)"

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Geocoder: GeocoderConfig{
			Enabled:           false,
			BaseURL:           "https://nominatim.openstreetmap.org",
			UserAgent:         DefaultUserAgent,
			Timeout:           10 * time.Second,
			RequestsPerSecond: 1, // Nominatim usage policy
			Burst:             1,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     30 * 24 * time.Hour,
			Dir:     ".obituary-cache",
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     DefaultUserAgent,
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
