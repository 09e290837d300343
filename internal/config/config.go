package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Admin       AdminConfig       `yaml:"admin"`
	Event       EventConfig       `yaml:"event"`
	Store       StoreConfig       `yaml:"store"`
	Redis       RedisConfig       `yaml:"redis"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Forms       FormsConfig       `yaml:"forms"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// AdminConfig holds the shared admin secret. An empty token disables every
// admin operation.
type AdminConfig struct {
	Token string `yaml:"token"`
}

// EventConfig identifies the event participants join by default.
type EventConfig struct {
	CurrentID string `yaml:"current_id"`
}

// StoreConfig selects the collection storage backend.
type StoreConfig struct {
	Driver  string `yaml:"driver"`
	DataDir string `yaml:"data_dir"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	KeyPrefix    string        `yaml:"key_prefix"`
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConnections  int           `yaml:"max_connections"`
	MinConnections  int           `yaml:"min_connections"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// ConnectionString returns the PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslMode,
	)
}

// KafkaConfig holds the registration notification producer configuration
type KafkaConfig struct {
	Brokers       []string      `yaml:"brokers"`
	Topic         string        `yaml:"topic"`
	ClientID      string        `yaml:"client_id"`
	Enabled       bool          `yaml:"enabled"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	Timeout       time.Duration `yaml:"timeout"`
}

// RateLimitConfig limits public form submissions per client IP.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Burst             int           `yaml:"burst"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
}

// FormsConfig toggles optional participant fields into required ones.
type FormsConfig struct {
	RequireEmergencyContact bool `yaml:"require_emergency_contact"`
	RequirePhone            bool `yaml:"require_phone"`
}

// LeaderboardConfig holds leaderboard-specific configuration
type LeaderboardConfig struct {
	DefaultView string `yaml:"default_view"`
}

// LoadEnv loads .env.local and .env into the process environment. Values
// already set are kept and missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env.local", ".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets a handful of deployment settings come straight from the
// environment without a config file entry.
func (c *Config) applyEnv() {
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := os.Getenv("GYMWARS_DATA_DIR"); v != "" {
		c.Store.DataDir = v
	}
	if v := os.Getenv("GYMWARS_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	if c.Event.CurrentID == "" {
		c.Event.CurrentID = "gym-wars-2025"
	}

	// Store defaults
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = DriverFile
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "data"
	}

	// Redis defaults
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 2
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "gymwars:collection:"
	}

	// PostgreSQL defaults
	if c.Postgres.Host == "" {
		c.Postgres.Host = "localhost"
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.MaxConnections == 0 {
		c.Postgres.MaxConnections = 10
	}
	if c.Postgres.MinConnections == 0 {
		c.Postgres.MinConnections = 1
	}
	if c.Postgres.MaxConnLifetime == 0 {
		c.Postgres.MaxConnLifetime = 1 * time.Hour
	}
	if c.Postgres.MaxConnIdleTime == 0 {
		c.Postgres.MaxConnIdleTime = 30 * time.Minute
	}

	// Kafka defaults
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "gymwars-registrations"
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "gymwars-api"
	}
	if c.Kafka.RetryAttempts == 0 {
		c.Kafka.RetryAttempts = 3
	}
	if c.Kafka.RetryDelay == 0 {
		c.Kafka.RetryDelay = 250 * time.Millisecond
	}
	if c.Kafka.Timeout == 0 {
		c.Kafka.Timeout = 5 * time.Second
	}

	// Rate limit defaults
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 30
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.RateLimit.CleanupInterval == 0 {
		c.RateLimit.CleanupInterval = 10 * time.Minute
	}

	// Leaderboard defaults
	c.Leaderboard.DefaultView = strings.ToLower(strings.TrimSpace(c.Leaderboard.DefaultView))
	if c.Leaderboard.DefaultView == "" {
		c.Leaderboard.DefaultView = "public"
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverMemory, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Leaderboard.DefaultView {
	case "public", "admin":
	default:
		return fmt.Errorf("unknown leaderboard view %q", c.Leaderboard.DefaultView)
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return errors.New("kafka topic is required when kafka is enabled")
	}
	return nil
}

// DefaultConfig returns a configuration with all defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.RateLimit.Enabled = true
	return cfg
}
