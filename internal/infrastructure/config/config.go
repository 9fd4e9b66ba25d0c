package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Sync        SyncConfig
	Couriers    CouriersConfig
	Credentials CredentialsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// SyncConfig holds shipment sync scheduler configuration
type SyncConfig struct {
	Enabled bool
	// Interval between scheduled sync passes
	Interval time.Duration
	// RunTimeout bounds a single sync pass end to end
	RunTimeout time.Duration
	// MaxErrors caps the error list carried in a sync summary
	MaxErrors int
}

// DelhiveryConfig holds the Delhivery integration settings. APIKey is the
// process-wide fallback used when a user has no stored credential.
type DelhiveryConfig struct {
	BaseURL        string
	APIKey         string
	Workers        int
	RequestTimeout time.Duration
}

// SelloshipConfig holds the Selloship integration settings. Username/Password
// are the process-wide fallback used when a user has no stored credential.
type SelloshipConfig struct {
	BaseURL        string
	Username       string
	Password       string
	BatchLimit     int
	TokenTTL       time.Duration
	RequestTimeout time.Duration
}

// CouriersConfig groups per-courier integration settings
type CouriersConfig struct {
	Delhivery DelhiveryConfig
	Selloship SelloshipConfig
}

// CredentialsConfig holds settings for stored credential encryption
type CredentialsConfig struct {
	// EncryptionKey is the hex-encoded 32-byte AEAD key for credential records
	EncryptionKey string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with OMNIA_ prefix (e.g., OMNIA_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("OMNIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
		},
		Sync: SyncConfig{
			Enabled:    v.GetBool("sync.enabled"),
			Interval:   v.GetDuration("sync.interval"),
			RunTimeout: v.GetDuration("sync.run_timeout"),
			MaxErrors:  v.GetInt("sync.max_errors"),
		},
		Couriers: CouriersConfig{
			Delhivery: DelhiveryConfig{
				BaseURL:        v.GetString("couriers.delhivery.base_url"),
				APIKey:         v.GetString("couriers.delhivery.api_key"),
				Workers:        v.GetInt("couriers.delhivery.workers"),
				RequestTimeout: v.GetDuration("couriers.delhivery.request_timeout"),
			},
			Selloship: SelloshipConfig{
				BaseURL:        v.GetString("couriers.selloship.base_url"),
				Username:       v.GetString("couriers.selloship.username"),
				Password:       v.GetString("couriers.selloship.password"),
				BatchLimit:     v.GetInt("couriers.selloship.batch_limit"),
				TokenTTL:       v.GetDuration("couriers.selloship.token_ttl"),
				RequestTimeout: v.GetDuration("couriers.selloship.request_timeout"),
			},
		},
		Credentials: CredentialsConfig{
			EncryptionKey: v.GetString("credentials.encryption_key"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "omnia-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "omnia"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = 30 * time.Minute
	}
	if cfg.Sync.RunTimeout == 0 {
		cfg.Sync.RunTimeout = 20 * time.Minute
	}
	if cfg.Sync.MaxErrors == 0 {
		cfg.Sync.MaxErrors = 100
	}
	if cfg.Couriers.Delhivery.BaseURL == "" {
		cfg.Couriers.Delhivery.BaseURL = "https://track.delhivery.com"
	}
	if cfg.Couriers.Delhivery.Workers == 0 {
		cfg.Couriers.Delhivery.Workers = 5
	}
	if cfg.Couriers.Delhivery.RequestTimeout == 0 {
		cfg.Couriers.Delhivery.RequestTimeout = 20 * time.Second
	}
	if cfg.Couriers.Selloship.BaseURL == "" {
		cfg.Couriers.Selloship.BaseURL = "https://app.selloship.com/api/lock_v1"
	}
	if cfg.Couriers.Selloship.BatchLimit == 0 {
		cfg.Couriers.Selloship.BatchLimit = 50
	}
	if cfg.Couriers.Selloship.TokenTTL == 0 {
		cfg.Couriers.Selloship.TokenTTL = 50 * time.Minute
	}
	if cfg.Couriers.Selloship.RequestTimeout == 0 {
		cfg.Couriers.Selloship.RequestTimeout = 30 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Sync.Interval < time.Minute {
		return fmt.Errorf("sync.interval must be at least 1 minute")
	}
	if c.Couriers.Selloship.BatchLimit > 50 {
		return fmt.Errorf("couriers.selloship.batch_limit cannot exceed the vendor limit of 50")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Credentials.EncryptionKey == "" {
			return fmt.Errorf("credentials.encryption_key is required in production")
		}
	}

	return nil
}

// DSN builds the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
