package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported values for DB_TYPE.
const (
	DBTypePostgres = "postgres"
	DBTypeSupabase = "supa"
	DBTypeSQLite   = "sqlite"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DBType      string   `env:"DB_TYPE" envDefault:"sqlite"`
	DatabaseURL string   `env:"DATABASE_URL"`
	ReplicaDSNs []string `env:"DB_REPLICA_DSNS" envSeparator:","`
	SQLitePath  string   `env:"SQLITE_PATH" envDefault:"quickdialer.db"`
	AutoMigrate bool     `env:"AUTO_MIGRATE" envDefault:"true"`

	Supabase SupabaseConfig `envPrefix:"SUPABASE_DB_"`

	ReadTimeoutSeconds  int           `env:"READ_TIMEOUT_SECONDS" envDefault:"180"`
	WriteTimeoutSeconds int           `env:"WRITE_TIMEOUT_SECONDS" envDefault:"180"`
	IdleTimeoutSeconds  int           `env:"IDLE_TIMEOUT_SECONDS" envDefault:"180"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	AcceptedOrigins []string `env:"ACCEPTED_ORIGINS" envSeparator:","`
	MaxPageSize     int      `env:"MAX_PAGE_SIZE" envDefault:"100"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	LogFile   string `env:"LOG_FILE"`

	GenerateModels       bool `env:"GENERATE_MODELS"`
	GenerateColumnReport bool `env:"GENERATE_COLUMN_REPORT"`
}

// SupabaseConfig is the connection data for a hosted Supabase database.
type SupabaseConfig struct {
	Host     string `env:"HOST"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"`
	Port     string `env:"PORT" envDefault:"5432"`
}

// Load reads an optional .env file and parses the environment into a Config.
// A missing .env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.DBType = strings.ToLower(strings.TrimSpace(c.DBType))
	switch c.DBType {
	case DBTypePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_TYPE=postgres")
		}
	case DBTypeSupabase:
		if c.Supabase.Host == "" {
			return errors.New("SUPABASE_DB_HOST is required when DB_TYPE=supa")
		}
	case DBTypeSQLite:
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}
	return nil
}

// DSN returns the connection string for the configured database type.
func (c Config) DSN() string {
	switch c.DBType {
	case DBTypeSupabase:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			c.Supabase.Host,
			c.Supabase.User,
			c.Supabase.Password,
			c.Supabase.Name,
			c.Supabase.Port,
		)
	case DBTypeSQLite:
		return c.SQLitePath
	default:
		return c.DatabaseURL
	}
}

// Address is the listen address; binds all interfaces.
func (c Config) Address() string {
	return fmt.Sprintf("0.0.0.0:%s", c.Port)
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}
