// Package config loads service configuration from a YAML or TOML file and
// ITAM_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/infrastructure/logging"
)

// Config is the complete service configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" toml:"http"`
	Database    DatabaseConfig    `yaml:"database" toml:"database"`
	Logging     logging.Config    `yaml:"logging" toml:"logging"`
	Attachments AttachmentsConfig `yaml:"attachments" toml:"attachments"`
	Auth        AuthConfig        `yaml:"auth" toml:"auth"`
}

// HTTPConfig configures the API server
type HTTPConfig struct {
	Addr            string        `yaml:"addr" toml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the storage backend
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" toml:"driver"` // "memory" or "postgres"
	DSN             string        `yaml:"dsn" toml:"dsn"`
	MaxConns        int32         `yaml:"max_conns" toml:"max_conns"`
	MinConns        int32         `yaml:"min_conns" toml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" toml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" toml:"max_conn_idle_time"`
}

// AttachmentsConfig selects where office-info attachments are stored
type AttachmentsConfig struct {
	Backend  string `yaml:"backend" toml:"backend"` // "local" or "s3"
	Root     string `yaml:"root" toml:"root"`
	Bucket   string `yaml:"bucket" toml:"bucket"`
	Region   string `yaml:"region" toml:"region"`
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	// AccessKey and SecretKey are optional; the default AWS credential chain
	// is used when they are empty
	AccessKey string `yaml:"access_key" toml:"access_key"`
	SecretKey string `yaml:"secret_key" toml:"secret_key"`
}

// AuthConfig maps API tokens to users
type AuthConfig struct {
	Users []UserConfig `yaml:"users" toml:"users"`
}

// UserConfig is one API user and the modes it may work in
type UserConfig struct {
	Name  string   `yaml:"name" toml:"name"`
	Token string   `yaml:"token" toml:"token"`
	Modes []string `yaml:"modes" toml:"modes"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "memory",
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
			Fields: map[string]string{"service": "itam"},
		},
		Attachments: AttachmentsConfig{
			Backend: "local",
			Root:    "/var/lib/itam",
		},
	}
}

// Load reads path (if not empty) over the defaults, applies environment
// overrides and validates the result
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, apperrors.ConfigError("failed to load config file "+path, err)
		}
	}

	applyEnv(&cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, apperrors.ConfigError("invalid configuration", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return fmt.Errorf("unsupported config format %q (expected .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

func applyEnv(cfg *Config, getenv func(string) string) {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}
	setInt32 := func(key string, dst *int32) {
		if v := getenv(key); v != "" {
			if n, err := strconv.ParseInt(v, 10, 32); err == nil {
				*dst = int32(n)
			}
		}
	}

	setString("ITAM_HTTP_ADDR", &cfg.HTTP.Addr)
	setDuration("ITAM_HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	setDuration("ITAM_HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)
	setString("ITAM_DB_DRIVER", &cfg.Database.Driver)
	setString("ITAM_DB_DSN", &cfg.Database.DSN)
	setInt32("ITAM_DB_MAX_CONNS", &cfg.Database.MaxConns)
	setString("ITAM_LOG_LEVEL", &cfg.Logging.Level)
	setString("ITAM_LOG_FORMAT", &cfg.Logging.Format)
	setString("ITAM_ATTACHMENTS_BACKEND", &cfg.Attachments.Backend)
	setString("ITAM_ATTACHMENTS_ROOT", &cfg.Attachments.Root)
	setString("ITAM_ATTACHMENTS_BUCKET", &cfg.Attachments.Bucket)
	setString("ITAM_ATTACHMENTS_REGION", &cfg.Attachments.Region)
	setString("ITAM_ATTACHMENTS_ENDPOINT", &cfg.Attachments.Endpoint)
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Attachments.Backend {
	case "local":
		if c.Attachments.Root == "" {
			return fmt.Errorf("attachments root is required for the local backend")
		}
	case "s3":
		if c.Attachments.Bucket == "" {
			return fmt.Errorf("attachments bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown attachments backend %q", c.Attachments.Backend)
	}

	seen := make(map[string]bool)
	for _, u := range c.Auth.Users {
		if u.Name == "" || u.Token == "" {
			return fmt.Errorf("auth users need both a name and a token")
		}
		if seen[u.Token] {
			return fmt.Errorf("duplicate token for user %s", u.Name)
		}
		seen[u.Token] = true
		for _, m := range u.Modes {
			if m != "dc" && m != "back_office" {
				return fmt.Errorf("user %s: unknown mode %q", u.Name, m)
			}
		}
	}
	return nil
}
