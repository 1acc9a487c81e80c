package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the full application configuration
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	Auth    AuthConfig    `koanf:"auth"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	StaticDir string `koanf:"static_dir"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	// Type is "memory", "redis" or "postgres"
	Type        string `koanf:"type"`
	RedisURL    string `koanf:"redis_url"`
	PostgresDSN string `koanf:"postgres_dsn"`
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	SessionTTL time.Duration `koanf:"session_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `koanf:"level"`
}

// Default returns the built-in configuration defaults
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:      "",
			Port:      8080,
			StaticDir: "static",
		},
		Storage: StorageConfig{
			Type:        "memory",
			RedisURL:    "redis://localhost:6379",
			PostgresDSN: "postgres://localhost:5432/plantlib",
		},
		Auth: AuthConfig{
			SessionTTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load layers configuration: defaults, then an optional YAML file, then
// command-line flags. Later layers win.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	// Start from the defaults; the file and flags only override the
	// keys they actually set.
	cfg := Default()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("loading flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage.Type {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("invalid storage type %q", c.Storage.Type)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
