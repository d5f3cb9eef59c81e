// Package config loads the application configuration.
//
// Values come from, in increasing priority:
//  1. env-default struct tags
//  2. an optional YAML file (CONFIG_PATH env var or --config flag)
//  3. the process environment, with a .env file loaded into it first
package config

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	// Loads a .env file from the working directory, if one exists,
	// before any env var is read.
	_ "github.com/joho/godotenv/autoload"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Filter modes for the list endpoint.
const (
	// FilterOverride re-filters the full collection for every active query
	// parameter, so the last one applied decides the result.
	FilterOverride = "override"
	// FilterIntersect composes every active query parameter.
	FilterIntersect = "intersect"
)

// Config is the root configuration structure.
type Config struct {
	// Env selects log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	// StorageBackend picks the developer store implementation.
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"memory" validate:"oneof=memory sqlite"`

	// StoragePath is the SQLite DSN. Only used by the sqlite backend.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:":memory:"`

	// Seed loads the demonstration dataset at startup.
	Seed bool `yaml:"seed" env:"SEED"`

	HTTPServer `yaml:"http_server"`
	API        `yaml:"api"`
	CORS       `yaml:"cors"`
}

// HTTPServer holds the listener settings.
type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:""`
	Port string `yaml:"port" env:"PORT" env-default:"3000" validate:"required,numeric"`
}

// Addr returns the host:port pair to listen on.
func (h HTTPServer) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// API holds switches for behaviour that differs between deployments.
type API struct {
	FilterMode string `yaml:"filter_mode" env:"FILTER_MODE" env-default:"override" validate:"oneof=override intersect"`

	// RequireRegisteredForUpdate rejects PUT on developers that are not
	// registered.
	RequireRegisteredForUpdate bool `yaml:"require_registered_for_update" env:"REQUIRE_REGISTERED_FOR_UPDATE"`
}

// CORS configures the cross-origin middleware.
type CORS struct {
	Enabled        bool     `yaml:"enabled" env:"CORS_ENABLED"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// defaults returns a Config with the boolean switches that default to true
// already set. cleanenv only applies env-default to zero fields, so a true
// default in a tag could never be turned off by a false in the YAML file.
func defaults() Config {
	return Config{
		Seed: true,
		API:  API{RequireRegisteredForUpdate: true},
		CORS: CORS{Enabled: true},
	}
}

// Load reads the config from path, or only from the environment when path
// is empty, and validates it.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config, then
// calls Load. It exits the process if the config cannot be loaded.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
