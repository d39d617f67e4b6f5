// Package config manages environment variables.
//
// It reads variables (optionally from a `.env` file), layers them over
// built-in defaults, loads them into structured Go types and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Provide defaults for every setting so the API runs with no env at all.
//   - Map PERSONAPI_* env vars into a structured Go config.
//   - Validate values so the app fails fast on bad config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key mapping:
	- Env vars are read using the prefix PERSONAPI_
	- The prefix is removed and the rest lowercased
	- A double underscore separates nesting levels, a single underscore
	  stays part of the key:
	    PERSONAPI_SERVER__PORT                         -> server.port
	    PERSONAPI_OBSERVABILITY__LOGGING__LEVEL        -> observability.logging.level
	    PERSONAPI_RATE_LIMIT__REQUESTS_PER_SECOND      -> rate_limit.requests_per_second
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "PERSONAPI_"

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are plain seconds, matching how they are written in .env files.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,gt=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,gt=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,gt=0"`
	ShutdownTimeout    int      `koanf:"shutdown_timeout" validate:"required,gt=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// BodyLimit uses echo's size notation ("1M", "512K").
	BodyLimit string `koanf:"body_limit" validate:"required"`
}

// RateLimitConfig configures the per-client-IP request limiter.
type RateLimitConfig struct {
	Enabled           bool          `koanf:"enabled"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"required_if=Enabled true,gte=0"`
	Burst             int           `koanf:"burst" validate:"gte=0"`
	ExpiresIn         time.Duration `koanf:"expires_in"`
}

// defaults are loaded before the environment so every key has a value.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env": "development",

		"server.port":                 "8000",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.shutdown_timeout":     10,
		"server.cors_allowed_origins": []string{"*"},
		"server.body_limit":           "1M",

		"rate_limit.enabled":             true,
		"rate_limit.requests_per_second": 20.0,
		"rate_limit.burst":               40,
		"rate_limit.expires_in":          "3m",

		"observability.logging.level":                         "",
		"observability.logging.format":                        "json",
		"observability.new_relic.license_key":                 "",
		"observability.new_relic.app_log_forwarding_enabled":  true,
		"observability.new_relic.distributed_tracing_enabled": true,
		"observability.new_relic.debug_logging":               false,
		"observability.metrics.enabled":                       true,
		"observability.metrics.path":                          "/metrics",
	}
}

// listKeys are the settings whose env value is a comma separated list.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// envKey maps PERSONAPI_SERVER__PORT to server.port.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// envValue maps an env var to its config key and value, splitting list
// settings on commas: "https://a.example, https://b.example" becomes two
// origins.
func envValue(k, v string) (string, interface{}) {
	key := envKey(k)
	if !listKeys[key] {
		return key, v
	}

	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LoadConfig loads defaults and environment variables, unmarshals them into
// Config, applies observability defaults and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load default config: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed and environment always follows primary.env so
	// logs and traces line up.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}
