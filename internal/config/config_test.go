package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Primary.Env != "development" {
		t.Errorf("expected env development, got %s", cfg.Primary.Env)
	}
	if cfg.Server.Port != "8000" {
		t.Errorf("expected port 8000, got %s", cfg.Server.Port)
	}
	if len(cfg.Server.CORSAllowedOrigins) != 1 || cfg.Server.CORSAllowedOrigins[0] != "*" {
		t.Errorf("unexpected CORS origins: %v", cfg.Server.CORSAllowedOrigins)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerSecond != 20 || cfg.RateLimit.Burst != 40 {
		t.Errorf("unexpected rate limit config: %+v", cfg.RateLimit)
	}
	if cfg.RateLimit.ExpiresIn != 3*time.Minute {
		t.Errorf("expected expires_in 3m, got %s", cfg.RateLimit.ExpiresIn)
	}
	if cfg.ShutdownTimeout() != 10*time.Second {
		t.Errorf("expected shutdown timeout 10s, got %s", cfg.ShutdownTimeout())
	}

	obs := cfg.Observability
	if obs == nil {
		t.Fatal("expected observability config")
	}
	if obs.ServiceName != ServiceName || obs.Environment != "development" {
		t.Errorf("unexpected observability identity: %s/%s", obs.ServiceName, obs.Environment)
	}
	if !obs.Metrics.Enabled || obs.Metrics.Path != "/metrics" {
		t.Errorf("unexpected metrics config: %+v", obs.Metrics)
	}
	if obs.NewRelicEnabled() {
		t.Error("New Relic must be disabled without a license key")
	}
	if obs.GetLogLevel() != "debug" {
		t.Errorf("expected debug level in development, got %s", obs.GetLogLevel())
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PERSONAPI_PRIMARY__ENV", "production")
	t.Setenv("PERSONAPI_SERVER__PORT", "9090")
	t.Setenv("PERSONAPI_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PERSONAPI_RATE_LIMIT__ENABLED", "false")
	t.Setenv("PERSONAPI_RATE_LIMIT__EXPIRES_IN", "30s")
	t.Setenv("PERSONAPI_OBSERVABILITY__LOGGING__LEVEL", "warn")
	t.Setenv("PERSONAPI_OBSERVABILITY__METRICS__PATH", "/internal/metrics")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Primary.Env != "production" || cfg.Observability.Environment != "production" {
		t.Errorf("expected production env, got %s/%s", cfg.Primary.Env, cfg.Observability.Environment)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if len(cfg.Server.CORSAllowedOrigins) != 2 || cfg.Server.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.Server.CORSAllowedOrigins)
	}
	if cfg.RateLimit.Enabled {
		t.Error("expected rate limiting disabled")
	}
	if cfg.RateLimit.ExpiresIn != 30*time.Second {
		t.Errorf("expected expires_in 30s, got %s", cfg.RateLimit.ExpiresIn)
	}
	if cfg.Observability.GetLogLevel() != "warn" {
		t.Errorf("expected warn level, got %s", cfg.Observability.GetLogLevel())
	}
	// Untouched keys inside the same block keep their defaults.
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/internal/metrics" {
		t.Errorf("unexpected metrics config: %+v", cfg.Observability.Metrics)
	}
	if !cfg.Observability.IsProduction() {
		t.Error("expected IsProduction to be true")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown env", "PERSONAPI_PRIMARY__ENV", "moon"},
		{"non numeric port", "PERSONAPI_SERVER__PORT", "http"},
		{"bad log level", "PERSONAPI_OBSERVABILITY__LOGGING__LEVEL", "verbose"},
		{"bad log format", "PERSONAPI_OBSERVABILITY__LOGGING__FORMAT", "xml"},
		{"relative metrics path", "PERSONAPI_OBSERVABILITY__METRICS__PATH", "metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := LoadConfig(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"PERSONAPI_SERVER__PORT":                          "server.port",
		"PERSONAPI_RATE_LIMIT__REQUESTS_PER_SECOND":       "rate_limit.requests_per_second",
		"PERSONAPI_OBSERVABILITY__NEW_RELIC__LICENSE_KEY": "observability.new_relic.license_key",
	}

	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnvValue(t *testing.T) {
	key, v := envValue("PERSONAPI_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	if key != "server.cors_allowed_origins" {
		t.Fatalf("unexpected key %q", key)
	}
	origins, ok := v.([]string)
	if !ok {
		t.Fatalf("expected []string, got %T", v)
	}
	if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", origins)
	}

	// Scalars are passed through untouched, commas included.
	key, v = envValue("PERSONAPI_SERVER__BODY_LIMIT", "1,5M")
	if key != "server.body_limit" || v != "1,5M" {
		t.Errorf("unexpected scalar mapping %s=%v", key, v)
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  string
	}{
		{"production", "", "info"},
		{"development", "", "debug"},
		{"local", "", "debug"},
		{"production", "error", "error"},
	}

	for _, tt := range tests {
		c := DefaultObservabilityConfig()
		c.Environment = tt.env
		c.Logging.Level = tt.level

		if got := c.GetLogLevel(); got != tt.want {
			t.Errorf("GetLogLevel(%s, %q) = %s, want %s", tt.env, tt.level, got, tt.want)
		}
	}
}
