package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/deppfellow/person-api/internal/config"
	"github.com/rs/zerolog"
)

func TestNewLoggerService_DisabledWithoutLicense(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()

	service, err := NewLoggerService(cfg)
	if err != nil {
		t.Fatalf("NewLoggerService() error = %v", err)
	}
	if service.GetApplication() != nil {
		t.Error("expected no New Relic application without a license key")
	}

	// Must be safe to call on a disabled service.
	service.Shutdown()
}

func TestNilLoggerService(t *testing.T) {
	var service *LoggerService

	if service.GetApplication() != nil {
		t.Error("nil service must report no application")
	}
	service.Shutdown()
}

func TestNewLogger_JSONFields(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "info"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Info().Str("route", "/person/new").Msg("handling request")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}

	if entry["service"] != config.ServiceName {
		t.Errorf("expected service field %s, got %v", config.ServiceName, entry["service"])
	}
	if entry["environment"] != "production" {
		t.Errorf("expected environment production, got %v", entry["environment"])
	}
	if entry["route"] != "/person/new" || entry["message"] != "handling request" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewLogger_Level(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)

	if log.GetLevel() != zerolog.WarnLevel {
		t.Errorf("expected warn level, got %s", log.GetLevel())
	}

	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info must be filtered at warn level, got %q", buf.String())
	}
}

func TestNewLogger_Console(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "console"
	cfg.Logging.Level = "debug"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Debug().Msg("console line")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("expected console output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "console line") {
		t.Errorf("message missing from %q", buf.String())
	}
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	log := WithTraceContext(base, nil)
	log.Info().Msg("no trace")

	if strings.Contains(buf.String(), "trace.id") {
		t.Errorf("unexpected trace fields in %q", buf.String())
	}
}
