package server

import (
	"context"
	"testing"

	"github.com/deppfellow/person-api/internal/config"
	"github.com/deppfellow/person-api/internal/metrics"
	"github.com/rs/zerolog"
)

func testConfig(metricsEnabled bool) *config.Config {
	obs := config.DefaultObservabilityConfig()
	obs.Metrics.Enabled = metricsEnabled
	return &config.Config{
		Primary:       config.Primary{Env: "local"},
		Server:        config.ServerConfig{Port: "0", ReadTimeout: 1, WriteTimeout: 1, IdleTimeout: 1, ShutdownTimeout: 1},
		Observability: obs,
	}
}

func TestNew(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("requires config", func(t *testing.T) {
		if _, err := New(nil, &logger, nil); err == nil {
			t.Error("expected error for nil config")
		}
	})

	t.Run("requires logger", func(t *testing.T) {
		if _, err := New(testConfig(true), nil, nil); err == nil {
			t.Error("expected error for nil logger")
		}
	})

	t.Run("metrics enabled", func(t *testing.T) {
		s, err := New(testConfig(true), &logger, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.Metrics == nil {
			t.Fatal("expected metrics to be created")
		}
		if _, ok := s.Recorder().(*metrics.Metrics); !ok {
			t.Errorf("expected *metrics.Metrics recorder, got %T", s.Recorder())
		}
	})

	t.Run("metrics disabled", func(t *testing.T) {
		s, err := New(testConfig(false), &logger, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.Metrics != nil {
			t.Error("expected no metrics")
		}
		if _, ok := s.Recorder().(metrics.Noop); !ok {
			t.Errorf("expected metrics.Noop recorder, got %T", s.Recorder())
		}
	})
}

func TestStartWithoutSetup(t *testing.T) {
	logger := zerolog.Nop()
	s, err := New(testConfig(false), &logger, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := s.Start(); err == nil {
		t.Error("expected error when HTTP server is not initialized")
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	logger := zerolog.Nop()
	s, err := New(testConfig(false), &logger, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
