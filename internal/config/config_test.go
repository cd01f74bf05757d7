package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("expected default CacheTTL=1h, got %s", cfg.CacheTTL)
	}
	if cfg.FeedTimeout != 20*time.Second {
		t.Fatalf("expected default FeedTimeout=20s, got %s", cfg.FeedTimeout)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected default HTTPAddr %q", cfg.HTTPAddr)
	}
	if !cfg.FeedCircuit.Enabled {
		t.Fatalf("expected feed circuit enabled by default")
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_CacheTTLMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL", "-5m")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative CACHE_TTL")
	}
}

func TestLoad_PushRequiresGatewayURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PUSH_ENABLED", "true")
	t.Setenv("PUSH_GATEWAY_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PUSH_ENABLED=true without PUSH_GATEWAY_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_FeedCircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FEED_CIRCUIT_ENABLED", "true")
	t.Setenv("FEED_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("FEED_CIRCUIT_OPEN_TIMEOUT", "30s")
	t.Setenv("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FeedCircuit.FailureThreshold != 3 {
		t.Fatalf("unexpected FailureThreshold %d", cfg.FeedCircuit.FailureThreshold)
	}
	if cfg.FeedCircuit.OpenTimeout != 30*time.Second {
		t.Fatalf("unexpected OpenTimeout %s", cfg.FeedCircuit.OpenTimeout)
	}
	if cfg.FeedCircuit.HalfOpenMaxReq != 1 {
		t.Fatalf("unexpected HalfOpenMaxReq %d", cfg.FeedCircuit.HalfOpenMaxReq)
	}
}
