package config

import (
	"testing"

	"github.com/sweetstem/discovery/internal/domain"
)

func validConfig() Config {
	cfg := Config{}
	cfg.HTTP.Port = 8080
	cfg.Database.Addrs = []string{"localhost:6379"}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Embedding.Model != "text-embedding-ada-002" {
		t.Errorf("Embedding.Model = %q", cfg.Embedding.Model)
	}
	if cfg.Search.SemanticThreshold != 0.7 {
		t.Errorf("SemanticThreshold = %v, want 0.7", cfg.Search.SemanticThreshold)
	}
	if cfg.Search.EmbeddingDimensions != 1536 {
		t.Errorf("EmbeddingDimensions = %d, want 1536", cfg.Search.EmbeddingDimensions)
	}
	if cfg.Search.OverFetchMultiplier != 5 {
		t.Errorf("OverFetchMultiplier = %d, want 5", cfg.Search.OverFetchMultiplier)
	}
	if cfg.RateLimit.Requests != 30 || cfg.RateLimit.WindowSec != 60 {
		t.Errorf("RateLimit = %+v, want 30/60s", cfg.RateLimit)
	}
	if cfg.CORS.AllowOrigin != "*" {
		t.Errorf("CORS.AllowOrigin = %q, want *", cfg.CORS.AllowOrigin)
	}

	def := domain.DefaultSearchConfig()
	got := domain.SearchConfig{
		SemanticThreshold:   cfg.Search.SemanticThreshold,
		EmbeddingDimensions: cfg.Search.EmbeddingDimensions,
		OverFetchMultiplier: cfg.Search.OverFetchMultiplier,
		DefaultMaxResults:   cfg.Search.DefaultMaxResults,
	}
	if got != def {
		t.Errorf("search defaults = %+v, want %+v", got, def)
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := validConfig()
	bad.HTTP.Port = 0
	if err := bad.Validate(); err == nil {
		t.Error("missing port accepted")
	}

	bad = validConfig()
	bad.Database.Addrs = nil
	if err := bad.Validate(); err == nil {
		t.Error("missing database address accepted")
	}

	bad = validConfig()
	bad.Search.SemanticThreshold = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("out-of-range threshold accepted")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DISCOVERY_TEST_PASSWORD", "s3cret")

	in := []byte("password: ${DISCOVERY_TEST_PASSWORD}\nport: ${DISCOVERY_TEST_PORT:-8080}\n")
	got := string(expandEnvVars(in))

	want := "password: s3cret\nport: 8080\n"
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}
