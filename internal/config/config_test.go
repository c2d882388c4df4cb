package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.Global.LogLevel != "INFO" {
		t.Errorf("Expected LogLevel to be INFO, got %s", cfg.Global.LogLevel)
	}
	if cfg.Monitoring.Metrics.Enabled {
		t.Error("Expected metrics to be disabled by default")
	}
	if cfg.Monitoring.Metrics.Port != 8080 {
		t.Errorf("Expected metrics port to be 8080, got %d", cfg.Monitoring.Metrics.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration should validate, got: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "objectfs.yaml")

	content := `
global:
  log_level: DEBUG
performance:
  read_concurrency: 64
s3:
  anon: true
  region: us-west-2
  extra:
    signature_version: s3v4
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := NewDefault()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Global.LogLevel != "DEBUG" {
		t.Errorf("Global.LogLevel = %q, want DEBUG", cfg.Global.LogLevel)
	}
	if cfg.Performance.ReadConcurrency != 64 {
		t.Errorf("Performance.ReadConcurrency = %d, want 64", cfg.Performance.ReadConcurrency)
	}
	if !cfg.S3.Anon {
		t.Error("S3.Anon = false, want true")
	}
	if cfg.S3.Region != "us-west-2" {
		t.Errorf("S3.Region = %q, want us-west-2", cfg.S3.Region)
	}
	if cfg.S3.Extra["signature_version"] != "s3v4" {
		t.Errorf("S3.Extra[signature_version] = %q, want s3v4", cfg.S3.Extra["signature_version"])
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	cfg := NewDefault()
	if err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error loading a missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OBJECTFS_LOG_LEVEL", "WARN")
	t.Setenv("OBJECTFS_READ_CONCURRENCY", "16")
	t.Setenv("OBJECTFS_METRICS_ENABLED", "true")
	t.Setenv("OBJECTFS_METRICS_PORT", "9090")

	cfg := NewDefault()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.Global.LogLevel != "WARN" {
		t.Errorf("Global.LogLevel = %q, want WARN", cfg.Global.LogLevel)
	}
	if cfg.Performance.ReadConcurrency != 16 {
		t.Errorf("Performance.ReadConcurrency = %d, want 16", cfg.Performance.ReadConcurrency)
	}
	if !cfg.Monitoring.Metrics.Enabled {
		t.Error("Monitoring.Metrics.Enabled = false, want true")
	}
	if cfg.Monitoring.Metrics.Port != 9090 {
		t.Errorf("Monitoring.Metrics.Port = %d, want 9090", cfg.Monitoring.Metrics.Port)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.yaml")

	cfg := NewDefault()
	cfg.S3.Region = "eu-central-1"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded := &Configuration{}
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.S3.Region != "eu-central-1" {
		t.Errorf("S3.Region = %q, want eu-central-1", loaded.S3.Region)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr bool
	}{
		{"defaults ok", func(c *Configuration) {}, false},
		{"negative read concurrency", func(c *Configuration) { c.Performance.ReadConcurrency = -1 }, true},
		{"negative page queue depth", func(c *Configuration) { c.Performance.PageQueueDepth = -1 }, true},
		{"bad log level", func(c *Configuration) { c.Global.LogLevel = "VERBOSE" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}
