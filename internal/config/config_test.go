package config

import (
	"os"
	"testing"
)

func TestLoad_AppliesDefaultsWithNoFileOrEnv(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceName != "syndata" {
		t.Errorf("expected default service_name, got %q", cfg.ServiceName)
	}
	if cfg.GRPCPort != 50051 || cfg.HTTPPort != 8080 {
		t.Errorf("unexpected default ports: grpc=%d http=%d", cfg.GRPCPort, cfg.HTTPPort)
	}
	if cfg.MaxSyncRecords != 1000 {
		t.Errorf("expected default max_sync_records=1000, got %d", cfg.MaxSyncRecords)
	}
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "syndata-test")
	t.Setenv("GRPC_PORT", "9000")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-key")
	t.Setenv("MAX_SYNC_RECORDS", "2500")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceName != "syndata-test" {
		t.Errorf("expected env override for service_name, got %q", cfg.ServiceName)
	}
	if cfg.GRPCPort != 9000 {
		t.Errorf("expected env override for grpc_port, got %d", cfg.GRPCPort)
	}
	if cfg.Anthropic.APIKey != "sk-test-key" {
		t.Errorf("expected env override for anthropic api_key, got %q", cfg.Anthropic.APIKey)
	}
	if cfg.MaxSyncRecords != 2500 {
		t.Errorf("expected env override for max_sync_records, got %d", cfg.MaxSyncRecords)
	}
}

func TestValidate_RejectsInvalidPorts(t *testing.T) {
	cfg := Config{ServiceName: "x", GRPCPort: 0, HTTPPort: 8080, MaxSyncRecords: 1, DefaultBatchSize: 1, CoherenceThreshold: 0.5}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero grpc_port")
	}
	os.Unsetenv("GRPC_PORT")
}
