package config

import "testing"

func TestLoadAppliesDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.BindAddr != ":8081" {
		t.Fatalf("expected default bind addr, got %q", cfg.HTTP.BindAddr)
	}
	if cfg.Multiverse.RetentionDepth != 64 {
		t.Fatalf("expected default retention depth 64, got %d", cfg.Multiverse.RetentionDepth)
	}
	if cfg.Explorer.AddressBech32Prefix != "ca" {
		t.Fatalf("expected default bech32 prefix \"ca\", got %q", cfg.Explorer.AddressBech32Prefix)
	}
	if cfg.Explorer.HeadTag != "HEAD" {
		t.Fatalf("expected default head tag HEAD, got %q", cfg.Explorer.HeadTag)
	}
}

func TestLoadFromEnvDefaultsToBaseConfig(t *testing.T) {
	t.Setenv("EXPLORER_ENV", "")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Logging.Level)
	}
}
