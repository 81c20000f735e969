package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.StoreType != "memory" {
		t.Fatalf("StoreType = %q, want memory", cfg.StoreType)
	}
	if cfg.ResolveTimeoutMS != 5000 {
		t.Fatalf("ResolveTimeoutMS = %d, want 5000", cfg.ResolveTimeoutMS)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_HTTP_ADDR", ":9999")
	t.Setenv("STORE_TYPE", "postgres")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr = %q, want :9999", cfg.HTTPAddr)
	}
	if cfg.StoreType != "postgres" {
		t.Fatalf("StoreType = %q, want postgres", cfg.StoreType)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		AppEnv:           "dev",
		HTTPAddr:         ":8080",
		MetricsAddr:      ":9090",
		Env:              "prod",
		StoreType:        "memory",
		AdminAPIKey:      "admin-123",
		ResolveTimeoutMS: 5000,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid dev config", mutate: func(*Config) {}, wantErr: false},
		{name: "bad store type", mutate: func(c *Config) { c.StoreType = "cassandra" }, wantErr: true},
		{name: "postgres needs dsn", mutate: func(c *Config) { c.StoreType = "postgres"; c.DatabaseDSN = "" }, wantErr: true},
		{name: "empty http addr", mutate: func(c *Config) { c.HTTPAddr = "" }, wantErr: true},
		{name: "empty env", mutate: func(c *Config) { c.Env = "" }, wantErr: true},
		{name: "non-positive timeout", mutate: func(c *Config) { c.ResolveTimeoutMS = 0 }, wantErr: true},
		{name: "default admin key in prod", mutate: func(c *Config) { c.AppEnv = "prod" }, wantErr: true},
		{name: "custom admin key in prod", mutate: func(c *Config) { c.AppEnv = "prod"; c.AdminAPIKey = "real-key" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadParsesKeyHashes(t *testing.T) {
	t.Setenv("ADMIN_KEY_HASHES", "$2a$12$aaa, $2a$12$bbb ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.AdminKeyHashes) != 2 {
		t.Fatalf("AdminKeyHashes = %v, want 2 entries", cfg.AdminKeyHashes)
	}
	if cfg.AdminKeyHashes[0] != "$2a$12$aaa" || cfg.AdminKeyHashes[1] != "$2a$12$bbb" {
		t.Errorf("AdminKeyHashes = %v, want trimmed entries", cfg.AdminKeyHashes)
	}
}
