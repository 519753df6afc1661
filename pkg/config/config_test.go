package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         "3000",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		App:        AppConfig{Env: "development", LogLevel: "info"},
		Database:   DatabaseConfig{Path: "./data/expenso.db"},
		Pagination: PaginationConfig{DefaultPageSize: 10, MaxPageSize: 100},
		CORS:       CORSConfig{Origins: []string{"*"}},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "non-numeric port",
			mutate:      func(c *Config) { c.Server.Port = "abc" },
			wantErr:     true,
			errContains: "invalid port 'abc'",
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Server.Port = "70000" },
			wantErr:     true,
			errContains: "must be between 1 and 65535",
		},
		{
			name:        "unknown environment",
			mutate:      func(c *Config) { c.App.Env = "staging" },
			wantErr:     true,
			errContains: "invalid environment 'staging'",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.Database.Path = "" },
			wantErr:     true,
			errContains: "database path cannot be empty",
		},
		{
			name:        "zero default page size",
			mutate:      func(c *Config) { c.Pagination.DefaultPageSize = 0 },
			wantErr:     true,
			errContains: "invalid default page size",
		},
		{
			name: "default exceeds max page size",
			mutate: func(c *Config) {
				c.Pagination.DefaultPageSize = 200
				c.Pagination.MaxPageSize = 100
			},
			wantErr:     true,
			errContains: "exceeds max page size",
		},
		{
			name: "multiple problems reported together",
			mutate: func(c *Config) {
				c.Server.Port = "abc"
				c.App.Env = "staging"
			},
			wantErr:     true,
			errContains: "; ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err, tt.errContains)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := validConfig()
	if cfg.IsProduction() {
		t.Error("development config should not be production")
	}
	cfg.App.Env = "production"
	if !cfg.IsProduction() {
		t.Error("production config should report production")
	}
}

func TestSplitOrigins(t *testing.T) {
	got := splitOrigins(" https://a.example , https://b.example ,")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("splitOrigins = %v", got)
	}
}
