package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("areaselector-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Editor.CollectKey != 16 || cfg.Editor.MinVertices != 2 || cfg.Editor.DeleteFloor != 2 {
		t.Errorf("unexpected editor defaults %+v", cfg.Editor)
	}
	if cfg.Viewport.Backend != ViewportMemory || cfg.Viewport.Key != "lastMapView" {
		t.Errorf("unexpected viewport defaults %+v", cfg.Viewport)
	}
	if cfg.Telemetry.ServiceName != "areaselector-test" {
		t.Errorf("expected service name from argument, got %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AREASELECTOR_SERVER_PORT", "9090")
	t.Setenv("AREASELECTOR_EDITOR_MIN_VERTICES", "3")

	cfg, err := Load("areaselector-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Editor.MinVertices != 3 {
		t.Errorf("expected min_vertices 3, got %d", cfg.Editor.MinVertices)
	}
}

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Editor:   EditorConfig{CollectKey: 16, MinVertices: 2, DeleteFloor: 2},
		Viewport: ViewportConfig{Backend: ViewportMemory, Key: "lastMapView"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unknown backend", func(c *Config) { c.Viewport.Backend = "sqlite" }, "viewport.backend"},
		{"valkey backend disabled", func(c *Config) { c.Viewport.Backend = ViewportValkey }, "requires valkey.enabled"},
		{"postgres backend disabled", func(c *Config) { c.Viewport.Backend = ViewportPostgres }, "requires database.enabled"},
		{"database missing host", func(c *Config) {
			c.Database = DatabaseConfig{Enabled: true, Port: 5432, User: "u", DBName: "d"}
		}, "database.host"},
		{"disabled database not checked", func(c *Config) { c.Database = DatabaseConfig{} }, ""},
		{"zero floor", func(c *Config) { c.Editor.DeleteFloor = 0 }, "editor.delete_floor"},
		{"temporal without queue", func(c *Config) {
			c.Temporal = TemporalConfig{Enabled: true, HostPort: "localhost:7233"}
		}, "temporal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	c := validConfig()
	c.Server.Port = -1
	c.Viewport.Key = ""
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "server.port") || !strings.Contains(err.Error(), "viewport.key") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}
