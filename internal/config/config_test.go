package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Fleet) != 2 || cfg.Fleet[0].Name != "Go2-Alpha" {
		t.Errorf("Expected default fleet, got %+v", cfg.Fleet)
	}
	if cfg.Sim.Interval != 100*time.Millisecond {
		t.Errorf("Expected 100ms tick, got %s", cfg.Sim.Interval)
	}
	if cfg.Telemetry.MQTT.Enabled || cfg.Telemetry.Redis.Enabled {
		t.Errorf("Telemetry must be off by default")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sarlink.yaml")
	data := `
planner:
  backend: ollama
  model: llama3
  timeout: 5s
sim:
  interval: 250ms
  ground_speed: 0.3
web:
  addr: ":9000"
fleet:
  - id: go2_02
    name: Go2-Bravo
    type: GO2
    status: IDLE
    battery: 70
    position: {x: 1, y: 0, z: 0.2}
telemetry:
  mqtt:
    enabled: true
    topic_prefix: tunnel
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	testCases := []struct {
		name string
		got  any
		want any
	}{
		{"backend", cfg.Planner.Backend, "ollama"},
		{"model", cfg.Planner.Model, "llama3"},
		{"timeout", cfg.Planner.Timeout, 5 * time.Second},
		{"interval", cfg.Sim.Interval, 250 * time.Millisecond},
		{"ground speed", cfg.Sim.GroundSpeed, 0.3},
		{"aerial speed keeps default", cfg.Sim.AerialSpeed, 0.5},
		{"web addr", cfg.Web.Addr, ":9000"},
		{"fleet size", len(cfg.Fleet), 1},
		{"robot name", cfg.Fleet[0].Name, "Go2-Bravo"},
		{"mqtt enabled", cfg.Telemetry.MQTT.Enabled, true},
		{"mqtt prefix", cfg.Telemetry.MQTT.TopicPrefix, "tunnel"},
		{"mqtt broker keeps default", cfg.Telemetry.MQTT.Broker, "tcp://localhost:1883"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, tc.got)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SARLINK_LLM_BACKEND": "none",
		"API_KEY":             "fallback-key",
		"SARLINK_WEB_ADDR":    "127.0.0.1:7000",
		"OLLAMA_HOST":         "  ",
	}
	cfg := Defaults()
	cfg.applyEnv(func(k string) string { return env[k] })

	if cfg.Planner.Backend != "none" {
		t.Errorf("Expected backend override, got %q", cfg.Planner.Backend)
	}
	if cfg.Planner.APIKey != "fallback-key" {
		t.Errorf("Expected API_KEY fallback, got %q", cfg.Planner.APIKey)
	}
	if cfg.Web.Addr != "127.0.0.1:7000" {
		t.Errorf("Expected addr override, got %q", cfg.Web.Addr)
	}
	if cfg.Planner.OllamaHost != "" {
		t.Errorf("Blank env values must be ignored, got %q", cfg.Planner.OllamaHost)
	}

	env["GEMINI_API_KEY"] = "primary-key"
	cfg.applyEnv(func(k string) string { return env[k] })
	if cfg.Planner.APIKey != "primary-key" {
		t.Errorf("Expected GEMINI_API_KEY to win, got %q", cfg.Planner.APIKey)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"Empty fleet", func(c *Config) { c.Fleet = nil }},
		{"Zero interval", func(c *Config) { c.Sim.Interval = 0 }},
		{"Flat tunnel", func(c *Config) { c.Tunnel.Width = 0 }},
		{"Bad qos", func(c *Config) { c.Telemetry.MQTT.QoS = 3 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(cfg)
			if cfg.Validate() == nil {
				t.Errorf("Expected validation error")
			}
		})
	}
	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults must validate: %v", err)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sim: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("Expected parse error")
	}
}
