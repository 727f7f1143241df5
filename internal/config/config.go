package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sarlink/internal/fleet"
	"sarlink/internal/llm_client"
	"sarlink/internal/planner"
	"sarlink/internal/sim"
)

// DefaultPath is read when no --config flag is given. A missing file is not an error.
const DefaultPath = "sarlink.yaml"

type Config struct {
	LogFile   string          `yaml:"log_file"`
	Planner   PlannerConfig   `yaml:"planner"`
	Sim       sim.Params      `yaml:"sim"`
	Tunnel    planner.Tunnel  `yaml:"tunnel"`
	Fleet     []fleet.Robot   `yaml:"fleet"`
	Web       WebConfig       `yaml:"web"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type PlannerConfig struct {
	llm_client.Config `yaml:",inline"`
	Timeout           time.Duration `yaml:"timeout"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

type TelemetryConfig struct {
	MQTT  MQTTConfig  `yaml:"mqtt"`
	Redis RedisConfig `yaml:"redis"`
}

type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	// Every publishes fleet state on every Nth tick.
	Every int `yaml:"every"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Every    int    `yaml:"every"`
}

func Defaults() *Config {
	return &Config{
		LogFile: "sarlink.log",
		Planner: PlannerConfig{
			Config:  llm_client.Config{Backend: "gemini"},
			Timeout: 60 * time.Second,
		},
		Sim:    sim.DefaultParams(),
		Tunnel: planner.DefaultTunnel(),
		Fleet:  fleet.DefaultFleet(),
		Web:    WebConfig{Addr: ":8080"},
		Telemetry: TelemetryConfig{
			MQTT: MQTTConfig{
				Broker:      "tcp://localhost:1883",
				ClientID:    "sarlink-console",
				TopicPrefix: "sarlink",
				Every:       10,
			},
			Redis: RedisConfig{
				Address: "localhost:6379",
				Every:   10,
			},
		},
	}
}

// Load reads path over Defaults and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&c.Planner.Backend, "SARLINK_LLM_BACKEND")
	set(&c.Planner.Model, "SARLINK_LLM_MODEL")
	set(&c.Planner.OllamaHost, "OLLAMA_HOST")
	set(&c.Planner.APIKey, "GEMINI_API_KEY", "API_KEY")
	set(&c.Web.Addr, "SARLINK_WEB_ADDR")
	set(&c.Telemetry.MQTT.Broker, "SARLINK_MQTT_BROKER")
	set(&c.Telemetry.Redis.Address, "SARLINK_REDIS_ADDR")
}

func (c *Config) Validate() error {
	if len(c.Fleet) == 0 {
		return fmt.Errorf("config: fleet is empty")
	}
	if c.Sim.Interval <= 0 {
		return fmt.Errorf("config: sim.interval must be positive, got %s", c.Sim.Interval)
	}
	if c.Tunnel.Length <= 0 || c.Tunnel.Width <= 0 {
		return fmt.Errorf("config: tunnel dimensions must be positive")
	}
	if c.Telemetry.MQTT.QoS > 2 {
		return fmt.Errorf("config: mqtt qos must be 0, 1 or 2")
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
