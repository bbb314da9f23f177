package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
logging:
  level: debug
  format: console
  output: stdout
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 15s
tcp:
  enabled: true
  port: 3039
engine:
  back_order_companies:
    - fac_demo
    - fac_camps
kafka:
  brokers:
    - localhost:9092
  events_topic: retailpulse.events
  signals_topic: retailpulse.signals
  consumer:
    group_id: retailpulse
    backoff_min: 100ms
clickhouse:
  host: localhost
  port: 9000
  database: retailpulse
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Environment != "test" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.Kafka.EventsTopic != "retailpulse.events" {
		t.Errorf("events topic = %q", cfg.Kafka.EventsTopic)
	}
	if cfg.TCP.Port != 3039 {
		t.Errorf("tcp port = %d", cfg.TCP.Port)
	}
	if cfg.Kafka.Consumer.BackoffMin != 100*time.Millisecond {
		t.Errorf("backoff min = %s", cfg.Kafka.Consumer.BackoffMin)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing environment", mutate: func(c *Config) { c.Environment = "" }},
		{name: "no brokers", mutate: func(c *Config) { c.Kafka.Brokers = nil }},
		{name: "no events topic", mutate: func(c *Config) { c.Kafka.EventsTopic = "" }},
		{name: "no signals topic", mutate: func(c *Config) { c.Kafka.SignalsTopic = "" }},
		{name: "no clickhouse host", mutate: func(c *Config) { c.ClickHouse.Host = "" }},
		{name: "bad tcp port", mutate: func(c *Config) { c.TCP.Port = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validYAML))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")
	t.Setenv("BACK_ORDER_COMPANIES", "fac_other")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.ClickHouse.Host != "ch.internal" {
		t.Errorf("clickhouse host = %q", cfg.ClickHouse.Host)
	}
	if !cfg.TracksBackOrders("fac_other") || cfg.TracksBackOrders("fac_demo") {
		t.Error("env override did not replace back-order companies")
	}
}

func TestTracksBackOrdersCaseInsensitive(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		company string
		want    bool
	}{
		{"fac_demo", true},
		{"Fac_Demo", true},
		{"FAC_CAMPS", true},
		{"Fac_Tena", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := cfg.TracksBackOrders(tt.company); got != tt.want {
			t.Errorf("TracksBackOrders(%q) = %v, want %v", tt.company, got, tt.want)
		}
	}
}
