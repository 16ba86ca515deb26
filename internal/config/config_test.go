package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "memory"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_SqliteRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sqlite without path")
	}
}

func TestValidate_RedisRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "redis"
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for redis without addrs")
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "cassandra"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "cassandra") {
		t.Errorf("error %q should name the driver", err.Error())
	}
}

func TestValidate_InvertedScale(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.ScaleMin = 100
	cfg.Engine.ScaleMax = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min above max")
	}
}

func TestValidate_UnknownMetric(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Metric = "chebyshev"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown metric")
	}
}

func TestValidate_DefaultKAboveMaxK(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.DefaultK = 100
	cfg.Engine.MaxK = 50

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default_k above max_k")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.Path != "reflection.db" {
		t.Errorf("path = %q, want reflection.db", cfg.Database.Path)
	}
	if cfg.Engine.ScaleMin != 0 || cfg.Engine.ScaleMax != 100 {
		t.Errorf("scale = (%v, %v), want (0, 100)", cfg.Engine.ScaleMin, cfg.Engine.ScaleMax)
	}
	if cfg.Engine.Metric != "euclidean" {
		t.Errorf("metric = %q, want euclidean", cfg.Engine.Metric)
	}
	if cfg.Engine.DefaultK != 3 || cfg.Engine.MaxK != 50 {
		t.Errorf("k bounds = (%d, %d), want (3, 50)", cfg.Engine.DefaultK, cfg.Engine.MaxK)
	}
	if cfg.Storage.KeyPrefix != "reflection:" {
		t.Errorf("key prefix = %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{Engine: EngineConfig{Metric: "cosine", DefaultK: 5}}
	cfg.ApplyDefaults()

	if cfg.Engine.Metric != "cosine" {
		t.Errorf("metric = %q, want cosine", cfg.Engine.Metric)
	}
	if cfg.Engine.DefaultK != 5 {
		t.Errorf("default_k = %d, want 5", cfg.Engine.DefaultK)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_REFLECTION_VAR", "actual")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "value: ${TEST_REFLECTION_VAR}", "value: actual"},
		{"unset variable", "value: ${TEST_REFLECTION_UNSET}", "value: "},
		{"unset with default", "value: ${TEST_REFLECTION_UNSET:-fallback}", "value: fallback"},
		{"set with default", "value: ${TEST_REFLECTION_VAR:-fallback}", "value: actual"},
		{"no expansion", "value: plain", "value: plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
				t.Errorf("expandEnvVars = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv = %q, want local", got)
	}

	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv = %q, want prod", got)
	}
}
