package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Weather.City != "Bangalore" {
		t.Errorf("expected default city Bangalore, got %s", cfg.Weather.City)
	}
	if cfg.Weather.BaseURL != "https://wttr.in" {
		t.Errorf("expected default weather base url, got %s", cfg.Weather.BaseURL)
	}
	if !cfg.Weather.Enabled {
		t.Errorf("expected weather enabled by default")
	}
	if cfg.Mailbox.Backend != "memory" {
		t.Errorf("expected default mailbox backend memory, got %s", cfg.Mailbox.Backend)
	}
	if cfg.Mailbox.DSN != ":memory:" {
		t.Errorf("expected default mailbox dsn :memory:, got %s", cfg.Mailbox.DSN)
	}
	if cfg.Bus.Backend != "local" {
		t.Errorf("expected default bus backend local, got %s", cfg.Bus.Backend)
	}
	if cfg.Knowledge.Vector.Enabled {
		t.Errorf("expected vector matching disabled by default")
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected default http addr :8080, got %s", cfg.HTTP.Addr)
	}
}

func TestLoadEnv(t *testing.T) {
	os.Setenv("AGORA_WEATHER_CITY", "Madrid")
	defer os.Unsetenv("AGORA_WEATHER_CITY")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Weather.City != "Madrid" {
		t.Errorf("expected city Madrid from env, got %s", cfg.Weather.City)
	}
}

func TestLoadEnvUnderscoreKeys(t *testing.T) {
	os.Setenv("AGORA_TELEMETRY_OTLP_ENDPOINT", "localhost:4317")
	os.Setenv("AGORA_KNOWLEDGE_VECTOR_ENABLED", "true")
	defer os.Unsetenv("AGORA_TELEMETRY_OTLP_ENDPOINT")
	defer os.Unsetenv("AGORA_KNOWLEDGE_VECTOR_ENABLED")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Telemetry.OTLPEndpoint != "localhost:4317" {
		t.Errorf("expected otlp endpoint from env, got %s", cfg.Telemetry.OTLPEndpoint)
	}
	if !cfg.Knowledge.Vector.Enabled {
		t.Errorf("expected vector matching enabled from env")
	}
}

func TestEnvKeyToPath(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"AGORA_LOG_LEVEL", "log.level"},
		{"AGORA_WEATHER_CITY", "weather.city"},
		{"AGORA_WEATHER_CACHE_PATH", "weather.cache_path"},
		{"AGORA_TELEMETRY_OTLP_ENDPOINT", "telemetry.otlp_endpoint"},
		{"AGORA_KNOWLEDGE_VECTOR_QDRANT_ADDR", "knowledge.vector.qdrant_addr"},
		{"AGORA_BUS_KAFKA_GROUP_ID", "bus.kafka.group_id"},
		{"AGORA_HTTP_ADDR", "http.addr"},
	}

	for _, tt := range tests {
		if got := envKeyToPath(tt.key); got != tt.want {
			t.Errorf("envKeyToPath(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoadWithProfile(t *testing.T) {
	// Create temp directory with config files
	tmpDir := t.TempDir()

	// Base config
	baseConfig := `
weather:
  city: "Bangalore"
  base_url: "https://wttr.example"
log:
  level: "info"
`
	basePath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(basePath, []byte(baseConfig), 0644); err != nil {
		t.Fatalf("failed to write base config: %v", err)
	}

	// Dev profile override
	devConfig := `
weather:
  city: "Madrid"
log:
  level: "debug"
`
	devPath := filepath.Join(tmpDir, "config.dev.yaml")
	if err := os.WriteFile(devPath, []byte(devConfig), 0644); err != nil {
		t.Fatalf("failed to write dev config: %v", err)
	}

	// Prod profile override
	prodConfig := `
weather:
  city: "London"
log:
  level: "warn"
`
	prodPath := filepath.Join(tmpDir, "config.prod.yaml")
	if err := os.WriteFile(prodPath, []byte(prodConfig), 0644); err != nil {
		t.Fatalf("failed to write prod config: %v", err)
	}

	tests := []struct {
		name         string
		profile      string
		wantCity     string
		wantLogLevel string
		wantBaseURL  string // Should inherit from base when not overridden
	}{
		{
			name:         "no profile - base only",
			profile:      "",
			wantCity:     "Bangalore",
			wantLogLevel: "info",
			wantBaseURL:  "https://wttr.example",
		},
		{
			name:         "dev profile",
			profile:      "dev",
			wantCity:     "Madrid",
			wantLogLevel: "debug",
			wantBaseURL:  "https://wttr.example", // Not overridden in dev
		},
		{
			name:         "prod profile",
			profile:      "prod",
			wantCity:     "London",
			wantLogLevel: "warn",
			wantBaseURL:  "https://wttr.example", // Not overridden in prod
		},
		{
			name:         "nonexistent profile - falls back to base",
			profile:      "staging",
			wantCity:     "Bangalore",
			wantLogLevel: "info",
			wantBaseURL:  "https://wttr.example",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadWithProfile(basePath, tc.profile)
			if err != nil {
				t.Fatalf("LoadWithProfile failed: %v", err)
			}

			if cfg.Weather.City != tc.wantCity {
				t.Errorf("city: got %s, want %s", cfg.Weather.City, tc.wantCity)
			}
			if cfg.Log.Level != tc.wantLogLevel {
				t.Errorf("log level: got %s, want %s", cfg.Log.Level, tc.wantLogLevel)
			}
			if cfg.Weather.BaseURL != tc.wantBaseURL {
				t.Errorf("base url: got %s, want %s", cfg.Weather.BaseURL, tc.wantBaseURL)
			}
		})
	}
}

func TestLoadWithCLIProfile(t *testing.T) {
	// Create temp directory with config files
	tmpDir := t.TempDir()

	baseConfig := `
weather:
  city: "Bangalore"
`
	basePath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(basePath, []byte(baseConfig), 0644); err != nil {
		t.Fatalf("failed to write base config: %v", err)
	}

	devConfig := `
weather:
  city: "Madrid"
`
	devPath := filepath.Join(tmpDir, "config.dev.yaml")
	if err := os.WriteFile(devPath, []byte(devConfig), 0644); err != nil {
		t.Fatalf("failed to write dev config: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantCity string
	}{
		{
			name:     "profile flag",
			args:     []string{"--config", basePath, "--profile", "dev"},
			wantCity: "Madrid",
		},
		{
			name:     "env flag alias",
			args:     []string{"--config", basePath, "--env", "dev"},
			wantCity: "Madrid",
		},
		{
			name:     "profile with equals",
			args:     []string{"--config=" + basePath, "--profile=dev"},
			wantCity: "Madrid",
		},
		{
			name:     "env with equals",
			args:     []string{"--config=" + basePath, "--env=dev"},
			wantCity: "Madrid",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadWithCLI(tc.args)
			if err != nil {
				t.Fatalf("LoadWithCLI failed: %v", err)
			}

			if cfg.Weather.City != tc.wantCity {
				t.Errorf("city: got %s, want %s", cfg.Weather.City, tc.wantCity)
			}
		})
	}
}

func TestLoadWithCLITelemetryHeaders(t *testing.T) {
	args := []string{
		"--set", "telemetry.exporter=otlp",
		"--set", "telemetry.otlp_endpoint=http://localhost:4317",
		"--set", "telemetry.otlp_headers.x-api-key=secret-token",
		"--set", "telemetry.otlp_headers.x-org-id=org-123",
	}

	cfg, err := LoadWithCLI(args)
	if err != nil {
		t.Fatalf("LoadWithCLI failed: %v", err)
	}

	if cfg.Telemetry.Exporter != "otlp" {
		t.Errorf("expected exporter otlp, got %s", cfg.Telemetry.Exporter)
	}
	if cfg.Telemetry.OTLPEndpoint != "http://localhost:4317" {
		t.Errorf("expected endpoint, got %s", cfg.Telemetry.OTLPEndpoint)
	}

	headers := cfg.Telemetry.OTLPHeaders
	if headers["x-api-key"] != "secret-token" {
		t.Errorf("expected x-api-key=secret-token, got %s", headers["x-api-key"])
	}
	if headers["x-org-id"] != "org-123" {
		t.Errorf("expected x-org-id=org-123, got %s", headers["x-org-id"])
	}
}

func TestLoadWithCLITelemetryBasicAuth(t *testing.T) {
	args := []string{
		"--set", "telemetry.exporter=otlp",
		"--set", "telemetry.otlp_user=admin",
		"--set", "telemetry.otlp_token=password123",
	}

	cfg, err := LoadWithCLI(args)
	if err != nil {
		t.Fatalf("LoadWithCLI failed: %v", err)
	}

	if cfg.Telemetry.OTLPUser != "admin" {
		t.Errorf("expected user admin, got %s", cfg.Telemetry.OTLPUser)
	}
	if cfg.Telemetry.OTLPToken != "password123" {
		t.Errorf("expected token password123, got %s", cfg.Telemetry.OTLPToken)
	}
}

func TestLoadWithCLIInvalidSet(t *testing.T) {
	_, err := LoadWithCLI([]string{"--set", "no-equals-here"})
	if err == nil {
		t.Fatal("expected error for malformed --set")
	}
}

func TestProfileConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	// Create config.dev.yaml
	devPath := filepath.Join(tmpDir, "config.dev.yaml")
	if err := os.WriteFile(devPath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create dev config: %v", err)
	}

	basePath := filepath.Join(tmpDir, "config.yaml")

	tests := []struct {
		name     string
		base     string
		profile  string
		wantPath string
	}{
		{
			name:     "existing profile",
			base:     basePath,
			profile:  "dev",
			wantPath: devPath,
		},
		{
			name:     "nonexistent profile",
			base:     basePath,
			profile:  "prod",
			wantPath: "",
		},
		{
			name:     "empty profile",
			base:     basePath,
			profile:  "",
			wantPath: "",
		},
		{
			name:     "empty base",
			base:     "",
			profile:  "dev",
			wantPath: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := profileConfigPath(tc.base, tc.profile)
			if got != tc.wantPath {
				t.Errorf("profileConfigPath(%q, %q) = %q, want %q", tc.base, tc.profile, got, tc.wantPath)
			}
		})
	}
}
