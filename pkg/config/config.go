package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log        LogConfig        `koanf:"log"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Weather    WeatherConfig    `koanf:"weather"`
	Knowledge  KnowledgeConfig  `koanf:"knowledge"`
	Graph      GraphConfig      `koanf:"graph"`
	Mailbox    MailboxConfig    `koanf:"mailbox"`
	Transcript TranscriptConfig `koanf:"transcript"`
	Bus        BusConfig        `koanf:"bus"`
	HTTP       HTTPConfig       `koanf:"http"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Exporter           string            `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint       string            `koanf:"otlp_endpoint"`
	OTLPInsecure       bool              `koanf:"otlp_insecure"`
	OTLPTimeoutSeconds int               `koanf:"otlp_timeout_seconds"`
	OTLPHeaders        map[string]string `koanf:"otlp_headers"`
	OTLPUser           string            `koanf:"otlp_user"`
	OTLPToken          string            `koanf:"otlp_token"`
}

type WeatherConfig struct {
	Enabled         bool   `koanf:"enabled"`
	BaseURL         string `koanf:"base_url"`
	City            string `koanf:"city"`
	TimeoutSeconds  int    `koanf:"timeout_seconds"`
	Retries         int    `koanf:"retries"`
	CachePath       string `koanf:"cache_path"` // empty disables the bolt cache
	CacheTTLMinutes int    `koanf:"cache_ttl_minutes"`
}

type KnowledgeConfig struct {
	File   string       `koanf:"file"` // optional YAML seed file
	Vector VectorConfig `koanf:"vector"`
}

type VectorConfig struct {
	Enabled         bool    `koanf:"enabled"`
	QdrantAddr      string  `koanf:"qdrant_addr"`
	Collection      string  `koanf:"collection"`
	EmbedderBaseURL string  `koanf:"embedder_base_url"`
	EmbedderModel   string  `koanf:"embedder_model"`
	ScoreThreshold  float64 `koanf:"score_threshold"`
}

type GraphConfig struct {
	File string `koanf:"file"` // empty uses the built-in hospital graph
}

type MailboxConfig struct {
	Backend string `koanf:"backend"` // memory, sqlite
	DSN     string `koanf:"dsn"`
}

type TranscriptConfig struct {
	Backend string `koanf:"backend"` // memory, sqlite
	DSN     string `koanf:"dsn"`
}

type BusConfig struct {
	Backend string      `koanf:"backend"` // local, kafka
	Kafka   KafkaConfig `koanf:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
	GroupID string   `koanf:"group_id"`
}

type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// Load reads configuration from defaults, an optional YAML file and
// AGORA_* environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	return load(path, "", nil)
}

// LoadWithProfile loads the base file and overlays the profile-specific
// file (config.yaml + profile "dev" -> config.dev.yaml) when it exists.
func LoadWithProfile(path, profile string) (*Config, error) {
	return load(path, profile, nil)
}

// LoadWithCLI loads configuration honoring --config, --profile (or its
// alias --env) and repeated --set key=value overrides from the argument
// list. Unknown arguments are ignored so callers can mix in their own
// flags.
func LoadWithCLI(args []string) (*Config, error) {
	path, profile, sets, err := parseCLIOverrides(args)
	if err != nil {
		return nil, err
	}
	return load(path, profile, sets)
}

// parseCLIOverrides extracts config-related flags from an argument list.
func parseCLIOverrides(args []string) (path, profile string, sets []string, err error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config":
			if i+1 >= len(args) {
				return "", "", nil, fmt.Errorf("--config requires a value")
			}
			path = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			path = strings.TrimPrefix(arg, "--config=")
		case arg == "--profile" || arg == "--env":
			if i+1 >= len(args) {
				return "", "", nil, fmt.Errorf("%s requires a value", arg)
			}
			profile = args[i+1]
			i++
		case strings.HasPrefix(arg, "--profile="):
			profile = strings.TrimPrefix(arg, "--profile=")
		case strings.HasPrefix(arg, "--env="):
			profile = strings.TrimPrefix(arg, "--env=")
		case arg == "--set":
			if i+1 >= len(args) {
				return "", "", nil, fmt.Errorf("--set requires a value")
			}
			if !strings.Contains(args[i+1], "=") {
				return "", "", nil, fmt.Errorf("invalid --set %q, want key=value", args[i+1])
			}
			sets = append(sets, args[i+1])
			i++
		case strings.HasPrefix(arg, "--set="):
			set := strings.TrimPrefix(arg, "--set=")
			if !strings.Contains(set, "=") {
				return "", "", nil, fmt.Errorf("invalid --set %q, want key=value", set)
			}
			sets = append(sets, set)
		}
	}
	return path, profile, sets, nil
}

// load builds a fresh koanf instance per call so repeated loads never
// leak state into each other.
func load(path, profile string, sets []string) (*Config, error) {
	k := koanf.New(".")

	setDefaults(k)

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Overlay the profile file when present
	if profilePath := profileConfigPath(path, profile); profilePath != "" {
		if err := k.Load(file.Provider(profilePath), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load from ENV (AGORA_WEATHER_CITY -> weather.city)
	if err := k.Load(env.Provider("AGORA_", ".", envKeyToPath), nil); err != nil {
		return nil, err
	}

	// 4. --set overrides win over everything
	for _, set := range sets {
		key, value, found := strings.Cut(set, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", set)
		}
		if err := k.Set(key, parseSetValue(value)); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(k *koanf.Koanf) {
	k.Set("log.level", "info")
	k.Set("log.format", "text")

	k.Set("telemetry.exporter", "stdout")

	k.Set("weather.enabled", true)
	k.Set("weather.base_url", "https://wttr.in")
	k.Set("weather.city", "Bangalore")
	k.Set("weather.timeout_seconds", 10)
	k.Set("weather.retries", 3)
	k.Set("weather.cache_path", "")
	k.Set("weather.cache_ttl_minutes", 60)

	k.Set("knowledge.file", "")
	k.Set("knowledge.vector.enabled", false)
	k.Set("knowledge.vector.qdrant_addr", "localhost:6334")
	k.Set("knowledge.vector.collection", "agora_knowledge")
	k.Set("knowledge.vector.embedder_base_url", "http://localhost:11434")
	k.Set("knowledge.vector.embedder_model", "nomic-embed-text")
	k.Set("knowledge.vector.score_threshold", 0.7)

	k.Set("graph.file", "")

	k.Set("mailbox.backend", "memory")
	k.Set("mailbox.dsn", ":memory:")

	k.Set("transcript.backend", "memory")
	k.Set("transcript.dsn", ":memory:")

	k.Set("bus.backend", "local")
	k.Set("bus.kafka.brokers", []string{"localhost:9092"})
	k.Set("bus.kafka.topic", "agora.messages")
	k.Set("bus.kafka.group_id", "agora")

	k.Set("http.addr", ":8080")
}

// parseSetValue decodes JSON object and array values so structured
// overrides like bus.kafka.brokers=["a:9092","b:9092"] work from the
// command line. Everything else stays a string.
func parseSetValue(value string) any {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}
	return value
}

// envKeyToPath maps AGORA_SECTION_KEY to section.key. Sections with
// nested tables (knowledge.vector, bus.kafka) are matched first so
// underscores inside key names survive.
func envKeyToPath(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "AGORA_"))

	sections := []string{
		"knowledge_vector", "bus_kafka",
		"telemetry", "knowledge", "transcript", "weather",
		"mailbox", "graph", "http", "log", "bus",
	}
	for _, section := range sections {
		prefix := section + "_"
		if strings.HasPrefix(s, prefix) {
			return strings.ReplaceAll(section, "_", ".") + "." + strings.TrimPrefix(s, prefix)
		}
	}
	return strings.ReplaceAll(s, "_", ".")
}

// profileConfigPath derives the profile variant of a config path.
// Returns the variant only when both inputs are set and the file exists.
func profileConfigPath(base, profile string) string {
	if base == "" || profile == "" {
		return ""
	}
	dir := filepath.Dir(base)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(filepath.Base(base), ext)

	profilePath := filepath.Join(dir, name+"."+profile+ext)
	if _, err := os.Stat(profilePath); err != nil {
		return ""
	}
	return profilePath
}
