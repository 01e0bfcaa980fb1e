// Package config provides application configuration management.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sigs.k8s.io/yaml"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerPort string `json:"serverPort"`
	StaticDir  string `json:"staticDir"`
	APIToken   string `json:"-"`

	// Model provider configuration
	ProviderBaseURL string        `json:"providerBaseUrl"`
	ProviderAPIKey  string        `json:"-"`
	Model           string        `json:"model"`
	SystemPrompt    string        `json:"systemPrompt"`
	RequestTimeout  time.Duration `json:"-"`

	// Equation typesetting
	TypesetBin  string   `json:"typesetBin"`
	TypesetArgs []string `json:"typesetArgs"`

	// Persistence (request log only)
	StatePath    string `json:"statePath"`
	DataStoreDSN string `json:"dataStoreDsn"`
	HistoryLimit int    `json:"historyLimit"`

	// Command schema override for export validation
	CommandSchemaPath string `json:"commandSchemaPath"`

	// Redis / events configuration
	RedisAddr        string `json:"redisAddr"`
	RedisUsername    string `json:"redisUsername"`
	RedisPassword    string `json:"-"`
	RedisDB          int    `json:"redisDb"`
	RedisTLSEnabled  bool   `json:"redisTlsEnabled"`
	RedisTLSInsecure bool   `json:"redisTlsInsecure"`
	EventsChannel    string `json:"eventsChannel"`
}

// Load loads configuration from environment variables with defaults, then
// overlays an optional YAML config file (AI_TEACHER_CONFIG).
func Load() *Config {
	statePath := getEnv("STATE_PATH", "./state")
	dsn := getEnv("DATASTORE_DSN", "")
	if dsn == "" {
		dsn = filepath.Join(statePath, "ai-teacher.db")
	}
	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		StaticDir:         getEnv("STATIC_DIR", "./web/static"),
		APIToken:          os.Getenv("AI_TEACHER_API_TOKEN"),
		ProviderBaseURL:   getEnv("LLM_BASE_URL", "https://api.openai.com"),
		ProviderAPIKey:    os.Getenv("OPENAI_API_KEY"),
		Model:             getEnv("LLM_MODEL", "gpt-4o-mini"),
		RequestTimeout:    getEnvDuration("LLM_REQUEST_TIMEOUT", 2*time.Minute),
		TypesetBin:        getEnv("TYPESET_BIN", ""),
		TypesetArgs:       splitArgs(os.Getenv("TYPESET_ARGS")),
		StatePath:         statePath,
		DataStoreDSN:      dsn,
		HistoryLimit:      getEnvInt("HISTORY_LIMIT", 50),
		CommandSchemaPath: getEnv("COMMAND_SCHEMA_PATH", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisUsername:     getEnv("REDIS_USERNAME", ""),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisTLSEnabled:   getEnvBool("REDIS_TLS_ENABLED", false),
		RedisTLSInsecure:  getEnvBool("REDIS_TLS_INSECURE_SKIP_VERIFY", false),
		EventsChannel:     getEnv("EVENTS_CHANNEL", "ai-teacher-events"),
	}

	if path := os.Getenv("AI_TEACHER_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			log.Printf("Invalid config file %s: %v (ignored)", path, err)
		}
	}
	return cfg
}

// overlayFile merges a YAML file over the environment-derived config.
// Only fields present in the file are touched.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Fields(s)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s: %s, using default %s", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s: %s, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes", "y":
			return true
		case "0", "false", "no", "n":
			return false
		default:
			log.Printf("Invalid bool for %s: %s, using default %t", key, value, defaultValue)
		}
	}
	return defaultValue
}
