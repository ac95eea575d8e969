package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the search service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Cache      CacheConfig      `yaml:"cache"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Auth       AuthConfig       `yaml:"auth"`
	Search     SearchConfig     `yaml:"search"`
	CORS       CORSConfig       `yaml:"cors"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the catalog (PostgreSQL) connection settings.
type DatabaseConfig struct {
	DSN              string `yaml:"dsn"`
	MaxConns         int    `yaml:"max_conns"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds criteria cache settings.
// The in-process LRU is always on; Driver selects an optional shared tier.
type CacheConfig struct {
	MemorySize int      `yaml:"memory_size"`
	TTLSec     int      `yaml:"ttl_sec"`
	Driver     string   `yaml:"driver"` // none, redis, valkey (default: none)
	Addrs      []string `yaml:"addrs"`
	Password   string   `yaml:"password"`
	KeyPrefix  string   `yaml:"key_prefix"`
}

// Shared reports whether a Redis/Valkey tier is configured.
func (c CacheConfig) Shared() bool {
	return c.Driver == "redis" || c.Driver == "valkey"
}

// ClassifierConfig holds external semantic classifier settings.
type ClassifierConfig struct {
	Provider    string  `yaml:"provider"` // openai, bedrock, none (default: openai)
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Region      string  `yaml:"region"` // bedrock only
	TimeoutSec  int     `yaml:"timeout_sec"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// AuthConfig holds request authentication settings.
type AuthConfig struct {
	Disabled      bool     `yaml:"disabled"`
	APIKeys       []string `yaml:"api_keys"`
	SessionCookie string   `yaml:"session_cookie"`
	SessionPrefix string   `yaml:"session_prefix"`
}

// SearchConfig holds pagination settings.
type SearchConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// CORSConfig holds cross-origin settings for the web front-end.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML with ${VAR} substitution, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.MemorySize <= 0 {
		c.Cache.MemorySize = 10000
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 24 * 3600
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "none"
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "wedsearch:"
	}
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = "openai"
	}
	if c.Classifier.Model == "" {
		switch c.Classifier.Provider {
		case "openai":
			c.Classifier.Model = "gpt-4o-mini"
		case "bedrock":
			c.Classifier.Model = "anthropic.claude-3-haiku-20240307-v1:0"
		}
	}
	if c.Classifier.TimeoutSec <= 0 {
		c.Classifier.TimeoutSec = 8
	}
	if c.Classifier.MaxTokens <= 0 {
		c.Classifier.MaxTokens = 300
	}
	if c.Classifier.Temperature <= 0 {
		c.Classifier.Temperature = 0.1
	}
	c.Auth.APIKeys = slices.DeleteFunc(c.Auth.APIKeys, func(k string) bool {
		return strings.TrimSpace(k) == ""
	})
	if c.Auth.SessionCookie == "" {
		c.Auth.SessionCookie = "next-auth.session-token"
	}
	if c.Auth.SessionPrefix == "" {
		c.Auth.SessionPrefix = "session:"
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 20
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	switch c.Cache.Driver {
	case "none":
	case "redis", "valkey":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be \"none\", \"redis\" or \"valkey\", got %q", c.Cache.Driver)
	}

	switch c.Classifier.Provider {
	case "none":
	case "openai":
		if c.Classifier.APIKey == "" {
			return fmt.Errorf("classifier.api_key is required for provider \"openai\"")
		}
	case "bedrock":
		if c.Classifier.Region == "" {
			return fmt.Errorf("classifier.region is required for provider \"bedrock\"")
		}
	default:
		return fmt.Errorf(
			"classifier.provider must be \"openai\", \"bedrock\" or \"none\", got %q", c.Classifier.Provider,
		)
	}

	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf("search.default_page_size %d exceeds search.max_page_size %d",
			c.Search.DefaultPageSize, c.Search.MaxPageSize)
	}

	if !c.Auth.Disabled && len(c.Auth.APIKeys) == 0 && !c.Cache.Shared() {
		return fmt.Errorf("auth needs api_keys or a shared cache driver for session lookup (or auth.disabled: true)")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
