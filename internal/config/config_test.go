package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:       HTTPConfig{Port: 8080},
		Database:   DatabaseConfig{DSN: "postgres://localhost/catalog"},
		Classifier: ClassifierConfig{APIKey: "sk-test"},
		Auth:       AuthConfig{APIKeys: []string{"k1"}},
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

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"unknown cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "cache.driver"},
		{"shared cache without addrs", func(c *Config) { c.Cache.Driver = "valkey" }, "cache.addrs"},
		{"unknown provider", func(c *Config) { c.Classifier.Provider = "cohere" }, "classifier.provider"},
		{"openai without key", func(c *Config) { c.Classifier.APIKey = "" }, "classifier.api_key"},
		{"bedrock without region", func(c *Config) { c.Classifier.Provider = "bedrock" }, "classifier.region"},
		{"page sizes inverted", func(c *Config) { c.Search.DefaultPageSize = 500 }, "default_page_size"},
		{"no credential source", func(c *Config) { c.Auth.APIKeys = nil }, "auth"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestValidate_AuthSources(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.APIKeys = nil
	cfg.Auth.Disabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled auth should validate: %v", err)
	}

	cfg = validConfig()
	cfg.Auth.APIKeys = nil
	cfg.Cache.Driver = "redis"
	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("session lookup via shared cache should validate: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 30 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("unexpected http defaults: %+v", cfg.HTTP)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("expected MaxConns=10, got %d", cfg.Database.MaxConns)
	}
	if cfg.Cache.MemorySize != 10000 || cfg.Cache.TTLSec != 86400 || cfg.Cache.Driver != "none" {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Cache.KeyPrefix != "wedsearch:" {
		t.Errorf("expected KeyPrefix='wedsearch:', got %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Classifier.Provider != "openai" || cfg.Classifier.Model != "gpt-4o-mini" {
		t.Errorf("unexpected classifier defaults: %+v", cfg.Classifier)
	}
	if cfg.Classifier.MaxTokens != 300 || cfg.Classifier.Temperature != 0.1 || cfg.Classifier.TimeoutSec != 8 {
		t.Errorf("unexpected classifier limits: %+v", cfg.Classifier)
	}
	if cfg.Auth.SessionCookie != "next-auth.session-token" || cfg.Auth.SessionPrefix != "session:" {
		t.Errorf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Search.DefaultPageSize != 20 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
}

func TestApplyDefaults_BedrockModel(t *testing.T) {
	cfg := Config{Classifier: ClassifierConfig{Provider: "bedrock"}}
	cfg.ApplyDefaults()
	if !strings.HasPrefix(cfg.Classifier.Model, "anthropic.") {
		t.Errorf("expected an anthropic model default, got %q", cfg.Classifier.Model)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30},
		Cache:  CacheConfig{MemorySize: 5, KeyPrefix: "custom:"},
		Search: SearchConfig{DefaultPageSize: 50, MaxPageSize: 500},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Cache.MemorySize != 5 || cfg.Cache.KeyPrefix != "custom:" {
		t.Errorf("cache overrides lost: %+v", cfg.Cache)
	}
	if cfg.Search.DefaultPageSize != 50 || cfg.Search.MaxPageSize != 500 {
		t.Errorf("search overrides lost: %+v", cfg.Search)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("WEDSEARCH_TEST_KEY", "sk-from-env")

	yaml := `
http:
  port: 8080
database:
  dsn: ${WEDSEARCH_TEST_DSN:-postgres://localhost/catalog}
classifier:
  api_key: ${WEDSEARCH_TEST_KEY}
auth:
  disabled: true
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Classifier.APIKey != "sk-from-env" {
		t.Errorf("api_key = %q", cfg.Classifier.APIKey)
	}
	if cfg.Database.DSN != "postgres://localhost/catalog" {
		t.Errorf("dsn default not applied: %q", cfg.Database.DSN)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyDefaults_DropsEmptyAPIKeys(t *testing.T) {
	cfg := Config{Auth: AuthConfig{APIKeys: []string{"", "k1", "  "}}}
	cfg.ApplyDefaults()
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "k1" {
		t.Errorf("expected [k1], got %v", cfg.Auth.APIKeys)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://test/catalog")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Database.DSN != "postgres://test/catalog" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config")
	}
}
