// Package config resolves the service's runtime configuration from
// built-in defaults, a config file, and environment variables, in that
// increasing order of precedence.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete runtime configuration surface (spec.md section
// 6: environment variable contract).
type Config struct {
	ServiceName string `mapstructure:"service_name"`
	GRPCPort    int    `mapstructure:"grpc_port"`
	HTTPPort    int    `mapstructure:"http_port"`
	LogLevel    string `mapstructure:"log_level"`
	Environment string `mapstructure:"environment"`

	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Local     LocalLLMConfig  `mapstructure:"local_llm"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Cache     CacheConfig     `mapstructure:"cache"`

	MaxSyncRecords     int     `mapstructure:"max_sync_records"`
	DefaultBatchSize   int     `mapstructure:"default_batch_size"`
	CoherenceThreshold float64 `mapstructure:"coherence_threshold"`

	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

type AnthropicConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int64         `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	MaxRPS      int           `mapstructure:"max_rps"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type LocalLLMConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int64         `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	MaxRPS      int           `mapstructure:"max_rps"`
	MaxInFlight int           `mapstructure:"max_in_flight"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RetrievalConfig struct {
	WeaviateURL string `mapstructure:"weaviate_url"`
	TopK        int    `mapstructure:"top_k"`
}

type CacheConfig struct {
	RedisURL   string        `mapstructure:"redis_url"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type TracingConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Load builds a Config from the defaults below, specmint.yaml (if
// present), and environment variables (case-insensitive, per spec.md
// section 6), in that ascending order of precedence.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("specmint")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// CACHE_TTL_SECONDS (or a bare number in the config file) is a count of
	// seconds; the Duration decoder only accepts unit-suffixed strings.
	if secs, err := strconv.Atoi(v.GetString("cache.default_ttl")); err == nil {
		v.Set("cache.default_ttl", time.Duration(secs)*time.Second)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "syndata")
	v.SetDefault("grpc_port", 50051)
	v.SetDefault("http_port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "development")

	v.SetDefault("anthropic.model", "claude-3-haiku-20240307")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.temperature", 0.7)
	v.SetDefault("anthropic.max_rps", 3)
	v.SetDefault("anthropic.timeout", 30*time.Second)

	v.SetDefault("local_llm.enabled", false)
	v.SetDefault("local_llm.base_url", "http://localhost:8000/v1")
	v.SetDefault("local_llm.model", "qwen2.5")
	v.SetDefault("local_llm.max_tokens", 4096)
	v.SetDefault("local_llm.temperature", 0.7)
	v.SetDefault("local_llm.max_rps", 5)
	v.SetDefault("local_llm.max_in_flight", 4)
	v.SetDefault("local_llm.timeout", 60*time.Second)

	v.SetDefault("retrieval.weaviate_url", "")
	v.SetDefault("retrieval.top_k", 5)

	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.default_ttl", 24*time.Hour)

	v.SetDefault("max_sync_records", 1000)
	v.SetDefault("default_batch_size", 50)
	v.SetDefault("coherence_threshold", 0.7)

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.otlp_endpoint", "")
}

// bindEnv wires the exact env var names spec.md section 6 names, since
// viper's automatic env matching alone only covers the dotted-key form
// (SERVICE_NAME vs. the nested ANTHROPIC_API_KEY/VLLM_BASE_URL shape the
// spec's variables actually use).
func bindEnv(v *viper.Viper) {
	binds := map[string]string{
		"service_name":              "SERVICE_NAME",
		"grpc_port":                 "GRPC_PORT",
		"http_port":                 "HTTP_PORT",
		"log_level":                 "LOG_LEVEL",
		"environment":               "ENVIRONMENT",
		"anthropic.api_key":         "ANTHROPIC_API_KEY",
		"anthropic.model":           "CLAUDE_MODEL",
		"anthropic.max_tokens":      "CLAUDE_MAX_TOKENS",
		"anthropic.temperature":     "CLAUDE_TEMPERATURE",
		"local_llm.base_url":        "VLLM_BASE_URL",
		"local_llm.model":           "VLLM_MODEL",
		"local_llm.enabled":         "USE_LOCAL_LLM",
		"retrieval.weaviate_url":    "WEAVIATE_URL",
		"retrieval.top_k":           "RAG_TOP_K",
		"cache.redis_url":           "REDIS_URL",
		"cache.default_ttl":         "CACHE_TTL_SECONDS",
		"max_sync_records":          "MAX_SYNC_RECORDS",
		"default_batch_size":        "DEFAULT_BATCH_SIZE",
		"coherence_threshold":       "COHERENCE_THRESHOLD",
		"prometheus.enabled":        "PROMETHEUS_ENABLED",
		"tracing.enabled":           "TRACING_ENABLED",
		"tracing.otlp_endpoint":     "OTLP_ENDPOINT",
	}
	for key, env := range binds {
		_ = v.BindEnv(key, env)
	}
}

// Validate checks the resolved configuration for internal consistency.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("grpc_port must be a valid TCP port")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be a valid TCP port")
	}
	if c.MaxSyncRecords <= 0 {
		return fmt.Errorf("max_sync_records must be positive")
	}
	if c.DefaultBatchSize <= 0 {
		return fmt.Errorf("default_batch_size must be positive")
	}
	if c.CoherenceThreshold < 0 || c.CoherenceThreshold > 1 {
		return fmt.Errorf("coherence_threshold must be between 0 and 1")
	}
	return nil
}
