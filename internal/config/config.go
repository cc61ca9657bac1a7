package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the shelfwise API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	AWS      AWSConfig      `yaml:"aws"`
	LLM      LLMConfig      `yaml:"llm"`
	Auth     AuthConfig     `yaml:"auth"`
	Search   SearchConfig   `yaml:"search"`
	Cache    CacheConfig    `yaml:"cache"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// AWSConfig holds settings for the S3 and DynamoDB collaborators.
type AWSConfig struct {
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	Table         string `yaml:"table"`
	PresignTTLSec int    `yaml:"presign_ttl_sec"`
}

// LLMConfig holds model endpoint settings.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// SearchConfig holds index and ranking settings.
type SearchConfig struct {
	IndexName       string  `yaml:"index_name"`
	KeyPrefix       string  `yaml:"key_prefix"`
	DefaultMax      int     `yaml:"default_max_results"`
	MaxPageSize     int     `yaml:"max_page_size"`
	MatchThreshold  float64 `yaml:"match_threshold"` // resolver token-overlap acceptance
	SimilarityFloor float64 `yaml:"similarity_floor"`
}

// CacheConfig holds suggestion cache TTLs.
type CacheConfig struct {
	SuggestionTTLSec int `yaml:"suggestion_ttl_sec"`
	InsightsTTLSec   int `yaml:"insights_ttl_sec"`
}

// IngestConfig holds the upload pipeline settings.
type IngestConfig struct {
	QueueSize    int `yaml:"queue_size"`
	Workers      int `yaml:"workers"`
	MaxPDFPages  int `yaml:"max_pdf_pages"`
	MaxTextChars int `yaml:"max_text_chars"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.AWS.PresignTTLSec <= 0 {
		c.AWS.PresignTTLSec = 3600
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.Search.IndexName == "" {
		c.Search.IndexName = "idx:documents"
	}
	if c.Search.KeyPrefix == "" {
		c.Search.KeyPrefix = "documents:"
	}
	if c.Search.DefaultMax <= 0 {
		c.Search.DefaultMax = 5
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
	if c.Search.MatchThreshold <= 0 {
		c.Search.MatchThreshold = 0.5
	}
	if c.Search.SimilarityFloor <= 0 {
		c.Search.SimilarityFloor = 0.6
	}
	if c.Cache.SuggestionTTLSec <= 0 {
		c.Cache.SuggestionTTLSec = 1800
	}
	if c.Cache.InsightsTTLSec <= 0 {
		c.Cache.InsightsTTLSec = 900
	}
	if c.Ingest.QueueSize <= 0 {
		c.Ingest.QueueSize = 64
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 2
	}
	if c.Ingest.MaxPDFPages <= 0 {
		c.Ingest.MaxPDFPages = 3
	}
	if c.Ingest.MaxTextChars <= 0 {
		c.Ingest.MaxTextChars = 3000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.AWS.Bucket == "" {
		return fmt.Errorf("aws.bucket is required")
	}
	if c.AWS.Table == "" {
		return fmt.Errorf("aws.table is required")
	}
	if c.Search.MatchThreshold > 1 {
		return fmt.Errorf("search.match_threshold must be in (0,1], got %g", c.Search.MatchThreshold)
	}
	if c.Search.SimilarityFloor > 1 {
		return fmt.Errorf("search.similarity_floor must be in (0,1], got %g", c.Search.SimilarityFloor)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
