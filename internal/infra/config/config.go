// Package config provides application-wide configuration. Values come from
// three layers, later layers winning: built-in defaults, an optional YAML
// file (CONFIG_FILE, default ./config.yml if present), then environment
// variables. All fields have safe defaults so the binary runs locally with
// nothing but the provider API keys set.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the chat backend.
type Config struct {
	// Persistence
	SQLitePath    string `yaml:"sqlite_path"`     // SQLITE_PATH — default "hyperdrive.db"
	VectorDataDir string `yaml:"vector_data_dir"` // VECTOR_DATA_DIR — default ".data"

	// Provider credentials and endpoints. Empty base URLs mean the public
	// API endpoints; tests point them at httptest servers.
	OpenAIBaseURL     string `yaml:"openai_base_url"`     // OPENAI_BASE_URL
	OpenAIAPIKey      string `yaml:"openai_api_key"`      // OPENAI_API_KEY
	AnthropicBaseURL  string `yaml:"anthropic_base_url"`  // ANTHROPIC_BASE_URL
	AnthropicAPIKey   string `yaml:"anthropic_api_key"`   // ANTHROPIC_API_KEY
	ReplicateBaseURL  string `yaml:"replicate_base_url"`  // REPLICATE_BASE_URL
	ReplicateAPIToken string `yaml:"replicate_api_token"` // REPLICATE_API_TOKEN

	// Embeddings
	EmbeddingBaseURL string `yaml:"embedding_base_url"` // EMBEDDING_BASE_URL — default OpenAI
	EmbeddingModel   string `yaml:"embedding_model"`    // EMBEDDING_MODEL — default "text-embedding-ada-002"

	// Document store
	DriveBaseURL  string `yaml:"drive_base_url"`  // DRIVE_BASE_URL — default Google Drive API
	DriveAPIToken string `yaml:"drive_api_token"` // DRIVE_API_TOKEN

	// Ingestion chunking
	ChunkSize    int `yaml:"chunk_size"`    // CHUNK_SIZE — default 4000 chars
	ChunkOverlap int `yaml:"chunk_overlap"` // CHUNK_OVERLAP — default 200 chars

	// ProviderTimeoutSeconds bounds every outbound provider call.
	ProviderTimeoutSeconds int `yaml:"provider_timeout_seconds"` // PROVIDER_TIMEOUT_SECONDS — default 60
}

const (
	defaultSQLitePath     = "hyperdrive.db"
	defaultVectorDataDir  = ".data"
	defaultEmbeddingModel = "text-embedding-ada-002"
	defaultChunkSize      = 4000
	defaultChunkOverlap   = 200
	defaultTimeoutSeconds = 60
	defaultConfigFile     = "config.yml"

	envConfigFile = "CONFIG_FILE"
)

// Load reads configuration from the YAML file and environment, applying
// defaults for missing values. A missing config file is not an error unless
// CONFIG_FILE names it explicitly.
func Load() (Config, error) {
	cfg := Config{
		SQLitePath:             defaultSQLitePath,
		VectorDataDir:          defaultVectorDataDir,
		EmbeddingModel:         defaultEmbeddingModel,
		ChunkSize:              defaultChunkSize,
		ChunkOverlap:           defaultChunkOverlap,
		ProviderTimeoutSeconds: defaultTimeoutSeconds,
	}

	if err := loadFile(&cfg); err != nil {
		return Config{}, err
	}
	loadEnv(&cfg)

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return Config{}, fmt.Errorf("config: chunk_overlap (%d) must be smaller than chunk_size (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	return cfg, nil
}

// ProviderTimeout returns the outbound call timeout as a Duration.
func (c Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

// loadFile overlays values from the YAML config file, if one exists.
func loadFile(cfg *Config) error {
	path := os.Getenv(envConfigFile)
	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}
	return nil
}

// loadEnv overlays values from environment variables.
func loadEnv(cfg *Config) {
	overlayStr(&cfg.SQLitePath, "SQLITE_PATH")
	overlayStr(&cfg.VectorDataDir, "VECTOR_DATA_DIR")
	overlayStr(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	overlayStr(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	overlayStr(&cfg.AnthropicBaseURL, "ANTHROPIC_BASE_URL")
	overlayStr(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	overlayStr(&cfg.ReplicateBaseURL, "REPLICATE_BASE_URL")
	overlayStr(&cfg.ReplicateAPIToken, "REPLICATE_API_TOKEN")
	overlayStr(&cfg.EmbeddingBaseURL, "EMBEDDING_BASE_URL")
	overlayStr(&cfg.EmbeddingModel, "EMBEDDING_MODEL")
	overlayStr(&cfg.DriveBaseURL, "DRIVE_BASE_URL")
	overlayStr(&cfg.DriveAPIToken, "DRIVE_API_TOKEN")
	overlayInt(&cfg.ChunkSize, "CHUNK_SIZE")
	overlayInt(&cfg.ChunkOverlap, "CHUNK_OVERLAP")
	overlayInt(&cfg.ProviderTimeoutSeconds, "PROVIDER_TIMEOUT_SECONDS")
}

func overlayStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
