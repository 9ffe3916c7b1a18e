package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the product finder.
type Config struct {
	Catalogs  []CatalogConfig `yaml:"catalogs"`
	Data      DataConfig      `yaml:"data"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Recommend RecommendConfig `yaml:"recommend"`
	Responder ResponderConfig `yaml:"responder"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CatalogConfig names one catalog text source to ingest.
type CatalogConfig struct {
	Name     string `yaml:"name"`     // catalog identifier, e.g. "Labels & Signs"
	Category string `yaml:"category"` // catalog section, e.g. "Labels & Decals"
	Path     string `yaml:"path"`     // page-text directory or .txt dump
}

// DataConfig holds data and cache locations.
type DataConfig struct {
	PurchasesFile string `yaml:"purchases_file"`
	ProcessedDir  string `yaml:"processed_dir"`
	CacheDir      string `yaml:"cache_dir"`
}

// EmbeddingConfig holds embedding backend configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g. "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // environment variable for API key
	BaseURL   string `yaml:"base_url"`    // for self-hosted endpoints
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// SearchConfig holds retrieval parameters.
type SearchConfig struct {
	TopK                int     `yaml:"top_k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// RecommendConfig holds recommendation parameters.
type RecommendConfig struct {
	TopN     int     `yaml:"top_n"`
	MinScore float64 `yaml:"min_score"`
}

// ResponderConfig selects how query responses are generated.
type ResponderConfig struct {
	Provider  string `yaml:"provider"` // "template" or "openai"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			PurchasesFile: "data/purchases.csv",
			ProcessedDir:  "data/processed",
			CacheDir:      "cache",
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		Search: SearchConfig{
			TopK:                5,
			SimilarityThreshold: 0.25,
		},
		Recommend: RecommendConfig{
			TopN:     5,
			MinScore: 2.0,
		},
		Responder: ResponderConfig{
			Provider:  "template",
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for partfinder.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "partfinder.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".partfinder", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexCachePath returns the path of the persisted search index.
func (c *Config) IndexCachePath() string {
	return filepath.Join(c.Data.CacheDir, "product_index.db")
}
