// Package config provides configuration loading and validation for the
// interview service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the service configuration. Values can come from a JSON
// file, environment variables, or both; environment variables win.
type Config struct {
	// Server
	Port int `json:"port,omitempty"`

	// Providers
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty runs in-memory

	// Retrieval
	SearchEndpoint string `json:"search_endpoint,omitempty"` // Azure AI Search service URL
	SearchAPIKey   string `json:"search_api_key,omitempty"`
	SearchIndex    string `json:"search_index,omitempty"`
	RetrievalTopK  int    `json:"retrieval_top_k,omitempty"`
	ContextBudget  int    `json:"context_budget,omitempty"` // max prompt context length in runes

	// Reference population for percentiles
	ReferenceDataPath string `json:"reference_data_path,omitempty"` // CSV file; empty disables percentiles
}

// Defaults applied when neither file nor environment sets a value.
const (
	DefaultPort          = 8080
	DefaultRetrievalTopK = 5
	DefaultContextBudget = 1800
	DefaultSearchIndex   = "company-docs"
)

// Load reads configuration from an optional JSON file and the
// environment. path may be empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Port = n
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("SEARCH_ENDPOINT"); v != "" {
		c.SearchEndpoint = v
	}
	if v := os.Getenv("SEARCH_API_KEY"); v != "" {
		c.SearchAPIKey = v
	}
	if v := os.Getenv("SEARCH_INDEX"); v != "" {
		c.SearchIndex = v
	}
	if v := os.Getenv("REFERENCE_DATA_PATH"); v != "" {
		c.ReferenceDataPath = v
	}
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.RetrievalTopK == 0 {
		c.RetrievalTopK = DefaultRetrievalTopK
	}
	if c.ContextBudget == 0 {
		c.ContextBudget = DefaultContextBudget
	}
	if c.SearchIndex == "" {
		c.SearchIndex = DefaultSearchIndex
	}
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: api_key is required (set GEMINI_API_KEY)")
	}
	if c.SearchEndpoint == "" {
		return fmt.Errorf("config error: search_endpoint is required (set SEARCH_ENDPOINT)")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.RetrievalTopK < 1 {
		return fmt.Errorf("config error: retrieval_top_k must be positive")
	}
	if c.ReferenceDataPath != "" {
		if _, err := os.Stat(c.ReferenceDataPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: reference data file not found: %s", c.ReferenceDataPath)
		}
	}
	return nil
}
