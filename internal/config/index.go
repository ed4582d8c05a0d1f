package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvIndexDefaultTopK = "INDEX_DEFAULT_TOP_K"
	EnvIndexMaxTopK     = "INDEX_MAX_TOP_K"
)

// IndexConfig bounds similarity search result sizes.
type IndexConfig struct {
	DefaultTopK int `toml:"default_top_k"`
	MaxTopK     int `toml:"max_top_k"`
}

// Finalize applies defaults, loads environment overrides, and validates the index configuration.
func (c *IndexConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *IndexConfig) Merge(overlay *IndexConfig) {
	if overlay.DefaultTopK != 0 {
		c.DefaultTopK = overlay.DefaultTopK
	}
	if overlay.MaxTopK != 0 {
		c.MaxTopK = overlay.MaxTopK
	}
}

// Clamp normalizes a requested result count against the configured bounds.
func (c *IndexConfig) Clamp(topK int) int {
	if topK < 1 {
		return c.DefaultTopK
	}
	return min(topK, c.MaxTopK)
}

func (c *IndexConfig) loadDefaults() {
	if c.DefaultTopK <= 0 {
		c.DefaultTopK = 5
	}
	if c.MaxTopK <= 0 {
		c.MaxTopK = 50
	}
}

func (c *IndexConfig) loadEnv() {
	if v := os.Getenv(EnvIndexDefaultTopK); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultTopK = n
		}
	}
	if v := os.Getenv(EnvIndexMaxTopK); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTopK = n
		}
	}
}

func (c *IndexConfig) validate() error {
	if c.DefaultTopK < 1 {
		return fmt.Errorf("default_top_k must be positive")
	}
	if c.DefaultTopK > c.MaxTopK {
		return fmt.Errorf("default_top_k cannot exceed max_top_k")
	}
	return nil
}
