package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"
)

const (
	EnvBridgeMaxConcurrency = "BRIDGE_MAX_CONCURRENCY"
	EnvBridgeMaxMessageSize = "BRIDGE_MAX_MESSAGE_SIZE"
)

// BridgeConfig controls the stdio command channel used by the desktop shell.
type BridgeConfig struct {
	MaxConcurrency    int    `toml:"max_concurrency"`
	MaxMessageSize    string `toml:"max_message_size"`
	maxMessageSizeVal int64
}

func (c *BridgeConfig) MaxMessageSizeBytes() int64 {
	return c.maxMessageSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the bridge configuration.
func (c *BridgeConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *BridgeConfig) Merge(overlay *BridgeConfig) {
	if overlay.MaxConcurrency != 0 {
		c.MaxConcurrency = overlay.MaxConcurrency
	}
	if overlay.MaxMessageSize != "" {
		c.MaxMessageSize = overlay.MaxMessageSize
	}
}

func (c *BridgeConfig) loadDefaults() {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 8
	}
	if c.MaxMessageSize == "" {
		c.MaxMessageSize = "256MB"
	}
}

func (c *BridgeConfig) loadEnv() {
	if v := os.Getenv(EnvBridgeMaxConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrency = n
		}
	}
	if v := os.Getenv(EnvBridgeMaxMessageSize); v != "" {
		c.MaxMessageSize = v
	}
}

func (c *BridgeConfig) validate() error {
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be positive")
	}

	size, err := units.FromHumanSize(c.MaxMessageSize)
	if err != nil {
		return fmt.Errorf("invalid max_message_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_message_size must be positive")
	}
	c.maxMessageSizeVal = size

	return nil
}
