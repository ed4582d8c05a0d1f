package config

import "fmt"

// SeedAgent describes an agent created at startup.
type SeedAgent struct {
	ID           string   `toml:"id"`
	Name         string   `toml:"name"`
	Description  string   `toml:"description"`
	Capabilities []string `toml:"capabilities"`
}

// SeedConfig lists agents to register when the process starts.
type SeedConfig struct {
	Agents []SeedAgent `toml:"agents"`
}

// Merge replaces the seed catalog when the overlay defines one.
func (c *SeedConfig) Merge(overlay *SeedConfig) {
	if overlay.Agents != nil {
		c.Agents = overlay.Agents
	}
}

func (c *SeedConfig) validate() error {
	names := make(map[string]struct{}, len(c.Agents))
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agents[%d]: name required", i)
		}
		if _, ok := names[a.Name]; ok {
			return fmt.Errorf("agents[%d]: duplicate name %q", i, a.Name)
		}
		names[a.Name] = struct{}{}
	}
	return nil
}
