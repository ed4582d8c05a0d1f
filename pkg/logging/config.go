package logging

import "os"

// Env names the environment variables that override Config fields.
type Env struct {
	Level  string
	Format string
}

// Config is the [logging] configuration section.
type Config struct {
	Level  Level  `toml:"level"`
	Format Format `toml:"format"`
	Source bool   `toml:"source"`
}

// Finalize applies defaults, then environment overrides, then validation.
// Level and format names are normalized to lower case.
func (c *Config) Finalize(env *Env) error {
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}

	if env != nil {
		if v := os.Getenv(env.Level); v != "" {
			c.Level = Level(v)
		}
		if v := os.Getenv(env.Format); v != "" {
			c.Format = Format(v)
		}
	}

	level, err := ParseLevel(string(c.Level))
	if err != nil {
		return err
	}
	format, err := ParseFormat(string(c.Format))
	if err != nil {
		return err
	}

	c.Level, c.Format = level, format
	return nil
}

// Merge copies the fields set in overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.Source {
		c.Source = true
	}
}
