package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all wumpus configuration.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Agent   AgentConfig   `yaml:"agent"`
	Storage StorageConfig `yaml:"storage"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// WorldConfig shapes the cave being generated.
type WorldConfig struct {
	Size      int     `yaml:"size"`
	StartRow  int     `yaml:"start_row"`
	StartCol  int     `yaml:"start_col"`
	PitChance float64 `yaml:"pit_chance"`
	Arrows    int     `yaml:"arrows"`
}

// AgentConfig bounds the agent's run.
type AgentConfig struct {
	MaxSteps int `yaml:"max_steps"`
}

// StorageConfig locates the episode log.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// UIConfig configures the interactive front end.
type UIConfig struct {
	AutoplayIntervalMS int `yaml:"autoplay_interval_ms"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration: the classic 4x4 cave
// with the agent in the bottom-left corner.
func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Size:      4,
			StartRow:  3,
			StartCol:  0,
			PitChance: 0.2,
			Arrows:    1,
		},
		Agent: AgentConfig{
			MaxSteps: 200,
		},
		Storage: StorageConfig{
			DatabasePath: "data/wumpus.db",
		},
		UI: UIConfig{
			AutoplayIntervalMS: 500,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "wumpus.log",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects configurations the simulator cannot honor.
func (c *Config) Validate() error {
	if c.World.Size < 2 {
		return fmt.Errorf("world.size must be at least 2, got %d", c.World.Size)
	}
	if c.World.StartRow < 0 || c.World.StartRow >= c.World.Size ||
		c.World.StartCol < 0 || c.World.StartCol >= c.World.Size {
		return fmt.Errorf("start cell (%d,%d) outside the %dx%d grid",
			c.World.StartRow, c.World.StartCol, c.World.Size, c.World.Size)
	}
	if c.World.PitChance < 0 || c.World.PitChance >= 1 {
		return fmt.Errorf("world.pit_chance must be in [0, 1), got %g", c.World.PitChance)
	}
	if c.World.Arrows < 0 {
		return fmt.Errorf("world.arrows must not be negative, got %d", c.World.Arrows)
	}
	if c.Agent.MaxSteps < 1 {
		return fmt.Errorf("agent.max_steps must be positive, got %d", c.Agent.MaxSteps)
	}
	if c.UI.AutoplayIntervalMS < 1 {
		return fmt.Errorf("ui.autoplay_interval_ms must be positive, got %d", c.UI.AutoplayIntervalMS)
	}
	return nil
}

// Start returns the configured start cell as (row, col).
func (c *Config) Start() (int, int) {
	return c.World.StartRow, c.World.StartCol
}
