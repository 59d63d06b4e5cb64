package engine

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/nybble/ecs/system"
)

//go:embed defaults/nybble.yaml
var defaultConfigYAML []byte

// LocalConfigPath is checked when no config path is given.
const LocalConfigPath = "nybble.yaml"

type Config struct {
	Window     WindowConfig         `yaml:"window"`
	FPS        int                  `yaml:"fps"`
	MaxDelta   float64              `yaml:"max_delta"`
	Debug      bool                 `yaml:"debug"`
	ShowFPS    bool                 `yaml:"show_fps"`
	StartLevel string               `yaml:"start_level"`
	ScoresDB   string               `yaml:"scores_db"`
	Physics    system.PhysicsPolicy `yaml:"physics"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// DefaultConfig is used when even the embedded defaults fail to parse.
func DefaultConfig() Config {
	return Config{
		Window:     WindowConfig{Width: 1200, Height: 700, Title: "Nybble"},
		FPS:        120,
		MaxDelta:   MaxDelta,
		StartLevel: "breakout",
		ScoresDB:   "~/.nybble/scores.db",
		Physics:    system.DefaultPhysicsPolicy(),
	}
}

// LoadConfig reads the engine configuration.
// Search order: customPath -> ./nybble.yaml -> embedded default.
// Keys missing from a file keep their default values.
func LoadConfig(customPath string) (Config, error) {
	cfg := embeddedConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		cfg.normalize()
		return cfg, nil
	}

	if data, err := os.ReadFile(LocalConfigPath); err == nil {
		local := cfg
		if err := yaml.Unmarshal(data, &local); err == nil {
			cfg = local
		}
	}
	cfg.normalize()
	return cfg, nil
}

func embeddedConfig() Config {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return DefaultConfig()
	}
	return cfg
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if c.FPS <= 0 {
		c.FPS = def.FPS
	}
	if c.MaxDelta <= 0 {
		c.MaxDelta = def.MaxDelta
	}
	if c.Physics.CorrectionFactor <= 0 {
		c.Physics.CorrectionFactor = def.Physics.CorrectionFactor
	}
}
