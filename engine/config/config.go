package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/anima-scene/engine/core"
	"github.com/spaghettifunk/anima-scene/engine/scene"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// TestbedConfig drives the demo application.
type TestbedConfig struct {
	// Frames is the number of frames to run; zero runs until interrupted.
	Frames int `toml:"frames"`
	// FrameRate caps the number of frames per second.
	FrameRate int `toml:"frame_rate"`
	// Workers is the number of goroutines mutating the scene concurrently.
	Workers int `toml:"workers"`
	// Nodes is the number of meshes spawned at startup.
	Nodes int `toml:"nodes"`
	// Seed feeds the scatter of the spawned meshes.
	Seed uint64 `toml:"seed"`
	// Font is an optional AngelCode .fnt file for the overlay text.
	Font string `toml:"font"`
}

type Config struct {
	Name     string          `toml:"name"`
	LogLevel string          `toml:"log_level"`
	Hub      scene.HubConfig `toml:"hub"`
	Testbed  TestbedConfig   `toml:"testbed"`
}

func Default() *Config {
	return &Config{
		Name:     "anima",
		LogLevel: "info",
		Hub:      scene.DefaultHubConfig(),
		Testbed: TestbedConfig{
			Frames:    300,
			FrameRate: 60,
			Workers:   4,
			Nodes:     64,
			Seed:      1,
		},
	}
}

// Parse decodes a TOML document on top of the defaults. Unknown keys are
// an error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		core.LogError("unable to read config %s: %s", path, err.Error())
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		core.LogError("unable to parse config %s: %s", path, err.Error())
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if err := c.Hub.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	t := c.Testbed
	if t.Frames < 0 || t.FrameRate <= 0 || t.Workers <= 0 || t.Nodes < 0 {
		return fmt.Errorf("%w: testbed needs frames >= 0, frame_rate > 0, workers > 0 and nodes >= 0", ErrInvalidConfig)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() core.LogLevel {
	lvl, err := core.ParseLogLevel(c.LogLevel)
	if err != nil {
		return core.InfoLevel
	}
	return lvl
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
