package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHost       = "0.0.0.0"
	DefaultPort       = 8080
	DefaultMapStepMs  = 150
	DefaultStageGapMs = 400
	DefaultChipStepMs = 120
	DefaultTheme      = "slate"

	DefaultText = "to be or not to be that is the question.\n" +
		"to be yourself in a world that is constantly trying to make you something else " +
		"is the greatest accomplishment."

	EnvText = "MR_TEXT"
	EnvPort = "PORT"
)

var (
	ErrInvalidPort   = errors.New("config: port out of range")
	ErrInvalidTiming = errors.New("config: timing values must be positive")
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Text   string       `yaml:"text"`
	Timing TimingConfig `yaml:"timing"`
	Theme  string       `yaml:"theme"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TimingConfig holds the animation delays in milliseconds.
type TimingConfig struct {
	MapStepMs  int `yaml:"map_step_ms"`
	StageGapMs int `yaml:"stage_gap_ms"`
	ChipStepMs int `yaml:"chip_step_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Text: DefaultText,
		Timing: TimingConfig{
			MapStepMs:  DefaultMapStepMs,
			StageGapMs: DefaultStageGapMs,
			ChipStepMs: DefaultChipStepMs,
		},
		Theme: DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides the sample text and port from the environment. lookup
// has the signature of os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if text, ok := lookup(EnvText); ok {
		c.Text = text
	}
	if raw, ok := lookup(EnvPort); ok && raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse %s=%q: %w", EnvPort, raw, err)
		}
		c.Server.Port = port
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}
	t := c.Timing
	if t.MapStepMs <= 0 || t.StageGapMs <= 0 || t.ChipStepMs <= 0 {
		return fmt.Errorf("%w: map_step=%d stage_gap=%d chip_step=%d",
			ErrInvalidTiming, t.MapStepMs, t.StageGapMs, t.ChipStepMs)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (t TimingConfig) MapStep() time.Duration  { return time.Duration(t.MapStepMs) * time.Millisecond }
func (t TimingConfig) StageGap() time.Duration { return time.Duration(t.StageGapMs) * time.Millisecond }
func (t TimingConfig) ChipStep() time.Duration { return time.Duration(t.ChipStepMs) * time.Millisecond }
