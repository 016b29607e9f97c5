package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mgpai22/kara/internal/logging"
	"github.com/mgpai22/kara/internal/subtitle"
)

const (
	DefaultProvider      = "openai"
	DefaultChunkMinutes  = 10
	DefaultConcurrency   = 3
	DefaultMaxConcurrent = 2
)

type Config struct {
	Transcription TranscriptionConfig `yaml:"transcription"`
	Output        OutputConfig        `yaml:"output"`
	Watch         WatchConfig         `yaml:"watch"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type TranscriptionConfig struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	Language     string `yaml:"language"`
	Prompt       string `yaml:"prompt"`
	ChunkMinutes int    `yaml:"chunk_minutes"`
	Concurrency  int    `yaml:"concurrency"`
}

type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
	Name    string   `yaml:"name"`
}

type WatchConfig struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	Archived      string `yaml:"archived"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a validated config with every default filled in.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// Load reads a YAML file and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	switch c.Transcription.Provider {
	case "":
		c.Transcription.Provider = DefaultProvider
	case "openai", "gemini":
	default:
		return fmt.Errorf("transcription.provider %q is not supported", c.Transcription.Provider)
	}

	if c.Transcription.ChunkMinutes < 0 {
		return fmt.Errorf("transcription.chunk_minutes must not be negative")
	}
	if c.Transcription.ChunkMinutes == 0 {
		c.Transcription.ChunkMinutes = DefaultChunkMinutes
	}
	if c.Transcription.Concurrency < 0 {
		return fmt.Errorf("transcription.concurrency must not be negative")
	}
	if c.Transcription.Concurrency == 0 {
		c.Transcription.Concurrency = DefaultConcurrency
	}

	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{string(subtitle.FormatSRT), string(subtitle.FormatWordSRT), string(subtitle.FormatASS)}
	}
	if _, err := c.OutputFormats(); err != nil {
		return fmt.Errorf("output.formats: %w", err)
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}

	if c.Watch.Input == "" {
		c.Watch.Input = "data/input"
	}
	if c.Watch.Output == "" {
		c.Watch.Output = "data/output"
	}
	if c.Watch.Archived == "" {
		c.Watch.Archived = "data/archived"
	}
	if c.Watch.MaxConcurrent < 0 {
		return fmt.Errorf("watch.max_concurrent must not be negative")
	}
	if c.Watch.MaxConcurrent == 0 {
		c.Watch.MaxConcurrent = DefaultMaxConcurrent
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// OutputFormats parses the configured format names.
func (c *Config) OutputFormats() ([]subtitle.Format, error) {
	return subtitle.ParseFormats(strings.Join(c.Output.Formats, ","))
}
