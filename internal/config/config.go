package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// MediaConfig points at the external media engine binaries.
type MediaConfig struct {
	FFmpegPath  string `yaml:"ffmpegPath"`
	FFprobePath string `yaml:"ffprobePath"`
}

// StorageConfig controls the managed upload/output area.
type StorageConfig struct {
	UploadDir      string `yaml:"uploadDir"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
}

// SplitConfig holds defaults applied when a submission omits a field.
type SplitConfig struct {
	DefaultPartSeconds int    `yaml:"defaultPartSeconds"`
	DefaultQuality     string `yaml:"defaultQuality"`
}

// RetentionConfig controls mtime-based reclamation of job output so
// the upload area does not grow without bound.
type RetentionConfig struct {
	Enabled              bool `yaml:"enabled"`
	MaxAgeMinutes        int  `yaml:"maxAgeMinutes"`
	SweepIntervalMinutes int  `yaml:"sweepIntervalMinutes"`
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Media     MediaConfig     `yaml:"media"`
	Storage   StorageConfig   `yaml:"storage"`
	Split     SplitConfig     `yaml:"split"`
	Retention RetentionConfig `yaml:"retention"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns the baseline configuration used when no config file
// is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 4000,
		},
		Media: MediaConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Storage: StorageConfig{
			UploadDir:      "uploads",
			MaxUploadBytes: 50 << 30,
		},
		Split: SplitConfig{
			DefaultPartSeconds: 180,
			DefaultQuality:     "medium",
		},
		Retention: RetentionConfig{
			Enabled:              true,
			MaxAgeMinutes:        60,
			SweepIntervalMinutes: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads YAML configuration from path, layered over defaults.
// A missing file is not an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// RetentionMaxAge returns the retention window as a duration.
func (c *Config) RetentionMaxAge() time.Duration {
	return time.Duration(c.Retention.MaxAgeMinutes) * time.Minute
}

// SweepInterval returns the periodic sweep cadence as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Retention.SweepIntervalMinutes) * time.Minute
}

// Addr formats the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
