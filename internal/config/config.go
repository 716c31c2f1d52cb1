package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file.
const FileName = "movingout.yaml"

// Config represents the top-level movingout.yaml configuration.
type Config struct {
	Student StudentConfig `yaml:"student"`
	Files   FilesConfig   `yaml:"files"`
	Server  ServerConfig  `yaml:"server"`
	Refresh RefreshConfig `yaml:"refresh"`
}

// StudentConfig identifies whose worksheet this is.
type StudentConfig struct {
	Name    string `yaml:"name"`
	Class   string `yaml:"class,omitempty"`
	Teacher string `yaml:"teacher,omitempty"`
}

// FilesConfig locates workspace documents, relative to the workspace root.
type FilesConfig struct {
	Database  string `yaml:"database"`
	Constants string `yaml:"constants,omitempty"` // empty uses the bundled constants
	Schema    string `yaml:"schema,omitempty"`    // empty uses the bundled schema
	Exports   string `yaml:"exports"`
}

// ServerConfig controls `movingout serve` and logging.
type ServerConfig struct {
	Listen   string `yaml:"listen"`
	LogLevel string `yaml:"log_level"`
}

// RefreshConfig schedules the economic snapshot refresh while serving.
type RefreshConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron spec, e.g. "0 6 * * 1"
}

// Load reads a movingout.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(studentName string) *Config {
	return &Config{
		Student: StudentConfig{
			Name: studentName,
		},
		Files: FilesConfig{
			Database: "data/movingout.db",
			Exports:  "exports",
		},
		Server: ServerConfig{
			Listen:   ":8080",
			LogLevel: "info",
		},
		Refresh: RefreshConfig{
			Enabled:  false,
			Schedule: "0 6 * * 1",
		},
	}
}

// ApplyEnv overrides settings from MOVINGOUT_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("MOVINGOUT_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := getenv("MOVINGOUT_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := getenv("MOVINGOUT_DATABASE"); v != "" {
		c.Files.Database = v
	}
}
