package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ArchiveConfig names the optional sinks a run is recorded to.
type ArchiveConfig struct {
	JSONDir string `yaml:"json_dir"`
	RunsDB  string `yaml:"runs_db"`
}

// RunFile represents a crawl configuration file. Every field is optional;
// zero values leave the built-in default in place.
type RunFile struct {
	Site      string        `yaml:"site"`
	Keyword   string        `yaml:"keyword"`
	Output    string        `yaml:"output"`
	StartDate string        `yaml:"start_date"`
	EndDate   string        `yaml:"end_date"`
	Cutoff    *string       `yaml:"cutoff"`
	Delay     time.Duration `yaml:"delay"`
	OnMissing string        `yaml:"on_missing"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	FeedURL   string        `yaml:"feed_url"`
	Archive   ArchiveConfig `yaml:"archive"`
}

// DefaultPath returns ~/.newscrawl/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".newscrawl", "config.yaml"), nil
}

// Load reads and parses the run file at path.
func Load(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg RunFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads ~/.newscrawl/config.yaml. Returns nil if the file doesn't
// exist (not an error). Returns error if the file exists but cannot be
// parsed.
func LoadDefault() (*RunFile, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil
	}

	return Load(configPath)
}
