// Package config loads lxsink settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Stdout as the output path writes to the terminal instead of a file.
const Stdout = "-"

// Config holds sink and pipeline settings. Zero values in a file fall back
// to Default.
type Config struct {
	// Output is the log file path, or Stdout.
	Output   string `yaml:"output"`
	Truncate bool   `yaml:"truncate"`

	Capacity      int           `yaml:"capacity"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	DrainInterval time.Duration `yaml:"drain_interval"`
	// CPU pins the background writer thread; -1 leaves it unpinned.
	CPU int `yaml:"cpu"`

	MetricsAddr string `yaml:"metrics_addr"`
	ShowStats   bool   `yaml:"stats"`

	Filter FilterConfig `yaml:"filter"`
}

// FilterConfig selects which input lines reach the sink.
type FilterConfig struct {
	Keywords []string `yaml:"keywords,omitempty"`
	Regex    string   `yaml:"regex,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`
	// MatchAll requires every filter to match instead of any.
	MatchAll bool `yaml:"match_all,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Output:        Stdout,
		Capacity:      1 << 20,
		PollInterval:  10 * time.Millisecond,
		DrainInterval: time.Second,
		CPU:           -1,
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Output == "" {
		errs = append(errs, errors.New("output must not be empty"))
	}
	if c.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("capacity must be > 0, got %d", c.Capacity))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be > 0, got %s", c.PollInterval))
	}
	if c.DrainInterval <= 0 {
		errs = append(errs, fmt.Errorf("drain_interval must be > 0, got %s", c.DrainInterval))
	}
	if c.CPU < -1 {
		errs = append(errs, fmt.Errorf("cpu must be -1 or a CPU index, got %d", c.CPU))
	}
	return errors.Join(errs...)
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
