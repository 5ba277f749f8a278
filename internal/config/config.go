// Package config loads fcshctl configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (FLEX_HOME, FCSHCTL_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .fcshctl.yaml in current directory
//  2. ~/.config/fcshctl/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all fcshctl configuration.
type Config struct {
	// FlexHome is the Flex SDK root; the compiler shell is started from
	// $FLEX_HOME/bin/fcsh. Required when the session must be created.
	FlexHome string `yaml:"flex_home"`

	// Session is the tmux session name hosting fcsh.
	Session string `yaml:"session"`

	// PollInterval is the transcript poll interval while waiting for the
	// fcsh prompt (Go duration string, e.g. "200ms").
	PollInterval string `yaml:"poll_interval"`

	// PromptTimeout bounds how long an invocation waits for the prompt.
	// "0", "off" or "disable" means wait forever (the historical
	// behavior: a hung fcsh blocks until someone kills it).
	PromptTimeout string `yaml:"prompt_timeout"`

	// Incremental enables rewriting mxmlc/compc invocations into
	// "compile <id>" when fcsh already has a target for the source file.
	Incremental bool `yaml:"incremental"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	PollIntervalDuration  time.Duration `yaml:"-"`
	PromptTimeoutDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// fileConfig mirrors Config for unmarshalling, with pointer fields where a
// file must be able to override a true default with false.
type fileConfig struct {
	FlexHome      string `yaml:"flex_home"`
	Session       string `yaml:"session"`
	PollInterval  string `yaml:"poll_interval"`
	PromptTimeout string `yaml:"prompt_timeout"`
	Incremental   *bool  `yaml:"incremental"`
	OTELEndpoint  string `yaml:"otel_endpoint"`
	OTELHeaders   string `yaml:"otel_headers"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Session:       "fcshctl",
		PollInterval:  "200ms",
		PromptTimeout: "0",
		Incremental:   true,
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &file)
	}

	mergeEnv(cfg)

	var err error
	cfg.PollIntervalDuration, err = time.ParseDuration(cfg.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid poll interval %q: %w", cfg.PollInterval, err)
	}
	cfg.PromptTimeoutDuration, err = parseDurationOrDisable(cfg.PromptTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt timeout %q: %w", cfg.PromptTimeout, err)
	}

	return cfg, nil
}

// FcshPath returns the configured path of the fcsh binary.
func (c *Config) FcshPath() string {
	return filepath.Join(c.FlexHome, "bin", "fcsh")
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".fcshctl.yaml"); err == nil {
		return ".fcshctl.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "fcshctl", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies set file values onto cfg.
func mergeFile(cfg *Config, file *fileConfig) {
	if file.FlexHome != "" {
		cfg.FlexHome = file.FlexHome
	}
	if file.Session != "" {
		cfg.Session = file.Session
	}
	if file.PollInterval != "" {
		cfg.PollInterval = file.PollInterval
	}
	if file.PromptTimeout != "" {
		cfg.PromptTimeout = file.PromptTimeout
	}
	if file.Incremental != nil {
		cfg.Incremental = *file.Incremental
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("FLEX_HOME"); v != "" {
		cfg.FlexHome = v
	}
	if v := os.Getenv("FCSHCTL_SESSION"); v != "" {
		cfg.Session = v
	}
	if v := os.Getenv("FCSHCTL_POLL_INTERVAL"); v != "" {
		cfg.PollInterval = v
	}
	if v := os.Getenv("FCSHCTL_PROMPT_TIMEOUT"); v != "" {
		cfg.PromptTimeout = v
	}
	if v := os.Getenv("FCSHCTL_INCREMENTAL"); v != "" {
		cfg.Incremental = !(v == "0" || v == "false" || v == "off")
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable"
// and "" return 0 (no timeout).
func parseDurationOrDisable(s string) (time.Duration, error) {
	if s == "" || s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
