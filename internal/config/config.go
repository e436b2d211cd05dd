// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for libreg.
type Config struct {
	DataDir  string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`

	// Wizard behaviour
	PulseDuration     time.Duration `mapstructure:"pulse_duration" yaml:"pulse_duration"`
	MinNameLength     int           `mapstructure:"min_name_length" yaml:"min_name_length"`
	MinAddressLength  int           `mapstructure:"min_address_length" yaml:"min_address_length"`
	MinUsernameLength int           `mapstructure:"min_username_length" yaml:"min_username_length"`
	MinPasswordLength int           `mapstructure:"min_password_length" yaml:"min_password_length"`

	// Registration backend
	SubmitTimeout time.Duration `mapstructure:"submit_timeout" yaml:"submit_timeout"` // 0 = no timeout
	MaxLogoBytes  int64         `mapstructure:"max_logo_bytes" yaml:"max_logo_bytes"`
	MCPPort       int           `mapstructure:"mcp_port" yaml:"mcp_port"` // 0 = random
}

// keys lists every config key; each is bound to LIBREG_<KEY>.
var keys = []string{
	"data_dir",
	"log_level",
	"log_file",
	"pulse_duration",
	"min_name_length",
	"min_address_length",
	"min_username_length",
	"min_password_length",
	"submit_timeout",
	"max_logo_bytes",
	"mcp_port",
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		DataDir:           ".libreg",
		LogLevel:          "info",
		LogFile:           "",
		PulseDuration:     300 * time.Millisecond,
		MinNameLength:     2,
		MinAddressLength:  5,
		MinUsernameLength: 3,
		MinPasswordLength: 6,
		SubmitTimeout:     0,
		MaxLogoBytes:      512 * 1024,
		MCPPort:           0,
	}
}

// Load loads configuration with full precedence:
// ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("libreg")

	d := Default()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("pulse_duration", d.PulseDuration)
	v.SetDefault("min_name_length", d.MinNameLength)
	v.SetDefault("min_address_length", d.MinAddressLength)
	v.SetDefault("min_username_length", d.MinUsernameLength)
	v.SetDefault("min_password_length", d.MinPasswordLength)
	v.SetDefault("submit_timeout", d.SubmitTimeout)
	v.SetDefault("max_logo_bytes", d.MaxLogoBytes)
	v.SetDefault("mcp_port", d.MCPPort)

	v.SetEnvPrefix("LIBREG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env values for every key
	for _, key := range keys {
		if err := v.BindEnv(key, "LIBREG_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the wizard cannot work with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.PulseDuration < 0 || c.SubmitTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.MinNameLength < 0 || c.MinAddressLength < 0 || c.MinUsernameLength < 0 || c.MinPasswordLength < 0 {
		return fmt.Errorf("minimum lengths must not be negative")
	}
	if c.MaxLogoBytes <= 0 {
		return fmt.Errorf("max_logo_bytes must be positive")
	}
	if c.MCPPort < 0 || c.MCPPort > 65535 {
		return fmt.Errorf("mcp_port out of range: %d", c.MCPPort)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/libreg/libreg.yml or $XDG_CONFIG_HOME/libreg/libreg.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "libreg", "libreg.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "libreg", "libreg.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "libreg.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// yaml.v3 writes durations as nanoseconds; write them as "300ms" instead.
	durations := map[string]time.Duration{
		"pulse_duration": cfg.PulseDuration,
		"submit_timeout": cfg.SubmitTimeout,
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if d, ok := durations[doc.Content[i].Value]; ok {
			doc.Content[i+1].Tag = "!!str"
			doc.Content[i+1].Value = d.String()
		}
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
