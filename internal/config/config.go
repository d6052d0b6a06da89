package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/marky/internal/ai"
	"github.com/gerunddev/marky/internal/convert"
)

const (
	appName   = "marky"
	envPrefix = "MARKY"

	// apiKeyEnv is read when ai.api_key is not configured
	apiKeyEnv = "OPENROUTER_API_KEY"
)

// Config represents the marky configuration
type Config struct {
	LogFile       string            `mapstructure:"log_file"`
	LogLevel      string            `mapstructure:"log_level"`
	NotesFile     string            `mapstructure:"notes_file"`
	StateFile     string            `mapstructure:"state_file"`
	WatchInterval time.Duration     `mapstructure:"watch_interval"`
	AI            AIConfig          `mapstructure:"ai"`
	Export        ExportConfig      `mapstructure:"export"`
	FrontMatter   FrontMatterConfig `mapstructure:"front_matter"`
}

// AIConfig configures the chat-completions endpoint
type AIConfig struct {
	Endpoint          string `mapstructure:"endpoint"`
	Model             string `mapstructure:"model"`
	APIKey            string `mapstructure:"api_key"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// ExportConfig configures HTML export
type ExportConfig struct {
	Title string `mapstructure:"title"`
}

// FrontMatterConfig holds the markmap options written by `format --front-matter`
type FrontMatterConfig struct {
	ColorFreezeLevel   int `mapstructure:"color_freeze_level"`
	InitialExpandLevel int `mapstructure:"initial_expand_level"`
	MaxWidth           int `mapstructure:"max_width"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		LogFile:       filepath.Join(xdg.StateHome, appName, "marky.log"),
		LogLevel:      "info",
		NotesFile:     filepath.Join(xdg.DataHome, appName, "notes.json"),
		StateFile:     StateFilePath(),
		WatchInterval: 2 * time.Second,
		AI: AIConfig{
			Endpoint:          ai.DefaultEndpoint,
			Model:             ai.DefaultModel,
			RequestsPerMinute: ai.DefaultRequestsPerMinute,
		},
		Export: ExportConfig{
			Title: "Markmap",
		},
		FrontMatter: FrontMatterConfig{
			ColorFreezeLevel: 2,
		},
	}
}

// ConfigPath returns the path to the config file
// Can be overridden for testing
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// StateFilePath returns the path to the watcher state file
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, appName, "state.json")
}

// Load reads configuration from path, or ConfigPath() when path is empty.
// A .env file in the working directory is loaded first; MARKY_* environment
// variables override file values. A missing config file yields the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = ConfigPath()
	}

	v := newViper()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv(apiKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return &cfg, nil
}

// newViper registers every key with its default so AutomaticEnv and
// Unmarshal see them
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range DefaultConfig().settings() {
		v.SetDefault(key, value)
	}
	return v
}

// settings flattens the config into viper keys
func (c *Config) settings() map[string]any {
	return map[string]any{
		"log_file":                          c.LogFile,
		"log_level":                         c.LogLevel,
		"notes_file":                        c.NotesFile,
		"state_file":                        c.StateFile,
		"watch_interval":                    c.WatchInterval.String(),
		"ai.endpoint":                       c.AI.Endpoint,
		"ai.model":                          c.AI.Model,
		"ai.api_key":                        c.AI.APIKey,
		"ai.requests_per_minute":            c.AI.RequestsPerMinute,
		"export.title":                      c.Export.Title,
		"front_matter.color_freeze_level":   c.FrontMatter.ColorFreezeLevel,
		"front_matter.initial_expand_level": c.FrontMatter.InitialExpandLevel,
		"front_matter.max_width":            c.FrontMatter.MaxWidth,
	}
}

// Save writes the configuration to path, or ConfigPath() when path is empty.
// The API key is never written.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := c.export().WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// YAML returns the configuration as it would be saved
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c.export().AllSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// export holds every setting except the API key
func (c *Config) export() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range c.settings() {
		if key == "ai.api_key" {
			continue
		}
		v.Set(key, value)
	}
	return v
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.NotesFile == "" {
		return fmt.Errorf("notes_file cannot be empty")
	}
	if c.StateFile == "" {
		return fmt.Errorf("state_file cannot be empty")
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("watch_interval must be positive")
	}
	if c.AI.RequestsPerMinute <= 0 {
		return fmt.Errorf("ai.requests_per_minute must be positive")
	}
	if c.FrontMatter.ColorFreezeLevel < 0 || c.FrontMatter.InitialExpandLevel < 0 || c.FrontMatter.MaxWidth < 0 {
		return fmt.Errorf("front_matter values cannot be negative")
	}
	return nil
}

// MarkmapOptions returns the configured front matter options, or nil when
// none are set
func (c *Config) MarkmapOptions() *convert.MarkmapOptions {
	opts := convert.MarkmapOptions{
		ColorFreezeLevel:   c.FrontMatter.ColorFreezeLevel,
		InitialExpandLevel: c.FrontMatter.InitialExpandLevel,
		MaxWidth:           c.FrontMatter.MaxWidth,
	}
	if opts == (convert.MarkmapOptions{}) {
		return nil
	}
	return &opts
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	c.NotesFile, err = expandPath(c.NotesFile)
	if err != nil {
		return fmt.Errorf("failed to expand notes_file: %w", err)
	}

	c.StateFile, err = expandPath(c.StateFile)
	if err != nil {
		return fmt.Errorf("failed to expand state_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	return filepath.Abs(path)
}
