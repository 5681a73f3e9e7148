// Package config handles configuration loading and management for GamePulse.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for GamePulse.
type Config struct {
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Execution  ExecutionConfig  `mapstructure:"execution"`
	Data       DataConfig       `mapstructure:"data"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AnthropicConfig holds Anthropic API settings for the Claude classifier.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// ClassifierConfig selects how requests are classified.
type ClassifierConfig struct {
	// Mode is "keyword" or "claude". Claude mode still falls back to the
	// keyword tables when the API is unreachable.
	Mode string `mapstructure:"mode"`
}

// ExecutionConfig holds execution engine settings.
type ExecutionConfig struct {
	MaxConcurrentTasks int           `mapstructure:"max_concurrent_tasks"`
	TaskTimeout        time.Duration `mapstructure:"task_timeout"`
	MaxRetries         int           `mapstructure:"max_retries"`
	BackoffBase        time.Duration `mapstructure:"backoff_base"`
}

// DataConfig holds synthetic dataset settings.
type DataConfig struct {
	PlayerCount int `mapstructure:"player_count"`
	SessionDays int `mapstructure:"session_days"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	// DebugLogPath is the file debug logs append to. Empty disables them.
	DebugLogPath string `mapstructure:"debug_log_path"`
	// Color toggles ANSI color in CLI output.
	Color bool `mapstructure:"color"`
}

// ClassifierModes.
const (
	ClassifierKeyword = "keyword"
	ClassifierClaude  = "claude"
)

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (GAMEPULSE_*, ANTHROPIC_API_KEY)
// 2. Project config (.gamepulse.yaml in current directory or parent)
// 3. User config (~/.config/gamepulse/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("GAMEPULSE")
	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("classifier.mode", "GAMEPULSE_CLASSIFIER_MODE")
	v.BindEnv("execution.max_concurrent_tasks", "GAMEPULSE_MAX_CONCURRENT_TASKS")
	v.BindEnv("logging.debug_log_path", "GAMEPULSE_DEBUG_LOG")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("classifier.mode", cfg.Classifier.Mode)
	v.Set("execution.max_concurrent_tasks", cfg.Execution.MaxConcurrentTasks)
	v.Set("execution.task_timeout", cfg.Execution.TaskTimeout.String())
	v.Set("execution.max_retries", cfg.Execution.MaxRetries)
	v.Set("execution.backoff_base", cfg.Execution.BackoffBase.String())
	v.Set("data.player_count", cfg.Data.PlayerCount)
	v.Set("data.session_days", cfg.Data.SessionDays)
	v.Set("logging.debug_log_path", cfg.Logging.DebugLogPath)
	v.Set("logging.color", cfg.Logging.Color)

	return v.WriteConfig()
}

// Watch re-reads the config file whenever it changes on disk and hands the
// fresh Config to onChange. Reload errors are passed to onError, if set.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config from %s: %w", path, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading config: %w", err))
			}
			return
		}
		cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("classifier.mode", ClassifierKeyword)

	v.SetDefault("execution.max_concurrent_tasks", 5)
	v.SetDefault("execution.task_timeout", "120s")
	v.SetDefault("execution.max_retries", 2)
	v.SetDefault("execution.backoff_base", "1s")

	v.SetDefault("data.player_count", 1000)
	v.SetDefault("data.session_days", 30)

	v.SetDefault("logging.debug_log_path", "")
	v.SetDefault("logging.color", true)
}

// getUserConfigDir returns the XDG config directory for GamePulse.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "gamepulse")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "gamepulse")
	}
	return filepath.Join(home, ".config", "gamepulse")
}

// findProjectConfig searches for .gamepulse.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".gamepulse.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references, returning "" for unresolved keys so
// a literal "${ANTHROPIC_API_KEY}" never leaks into requests.
func expandEnv(s string) string {
	expanded := os.ExpandEnv(s)
	if expanded != s && expanded == "" {
		return ""
	}
	return expanded
}
