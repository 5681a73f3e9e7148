package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamepulse/gamepulse/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify GamePulse configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/gamepulse/config.yaml
Project-specific overrides can be placed in .gamepulse.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s\n", config.MaskAPIKey(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("classifier.mode: %s\n", cfg.Classifier.Mode)
	fmt.Printf("execution.max_concurrent_tasks: %d\n", cfg.Execution.MaxConcurrentTasks)
	fmt.Printf("execution.task_timeout: %s\n", cfg.Execution.TaskTimeout)
	fmt.Printf("execution.max_retries: %d\n", cfg.Execution.MaxRetries)
	fmt.Printf("execution.backoff_base: %s\n", cfg.Execution.BackoffBase)
	fmt.Printf("data.player_count: %d\n", cfg.Data.PlayerCount)
	fmt.Printf("data.session_days: %d\n", cfg.Data.SessionDays)
	fmt.Printf("logging.debug_log_path: %s\n", cfg.Logging.DebugLogPath)
	fmt.Printf("logging.color: %t\n", cfg.Logging.Color)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "classifier.mode":
		return cfg.Classifier.Mode, nil
	case "execution.max_concurrent_tasks":
		return strconv.Itoa(cfg.Execution.MaxConcurrentTasks), nil
	case "execution.task_timeout":
		return cfg.Execution.TaskTimeout.String(), nil
	case "execution.max_retries":
		return strconv.Itoa(cfg.Execution.MaxRetries), nil
	case "execution.backoff_base":
		return cfg.Execution.BackoffBase.String(), nil
	case "data.player_count":
		return strconv.Itoa(cfg.Data.PlayerCount), nil
	case "data.session_days":
		return strconv.Itoa(cfg.Data.SessionDays), nil
	case "logging.debug_log_path":
		return cfg.Logging.DebugLogPath, nil
	case "logging.color":
		return strconv.FormatBool(cfg.Logging.Color), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "classifier.mode":
		if value != config.ClassifierKeyword && value != config.ClassifierClaude {
			return fmt.Errorf("invalid classifier mode: %s", value)
		}
		cfg.Classifier.Mode = value
	case "execution.max_concurrent_tasks":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_concurrent_tasks: %w", err)
		}
		cfg.Execution.MaxConcurrentTasks = n
	case "execution.task_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for task_timeout: %w", err)
		}
		cfg.Execution.TaskTimeout = d
	case "execution.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_retries: %w", err)
		}
		cfg.Execution.MaxRetries = n
	case "execution.backoff_base":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for backoff_base: %w", err)
		}
		cfg.Execution.BackoffBase = d
	case "data.player_count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for player_count: %w", err)
		}
		cfg.Data.PlayerCount = n
	case "data.session_days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for session_days: %w", err)
		}
		cfg.Data.SessionDays = n
	case "logging.debug_log_path":
		cfg.Logging.DebugLogPath = value
	case "logging.color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for logging.color: %w", err)
		}
		cfg.Logging.Color = b
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
