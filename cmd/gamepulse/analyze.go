package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gamepulse/gamepulse/internal/analytics"
	"github.com/gamepulse/gamepulse/internal/classify"
	"github.com/gamepulse/gamepulse/internal/config"
	"github.com/gamepulse/gamepulse/internal/orchestrator"
	"github.com/gamepulse/gamepulse/pkg/models"
)

var (
	analyzeClassifier string
	analyzeConcurrent int
	analyzeJSON       bool
	analyzeQuiet      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [request]",
	Short: "Run an analytics request end to end",
	Long: `Classify the request, decompose it into an execution plan, run the
plan against the built-in analytics workers, and print the synthesized
report.

The request can be phrased in English or Chinese. Progress is streamed
to stderr; the report goes to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := joinArgs(args)

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		applyFlags(cfg)

		logger, err := openDebugLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Close()

		classifier, err := buildClassifier(cfg, logger)
		if err != nil {
			return err
		}

		store := analytics.NewStore(nil)
		store.SetDimensions(cfg.Data.PlayerCount, cfg.Data.SessionDays)

		orch := orchestrator.New(orchestrator.Config{
			Workers:    analytics.NewWorkers(store),
			Classifier: classifier,
			Engine: orchestrator.NewEngine(orchestrator.EngineConfig{
				MaxConcurrent: cfg.Execution.MaxConcurrentTasks,
				BackoffBase:   cfg.Execution.BackoffBase,
			}),
			Logger:      logger,
			TaskTimeout: cfg.Execution.TaskTimeout,
			MaxRetries:  cfg.Execution.MaxRetries,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		progressDone := make(chan struct{})
		go func() {
			defer close(progressDone)
			streamProgress(orch.Events())
		}()

		result := orch.Orchestrate(ctx, request)
		<-progressDone

		if analyzeJSON {
			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Println(string(encoded))
			if result.Status == models.SessionError {
				os.Exit(1)
			}
			return nil
		}

		if result.Status == models.SessionError {
			fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("✗"), result.Error)
			os.Exit(1)
		}

		fmt.Println(renderReport(result))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeClassifier, "classifier", "", "Classifier mode: keyword or claude")
	analyzeCmd.Flags().IntVar(&analyzeConcurrent, "max-concurrent", 0, "Maximum concurrently running tasks")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full session result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeQuiet, "quiet", false, "Suppress progress output")
}

// applyFlags folds command-line overrides into the loaded config.
func applyFlags(cfg *config.Config) {
	if analyzeClassifier != "" {
		cfg.Classifier.Mode = analyzeClassifier
	}
	if analyzeConcurrent > 0 {
		cfg.Execution.MaxConcurrentTasks = analyzeConcurrent
	}
	if debugLogPath != "" {
		cfg.Logging.DebugLogPath = debugLogPath
	}
	if !cfg.Logging.Color {
		color.NoColor = true
	}
}

// openDebugLogger opens the configured debug log file, or a no-op logger
// when none is configured.
func openDebugLogger(cfg *config.Config) (*orchestrator.DebugLogger, error) {
	if cfg.Logging.DebugLogPath == "" {
		return orchestrator.NopLogger(), nil
	}
	logger, err := orchestrator.NewDebugLogger(cfg.Logging.DebugLogPath)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	return logger, nil
}

// buildClassifier selects the classifier per config. Claude mode needs API
// credentials; it still degrades to keyword classification at runtime when
// the API call fails.
func buildClassifier(cfg *config.Config, logger *orchestrator.DebugLogger) (classify.Classifier, error) {
	switch cfg.Classifier.Mode {
	case "", config.ClassifierKeyword:
		return classify.NewKeywordClassifier(), nil
	case config.ClassifierClaude:
		client, err := classify.NewClient(classify.ClientConfig{
			Model:         cfg.Anthropic.Model,
			APIKey:        cfg.Anthropic.APIKey,
			UseAWSBedrock: cfg.Anthropic.UseBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
		})
		if err != nil {
			return nil, fmt.Errorf("creating Claude classifier: %w", err)
		}
		classifier := classify.NewClaudeClassifier(client)
		classifier.SetDebugLog(logger.Log)
		return classifier, nil
	default:
		return nil, fmt.Errorf("unknown classifier mode %q", cfg.Classifier.Mode)
	}
}

// streamProgress prints task lifecycle events to stderr until the session
// finishes.
func streamProgress(events <-chan orchestrator.Event) {
	for ev := range events {
		if !analyzeQuiet {
			printEvent(ev)
		}
		if ev.Type == orchestrator.EventSessionDone {
			return
		}
	}
}

func printEvent(ev orchestrator.Event) {
	switch ev.Type {
	case orchestrator.EventSessionStarted:
		fmt.Fprintf(os.Stderr, "%s Analyzing request\n", color.CyanString("→"))
	case orchestrator.EventPlanReady:
		fmt.Fprintf(os.Stderr, "%s Plan ready: %s\n", color.CyanString("→"), ev.Message)
	case orchestrator.EventTaskStarted:
		fmt.Fprintf(os.Stderr, "%s [%s] started\n", color.YellowString("…"), ev.WorkerKind)
	case orchestrator.EventTaskCompleted:
		fmt.Fprintf(os.Stderr, "%s [%s] completed\n", color.GreenString("✓"), ev.WorkerKind)
	case orchestrator.EventTaskFailed:
		fmt.Fprintf(os.Stderr, "%s [%s] failed: %v\n", color.RedString("✗"), ev.WorkerKind, ev.Err)
	case orchestrator.EventSessionDone:
		if ev.Err != nil {
			fmt.Fprintf(os.Stderr, "%s Session failed\n", color.RedString("✗"))
		} else {
			fmt.Fprintf(os.Stderr, "%s Session complete (%s)\n", color.GreenString("✓"), ev.Message)
		}
	}
}

func joinArgs(args []string) string {
	request := args[0]
	for _, arg := range args[1:] {
		request += " " + arg
	}
	return request
}
