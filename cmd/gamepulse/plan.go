package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gamepulse/gamepulse/internal/config"
	"github.com/gamepulse/gamepulse/internal/orchestrator"
)

var planOutput string

var planCmd = &cobra.Command{
	Use:   "plan [request]",
	Short: "Show the execution plan for a request without running it",
	Long: `Classify the request and print the execution plan that analyze
would run, as YAML. Useful for inspecting how a request decomposes
before spending time executing it.`,
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

		classification, err := classifier.Classify(context.Background(), request)
		if err != nil {
			return fmt.Errorf("classifying request: %w", err)
		}

		decomposer := orchestrator.NewDecomposer()
		decomposer.SetTaskDefaults(cfg.Execution.TaskTimeout, cfg.Execution.MaxRetries)
		decomposer.SetDebugLog(logger.Log)
		plan := decomposer.BuildPlan(request, classification)

		encoded, err := yaml.Marshal(plan)
		if err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}

		if planOutput != "" {
			if err := os.WriteFile(planOutput, encoded, 0644); err != nil {
				return fmt.Errorf("writing plan to %s: %w", planOutput, err)
			}
			fmt.Printf("Plan written to %s\n", planOutput)
			return nil
		}

		fmt.Print(string(encoded))
		return nil
	},
}

func init() {
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "Write the plan YAML to a file instead of stdout")
}
