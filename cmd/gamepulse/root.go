package main

import (
	"os"

	"github.com/spf13/cobra"
)

var debugLogPath string

var rootCmd = &cobra.Command{
	Use:   "gamepulse",
	Short: "Game analytics request orchestrator",
	Long: `GamePulse turns natural-language game analytics requests into
execution plans and runs them against the built-in analysis workers.

A request is classified by complexity and analysis domains, decomposed
into subtasks with an execution strategy (direct, sequential, parallel,
or hybrid), executed concurrently with retries and timeouts, and
synthesized into a single report.

Examples:
  gamepulse analyze "分析玩家流失情况"
  gamepulse analyze "comprehensive report on revenue and retention"
  gamepulse plan "analyze player behavior and performance"`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&debugLogPath, "debug-log", "", "Append debug logs to this file")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
