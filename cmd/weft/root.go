package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/weft/internal/logging"
	"github.com/aretw0/weft/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// logger is configured from --log-level before any command runs.
var logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "Weft inspects workflow run variables and checkpoints",
	Long: `Weft seeds workflow runs from fixture files, resolves selectors and templates against
their variable pools, and manages run snapshots stored on disk or in Redis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		slog.SetDefault(logger)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout())
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", ".", "Project directory; file snapshots live in <dir>/.weft/runs")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("store", "file", "Snapshot store (file, redis)")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address for --store redis")
	rootCmd.PersistentFlags().String("redis-prefix", "", "Key prefix for --store redis (default weft:run:)")
}
