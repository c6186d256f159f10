package main

import (
	"fmt"

	"github.com/aretw0/weft"
	"github.com/aretw0/weft/pkg/coordinator"
	"github.com/aretw0/weft/pkg/persistence/middleware"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <fixture>",
	Short: "Seed a run from a fixture and store its snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var mws []middleware.Middleware
		patterns, _ := cmd.Flags().GetStringSlice("mask")
		maskEnv, _ := cmd.Flags().GetBool("mask-env")
		if len(patterns) > 0 || maskEnv {
			var opts []middleware.PIIOption
			if maskEnv {
				opts = append(opts, middleware.WithEnvironmentMasked())
			}
			mws = append(mws, middleware.NewPIIMiddleware(patterns, opts...))
		}

		store, closeStore, err := openStore(cmd, mws...)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		c := coordinator.New(coordinator.WithStore(store), coordinator.WithLogger(logger))

		runID, _ := cmd.Flags().GetString("run-id")
		opts := []weft.Option{weft.WithCoordinator(c)}
		if runID != "" {
			opts = append(opts, weft.WithRunID(runID))
		}

		run, err := startFixture(args[0], opts...)
		if err != nil {
			return err
		}
		if err := c.Release(cmd.Context(), run.ID); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), run.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().String("run-id", "", "Run id (default: a random UUID)")
	snapshotCmd.Flags().StringSlice("mask", nil, "Regular expressions; matching variable names and keys are masked")
	snapshotCmd.Flags().Bool("mask-env", false, "Mask every environment variable")
}
