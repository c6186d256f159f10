package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/weft/internal/presentation/graph"
	"github.com/aretw0/weft/internal/presentation/tui"
	"github.com/aretw0/weft/pkg/pool"
	"github.com/aretw0/weft/pkg/segment"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored run snapshots",
	Long:  `List, inspect, and remove run snapshots stored in <dir>/.weft/runs or Redis.`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		runs, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No stored runs found.")
			return nil
		}
		fmt.Fprintln(out, "Stored Runs:")
		for _, id := range runs {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var runsInspectCmd = &cobra.Command{
	Use:   "inspect <run-id>",
	Short: "Print a stored run snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		snap, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load run '%s': %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if vars, _ := cmd.Flags().GetBool("vars"); vars {
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, v := range snap.Variables {
				data, _ := json.Marshal(v.Value)
				fmt.Fprintf(w, "%s\t%s\t%s\n", pool.Selector(v.Selector), tui.Kind(segment.Kind(v.Kind)), data)
			}
			return w.Flush()
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	},
}

var runsGraphCmd = &cobra.Command{
	Use:   "graph <run-id>",
	Short: "Print the node trail of a stored run as a Mermaid flowchart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		snap, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load run '%s': %w", args[0], err)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateTrail(snap.History))
		return nil
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Remove one or more stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return errors.New("pass at least one run id, or --all")
		}

		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		if all {
			if args, err = store.List(cmd.Context()); err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
		}

		var errs []error
		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed run '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsLsCmd)
	runsCmd.AddCommand(runsInspectCmd)
	runsCmd.AddCommand(runsGraphCmd)
	runsCmd.AddCommand(runsRmCmd)

	runsInspectCmd.Flags().Bool("vars", false, "Print only the variables, one per line")
	runsRmCmd.Flags().Bool("all", false, "Remove every stored run")
}
