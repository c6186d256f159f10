package main

import (
	"fmt"

	"github.com/aretw0/weft/internal/presentation/tui"
	"github.com/aretw0/weft/pkg/pool"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <fixture> <selector>...",
	Short: "Resolve selectors against a fixture's variable pool",
	Long: `Seeds a run from the fixture and prints the kind and value of each selector, written with
dots (e.g. sys.query or upload.invoice.extension).`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := startFixture(args[0])
		if err != nil {
			return err
		}

		missing := 0
		out := cmd.OutOrStdout()
		for _, ref := range args[1:] {
			seg, ok := run.State.Pool().Get(pool.ParseSelector(ref))
			if !ok {
				fmt.Fprintf(out, "%s: not found\n", ref)
				missing++
				continue
			}
			fmt.Fprintf(out, "%s %s %s\n", ref, tui.Kind(seg.Kind()), seg.Log())
		}

		if missing > 0 {
			return fmt.Errorf("%d selector(s) not found", missing)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
