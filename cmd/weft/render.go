package main

import (
	"fmt"
	"os"

	"github.com/aretw0/weft/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <fixture> [template]",
	Short: "Expand a template against a fixture's variable pool",
	Long: `Seeds a run from the fixture and expands {{#scope.path#}} placeholders in the template.
Unresolved placeholders render as empty text.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		template, err := templateArg(cmd, args)
		if err != nil {
			return err
		}

		run, err := startFixture(args[0])
		if err != nil {
			return err
		}
		group := run.State.Pool().ConvertTemplate(template)

		format, _ := cmd.Flags().GetString("format")
		var out string
		switch format {
		case "text":
			out = group.Text()
		case "log":
			out = group.Log()
		case "markdown":
			out = group.Markdown()
			if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
				render, err := tui.NewRenderer()
				if err != nil {
					return fmt.Errorf("failed to create markdown renderer: %w", err)
				}
				if out, err = render(out); err != nil {
					return fmt.Errorf("failed to render markdown: %w", err)
				}
			}
		default:
			return fmt.Errorf("unknown format %q (want text, log or markdown)", format)
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func templateArg(cmd *cobra.Command, args []string) (string, error) {
	path, _ := cmd.Flags().GetString("template-file")
	switch {
	case path != "" && len(args) == 2:
		return "", fmt.Errorf("pass either a template argument or --template-file, not both")
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template: %w", err)
		}
		return string(data), nil
	case len(args) == 2:
		return args[1], nil
	}
	return "", fmt.Errorf("missing template")
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("format", "text", "Output form of the segments (text, log, markdown)")
	renderCmd.Flags().Bool("pretty", false, "Render markdown output for the terminal")
	renderCmd.Flags().StringP("template-file", "f", "", "Read the template from a file")
}
