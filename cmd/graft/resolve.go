package main

import (
	"os"

	"github.com/aretw0/graft/internal/cli"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Resolve a configuration file and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, rt, _, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		expand := cfg.ExpandEnv
		if cmd.Flags().Changed("expand-env") {
			expand, _ = cmd.Flags().GetBool("expand-env")
		}
		pretty := cli.PrettyDefault()
		if cmd.Flags().Changed("pretty") {
			pretty, _ = cmd.Flags().GetBool("pretty")
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return ctx.Wrap(cli.Resolve(ctx, rt, cli.ResolveOptions{
			Path:      args[0],
			ExpandEnv: expand,
			Pretty:    pretty,
		}, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Bool("expand-env", false, "Expand ${VAR} references in string values")
	resolveCmd.Flags().Bool("pretty", false, "Highlight the output (default when stdout is a terminal)")
}
