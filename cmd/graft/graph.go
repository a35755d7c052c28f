package main

import (
	"os"

	"github.com/aretw0/graft/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the module reference graph",
	Long:  `Loads the file without invoking any module and outputs a Mermaid diagram (graph TD) of its references.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rt, _, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		return cli.Graph(cmd.Context(), rt, args[0], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
