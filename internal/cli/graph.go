package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bitroute/pkg/render"
	"github.com/matzehuels/bitroute/pkg/world"
)

// newGraphCmd creates the graph command, which dumps the world graph as
// DOT without running the solver. Useful for checking a rooms file before
// a long solve.
func newGraphCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph [rooms.json]",
		Short: "Dump the world graph as DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			g, err := world.Load(args[0], logger)
			if err != nil {
				return err
			}
			dot := render.WorldDOT(g)
			if output == "" {
				fmt.Print(dot)
				return nil
			}
			if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Info("graph written", "path", output, "nodes", g.NodeCount(), "edges", g.EdgeCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write DOT to a file instead of stdout")
	return cmd
}
