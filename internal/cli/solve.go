package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bitroute/pkg/render"
	"github.com/matzehuels/bitroute/pkg/route"
	"github.com/matzehuels/bitroute/pkg/world"
)

// newSolveCmd creates the solve command. Options come from an optional
// TOML config file; flags override config values.
func newSolveCmd() *cobra.Command {
	var (
		configPath string
		flags      config
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the cheapest route collecting the required bits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config{Render: renderConfig{Format: string(render.FormatSVG), Every: 1}}
			if configPath != "" {
				loaded, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			overlay(cmd, cfg, &flags)
			if err := cfg.validate(); err != nil {
				return err
			}
			return runSolve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&flags.Rooms, "rooms", "", "JSON world description")
	cmd.Flags().IntVar(&flags.Bits, "bits", 0, "bits the route must collect")
	cmd.Flags().StringVar(&flags.Render.Dir, "render-dir", "", "directory for solver snapshots (disabled when empty)")
	cmd.Flags().StringVar(&flags.Render.Format, "render-format", "", "snapshot format: dot, svg or png")
	cmd.Flags().IntVar(&flags.Render.Every, "render-every", 0, "render every n-th relaxation snapshot")
	return cmd
}

// overlay copies explicitly set flag values over the config.
func overlay(cmd *cobra.Command, cfg, flags *config) {
	if cmd.Flags().Changed("rooms") {
		cfg.Rooms = flags.Rooms
	}
	if cmd.Flags().Changed("bits") {
		cfg.Bits = flags.Bits
	}
	if cmd.Flags().Changed("render-dir") {
		cfg.Render.Dir = flags.Render.Dir
	}
	if cmd.Flags().Changed("render-format") {
		cfg.Render.Format = flags.Render.Format
	}
	if cmd.Flags().Changed("render-every") {
		cfg.Render.Every = flags.Render.Every
	}
}

func runSolve(ctx context.Context, cfg *config) error {
	logger := loggerFromContext(ctx)

	g, err := world.Load(cfg.Rooms, logger)
	if err != nil {
		return err
	}
	logger.Info("world loaded", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "total_bits", g.TotalBits())

	var hooks route.Hooks = route.NoopHooks{}
	if cfg.Render.Dir != "" {
		r, err := render.New(ctx, render.Options{
			Dir:    cfg.Render.Dir,
			Format: render.Format(cfg.Render.Format),
			Every:  cfg.Render.Every,
			Logger: logger,
		})
		if err != nil {
			return err
		}
		defer r.Close()
		hooks = r
	}

	p := newProgress(logger)
	res, err := route.Optimize(g, route.Options{
		RequiredBits: cfg.Bits,
		Hooks:        hooks,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Solved route over %d steps", len(res.Edges)))

	printRoute(res)
	return nil
}

// printRoute writes the route to stdout, one visited node per line with
// running totals.
func printRoute(res *route.Result) {
	frames := 0.0
	bits := 0

	node := res.Nodes[0]
	bits += node.Bits
	fmt.Printf("%3d  %-40s %4d bits %10.0f frames\n", 0, node.Name, bits, frames)

	for i, e := range res.Edges {
		node = res.Nodes[i+1]
		frames += e.Frames() + node.Time
		bits += node.Bits
		fmt.Printf("%3d  %-40s %4d bits %10.0f frames\n", i+1, node.Name, bits, frames)
	}
	fmt.Printf("\ntotal: %d bits, %d keys, %.0f frames\n", res.Bits, res.Keys, res.Frames)
}
