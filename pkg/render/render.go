// Package render draws solver snapshots as Graphviz graphs, one image per
// search event. It plugs into the optimizer through the route.Hooks
// interface; rendering failures are logged and never interrupt a solve.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bitroute/pkg/route"
)

// Format selects the output file type.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Options configures a Renderer.
type Options struct {
	// Dir receives one file per rendered snapshot. It is wiped and
	// recreated by New.
	Dir string
	// Format of the output files. Defaults to SVG.
	Format Format
	// Every subsamples relaxation snapshots: only each n-th is rendered.
	// Cuts, incumbents and the final solution are always rendered.
	// Values below 1 mean every snapshot.
	Every int
	// Logger for render failures. Nil means log.Default().
	Logger *log.Logger
}

// Renderer writes solver snapshots to disk. It implements route.Hooks.
type Renderer struct {
	ctx     context.Context
	dir     string
	format  Format
	every   int
	logger  *log.Logger
	gv      *graphviz.Graphviz
	relaxed int
}

// New prepares the output directory and a Graphviz instance. The context
// bounds all rendering work done through the returned Renderer.
func New(ctx context.Context, opts Options) (*Renderer, error) {
	if opts.Format == "" {
		opts.Format = FormatSVG
	}
	if opts.Every < 1 {
		opts.Every = 1
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if err := os.RemoveAll(opts.Dir); err != nil {
		return nil, fmt.Errorf("clear render dir: %w", err)
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create render dir: %w", err)
	}

	r := &Renderer{
		ctx:    ctx,
		dir:    opts.Dir,
		format: opts.Format,
		every:  opts.Every,
		logger: opts.Logger,
	}
	if opts.Format != FormatDOT {
		gv, err := graphviz.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("init graphviz: %w", err)
		}
		r.gv = gv
	}
	return r, nil
}

// Close releases the Graphviz instance.
func (r *Renderer) Close() error {
	if r.gv != nil {
		return r.gv.Close()
	}
	return nil
}

func (r *Renderer) Relaxed(label string, vg *route.ValueGraph) {
	r.relaxed++
	if (r.relaxed-1)%r.every != 0 {
		return
	}
	r.snapshot(label, vg)
}

func (r *Renderer) CutAdded(label string, vg *route.ValueGraph) { r.snapshot(label, vg) }
func (r *Renderer) Solution(label string, vg *route.ValueGraph) { r.snapshot(label, vg) }
func (r *Renderer) Done(label string, vg *route.ValueGraph)     { r.snapshot(label, vg) }

func (r *Renderer) snapshot(label string, vg *route.ValueGraph) {
	path := filepath.Join(r.dir, label+"."+string(r.format))
	dot := ToDOT(vg)

	if r.format == FormatDOT {
		if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
			r.logger.Error("write snapshot", "path", path, "err", err)
		}
		return
	}

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		r.logger.Error("parse snapshot dot", "label", label, "err", err)
		return
	}
	defer func() {
		if err := graph.Close(); err != nil {
			r.logger.Error("close snapshot graph", "label", label, "err", err)
		}
	}()

	f, err := os.Create(path)
	if err != nil {
		r.logger.Error("create snapshot file", "path", path, "err", err)
		return
	}
	defer f.Close()

	if err := r.gv.Render(r.ctx, graph, graphviz.Format(r.format), f); err != nil {
		r.logger.Error("render snapshot", "path", path, "err", err)
	}
}
