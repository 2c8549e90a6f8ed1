// Package optimize drives the per-layer pipeline: encode, solve, and write
// the reordered layer to the output.
package optimize

import "github.com/kennylevinsen/gcodetsp/export"
import "github.com/kennylevinsen/gcodetsp/problem"
import "github.com/kennylevinsen/gcodetsp/solver"
import "github.com/kennylevinsen/gcodetsp/vm"

import "golang.org/x/sync/errgroup"

import "context"
import "io"
import "log/slog"

const DefaultMinimumNodes = 3

type Options struct {
	Problem problem.Options

	// Layers with at most this many nodes, before or after merging, are
	// written in their original order without calling the solver.
	MinimumNodes int

	// Solve all layers concurrently, then write them in order.
	Parallel bool

	// Concurrent solver runs when Parallel is set. 0 means one per layer.
	MaxWorkers int

	// Where the per-layer problem, parameter and tour files go.
	WorkDir string

	// Name of the input, recorded in the output header.
	Source string
}

type LayerStat struct {
	Layer  int
	Nodes  int
	Merged int
}

type Optimizer struct {
	Solver  solver.Solver
	Options Options
	Log     *slog.Logger

	// Called once each layer has been written to the output.
	Progress func(layer int)

	merges *problem.MergeTable
}

func (o *Optimizer) minimumNodes() int {
	if o.Options.MinimumNodes > 0 {
		return o.Options.MinimumNodes
	}
	return DefaultMinimumNodes
}

// Writes the optimized program to w. Any error aborts the whole run; w must
// then be discarded.
func (o *Optimizer) Run(ctx context.Context, p *vm.Program, w *export.Writer) error {
	// Set before any worker starts; workers only read it.
	if o.Log == nil {
		o.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	o.merges = problem.NewMergeTable()

	w.Header(p, o.Options.Source)

	var err error
	if o.Options.Parallel {
		err = o.parallel(ctx, p, w)
	} else {
		err = o.sequential(ctx, p, w)
	}
	if err != nil {
		return err
	}

	w.Footer(p)
	return nil
}

func (o *Optimizer) sequential(ctx context.Context, p *vm.Program, w *export.Writer) error {
	for i, layer := range p.Layers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.solve(ctx, i, layer); err != nil {
			return err
		}
		if err := o.reconstruct(i, layer, w); err != nil {
			return err
		}
	}
	return nil
}

// Every layer is encoded and solved in its own goroutine. Layers are only
// written once all of them are solved, as the output must stay in layer
// order.
func (o *Optimizer) parallel(ctx context.Context, p *vm.Program, w *export.Writer) error {
	g, gctx := errgroup.WithContext(ctx)
	if o.Options.MaxWorkers > 0 {
		g.SetLimit(o.Options.MaxWorkers)
	}

	for i, layer := range p.Layers {
		i, layer := i, layer
		g.Go(func() error {
			return o.solve(gctx, i, layer)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, layer := range p.Layers {
		if err := o.reconstruct(i, layer, w); err != nil {
			return err
		}
	}
	return nil
}

// Encodes the layer and runs the solver on it. Layers that are too small are
// left alone and have no entry in the merge table.
func (o *Optimizer) solve(ctx context.Context, index int, layer *vm.Layer) error {
	log := o.Log
	minimum := o.minimumNodes()

	if layer.Len() <= minimum {
		log.Info("skipping layer", "layer", index, "nodes", layer.Len())
		return nil
	}

	prob := problem.Encode(index, layer, o.Options.Problem)
	log.Info("merged nodes", "layer", index, "nodes", layer.Len(), "merged", prob.Dimension)
	if prob.Dimension <= minimum {
		log.Info("skipping layer", "layer", index, "nodes", layer.Len(), "merged", prob.Dimension)
		return nil
	}

	files := o.files(index)
	params := problem.NewParameters(files.Problem, files.Tour, o.Options.Problem)
	if err := writeFile(index, files.Parameters, params.String()); err != nil {
		return err
	}
	if err := writeFile(index, files.Problem, prob.Text); err != nil {
		return err
	}

	if err := o.merges.Store(index, prob.Merge); err != nil {
		return err
	}

	return o.Solver.Solve(ctx, files.job(index))
}

// Writes the layer to the output, following the solved tour if there is one.
func (o *Optimizer) reconstruct(index int, layer *vm.Layer, w *export.Writer) error {
	merge, ok := o.merges.Load(index)
	if !ok {
		w.Path(layer)
	} else {
		files := o.files(index)

		f, err := openFile(index, files.Tour)
		if err != nil {
			return err
		}
		tour, err := problem.ReadTour(index, f, merge)
		f.Close()
		if err != nil {
			return err
		}

		tour = problem.NormalizeTour(tour, len(merge))
		if err := w.Tour(index, layer, tour, merge); err != nil {
			return err
		}

		if err := files.remove(index); err != nil {
			return err
		}
	}

	w.Commands(layer.EndCommands)

	if o.Progress != nil {
		o.Progress(index)
	}
	return nil
}

// Node counts before and after merging for every solved layer.
func (o *Optimizer) Stats(p *vm.Program) []LayerStat {
	if o.merges == nil {
		return nil
	}
	var stats []LayerStat
	for _, l := range o.merges.Layers() {
		merge, _ := o.merges.Load(l)
		stats = append(stats, LayerStat{Layer: l, Nodes: p.Layers[l].Len(), Merged: len(merge)})
	}
	return stats
}
