package compiler

import (
	"context"

	"github.com/funvibe/staticpy/internal/pipeline"
	"github.com/funvibe/staticpy/internal/symbols"
	"golang.org/x/sync/errgroup"
)

// Bind runs the second pass over a collected table.
func (c *Compiler) Bind(table *symbols.ModuleTable) error {
	if err := table.FinishBind(); err != nil {
		c.logf("binding %s failed: %v", table.Name, err)
		return err
	}
	c.logf("bound %s: %d symbols", table.Name, len(table.Children()))
	return nil
}

// Check runs the full pipeline for one module.
func (c *Compiler) Check(pc *pipeline.PipelineContext) *pipeline.PipelineContext {
	pc = c.Pipeline().Run(pc)
	for _, err := range pc.Errors {
		c.Context.Sink.Add(err, "")
	}
	return pc
}

// BindAll checks independent modules concurrently, at most c.Jobs at a
// time. Each module owns its table; only the compiler context is shared.
// Results are in input order. The error is non-nil only if ctx is
// cancelled; diagnostics are in each result and in the shared sink.
func (c *Compiler) BindAll(ctx context.Context, units []*pipeline.PipelineContext) ([]*pipeline.PipelineContext, error) {
	results := make([]*pipeline.PipelineContext, len(units))
	g, gctx := errgroup.WithContext(ctx)
	if c.Jobs > 0 {
		g.SetLimit(c.Jobs)
	}
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Check(unit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
