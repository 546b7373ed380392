package compiler

import (
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/loader"
	"github.com/funvibe/staticpy/internal/pipeline"
	"github.com/funvibe/staticpy/internal/scopes"
	"github.com/funvibe/staticpy/internal/symbols"
)

// Pipeline returns the stages run for every module: load, collect, bind
// and final-literal analysis.
func (c *Compiler) Pipeline() *pipeline.Pipeline {
	return pipeline.New(
		&loader.Processor{},
		&CollectProcessor{Compiler: c},
		&BindProcessor{Compiler: c},
		&FinalsProcessor{},
	).Observe(func(stage pipeline.Processor, ctx *pipeline.PipelineContext) {
		if ctx.HasErrors() {
			c.logf("%s: %T: %d error(s)", ctx.FilePath, stage, len(ctx.Errors))
		}
	})
}

type CollectProcessor struct {
	Compiler *Compiler
}

func (cp *CollectProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module == nil {
		return ctx
	}
	var flags []symbols.ModuleFlag
	for _, name := range ctx.Flags {
		f, err := symbols.ParseModuleFlag(name)
		if err != nil {
			ctx.AddError(err, diagnostics.ErrL001)
			return ctx
		}
		flags = append(flags, f)
	}
	table, err := cp.Compiler.Collect(ctx.Module, flags...)
	if err != nil {
		ctx.AddError(err, diagnostics.ErrS001)
		return ctx
	}
	ctx.Table = table
	return ctx
}

type BindProcessor struct {
	Compiler *Compiler
}

func (bp *BindProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Table == nil || ctx.Table.Phase() == symbols.Bound {
		return ctx
	}
	if err := bp.Compiler.Bind(ctx.Table); err != nil {
		ctx.AddError(err, diagnostics.ErrS003)
	}
	return ctx
}

// FinalsProcessor computes scopes and Final substitutions of a bound module.
type FinalsProcessor struct{}

func (fp *FinalsProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Table == nil || ctx.Table.Phase() != symbols.Bound || ctx.HasErrors() {
		return ctx
	}
	ctx.Scopes = scopes.Build(ctx.Module)
	ctx.FinalUses = FinalUses(ctx.Table, ctx.Scopes)
	return ctx
}
