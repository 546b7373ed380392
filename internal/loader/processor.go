package loader

import (
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/pipeline"
)

// Processor loads ctx.FilePath (or ctx.Source) into ctx.Module.
type Processor struct{}

func (lp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module != nil {
		return ctx
	}
	var (
		stub *Stub
		err  error
	)
	if ctx.Source != nil {
		stub, err = Parse(ctx.FilePath, ctx.Source)
	} else {
		stub, err = LoadFile(ctx.FilePath)
	}
	if err != nil {
		ctx.AddError(err, diagnostics.ErrL001)
		return ctx
	}
	ctx.Module = stub.Module
	ctx.Flags = append(ctx.Flags, stub.Flags...)
	return ctx
}
