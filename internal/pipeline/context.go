package pipeline

import (
	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/scopes"
	"github.com/funvibe/staticpy/internal/symbols"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries one module through the stages.
type PipelineContext struct {
	FilePath string
	Source   []byte // read from FilePath when nil

	Module *ast.Module
	Flags  []string

	Table     *symbols.ModuleTable
	Scopes    *scopes.Tree
	FinalUses []symbols.FinalUse

	Errors []*diagnostics.DiagnosticError
}

// AddError records err, wrapping non-diagnostic errors with code.
func (ctx *PipelineContext) AddError(err error, code diagnostics.ErrorCode) {
	if err == nil {
		return
	}
	de, ok := diagnostics.AsDiagnostic(err)
	if !ok {
		de = diagnostics.NewError(code, err.Error())
	}
	if de.File == "" {
		de.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, de)
}

func (ctx *PipelineContext) HasErrors() bool { return len(ctx.Errors) > 0 }
