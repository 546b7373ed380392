package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
	observers  []func(Processor, *PipelineContext)
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Observe registers fn to be called after every stage with the stage and
// its output.
func (p *Pipeline) Observe(fn func(Processor, *PipelineContext)) *Pipeline {
	p.observers = append(p.observers, fn)
	return p
}

// Run executes the pipeline. Every stage runs even after errors; stages
// skip work whose inputs an earlier stage failed to produce.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		for _, fn := range p.observers {
			fn(processor, ctx)
		}
	}
	return ctx
}
