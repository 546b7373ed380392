package ast

// Visitor is implemented by tree walkers. Each Accept calls exactly one
// Visit method; walkers recurse into children themselves.
type Visitor interface {
	VisitModule(m *Module)
	VisitClassDef(cd *ClassDef)
	VisitFunctionDef(fd *FunctionDef)
	VisitAnnAssign(aa *AnnAssign)
	VisitAssign(as *Assign)
	VisitImport(im *Import)
	VisitSimpleStatement(ss *SimpleStatement)
	VisitName(n *Name)
}

// BaseVisitor walks every statement list and does nothing else. Embed it
// to override only the node kinds of interest.
type BaseVisitor struct {
	// Self is the outermost visitor; recursion dispatches through it.
	Self Visitor
}

func (b *BaseVisitor) self() Visitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseVisitor) walk(body []Statement) {
	for _, s := range body {
		s.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitModule(m *Module)                    { b.walk(m.Body) }
func (b *BaseVisitor) VisitClassDef(cd *ClassDef)               { b.walk(cd.Body) }
func (b *BaseVisitor) VisitFunctionDef(fd *FunctionDef)         { b.walk(fd.Body) }
func (b *BaseVisitor) VisitAnnAssign(aa *AnnAssign)             {}
func (b *BaseVisitor) VisitAssign(as *Assign)                   {}
func (b *BaseVisitor) VisitImport(im *Import)                   {}
func (b *BaseVisitor) VisitSimpleStatement(ss *SimpleStatement) {}
func (b *BaseVisitor) VisitName(n *Name)                        {}
