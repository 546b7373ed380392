package ast

import (
	"go.starlark.net/syntax"
)

// ClassDef represents a class definition.
//
//	@dec
//	class Name(Base1, Base2):
//	    body
type ClassDef struct {
	ClassPos   syntax.Position
	Name       *syntax.Ident
	Bases      []syntax.Expr
	Decorators []syntax.Expr // top-to-bottom as written
	Body       []Statement
}

func (cd *ClassDef) Accept(v Visitor) { v.VisitClassDef(cd) }
func (cd *ClassDef) statementNode()   {}
func (cd *ClassDef) Span() (start, end syntax.Position) {
	start, end = cd.ClassPos, cd.ClassPos
	if len(cd.Decorators) > 0 {
		start = syntax.Start(cd.Decorators[0])
	}
	if len(cd.Body) > 0 {
		_, end = cd.Body[len(cd.Body)-1].Span()
	} else if cd.Name != nil {
		_, end = cd.Name.Span()
	}
	return start, end
}

// Param is one formal parameter of a function definition.
type Param struct {
	Name       *syntax.Ident
	Annotation syntax.Expr // optional
	Default    syntax.Expr // optional
	Star       int         // 0 plain, 1 *args, 2 **kwargs
}

// FunctionDef represents a (possibly async) function definition.
//
//	@outer
//	@inner
//	def name(a: int, b: str = "") -> T:
//	    body
type FunctionDef struct {
	DefPos     syntax.Position
	Name       *syntax.Ident
	Async      bool
	Params     []*Param
	Returns    syntax.Expr   // optional
	Decorators []syntax.Expr // top-to-bottom as written
	Body       []Statement
}

func (fd *FunctionDef) Accept(v Visitor) { v.VisitFunctionDef(fd) }
func (fd *FunctionDef) statementNode()   {}
func (fd *FunctionDef) Span() (start, end syntax.Position) {
	start, end = fd.DefPos, fd.DefPos
	if len(fd.Decorators) > 0 {
		start = syntax.Start(fd.Decorators[0])
	}
	if len(fd.Body) > 0 {
		_, end = fd.Body[len(fd.Body)-1].Span()
	} else if fd.Name != nil {
		_, end = fd.Name.Span()
	}
	return start, end
}

// AnnAssign represents an annotated assignment: Target: Annotation [= Value].
type AnnAssign struct {
	Target     syntax.Expr
	Colon      syntax.Position
	Annotation syntax.Expr
	Value      syntax.Expr // nil for a bare declaration
}

func (aa *AnnAssign) Accept(v Visitor) { v.VisitAnnAssign(aa) }
func (aa *AnnAssign) statementNode()   {}
func (aa *AnnAssign) Span() (start, end syntax.Position) {
	start, _ = aa.Target.Span()
	if aa.Value != nil {
		_, end = aa.Value.Span()
	} else {
		_, end = aa.Annotation.Span()
	}
	return start, end
}

// TargetName returns the target identifier when the target is a simple name.
func (aa *AnnAssign) TargetName() (*syntax.Ident, bool) {
	id, ok := Unparen(aa.Target).(*syntax.Ident)
	return id, ok
}

// Assign represents a plain assignment: T1 = T2 = Value.
type Assign struct {
	Targets []syntax.Expr
	Value   syntax.Expr
}

func (as *Assign) Accept(v Visitor) { v.VisitAssign(as) }
func (as *Assign) statementNode()   {}
func (as *Assign) Span() (start, end syntax.Position) {
	if len(as.Targets) > 0 {
		start, _ = as.Targets[0].Span()
	}
	_, end = as.Value.Span()
	return start, end
}

// Alias is one imported name: Name [as AsName].
type Alias struct {
	Name   string
	AsName string
	Pos    syntax.Position
}

// Bound returns the local name the alias binds.
// For "import a.b" without an alias that is the first dotted component.
func (a Alias) Bound(fromImport bool) string {
	if a.AsName != "" {
		return a.AsName
	}
	if !fromImport {
		for i := 0; i < len(a.Name); i++ {
			if a.Name[i] == '.' {
				return a.Name[:i]
			}
		}
	}
	return a.Name
}

// Import represents "import a [as b]" (Module empty) or
// "from Module import a [as b]".
type Import struct {
	ImportPos syntax.Position
	Module    string
	Names     []Alias
}

func (im *Import) Accept(v Visitor) { v.VisitImport(im) }
func (im *Import) statementNode()   {}
func (im *Import) Span() (start, end syntax.Position) {
	return im.ImportPos, im.ImportPos
}

// IsFrom reports whether this is a from-import.
func (im *Import) IsFrom() bool { return im.Module != "" }

// SimpleStatement wraps any other statement of the host language. The
// binder never declares anything for it, but scope analysis walks it.
type SimpleStatement struct {
	Stmt syntax.Stmt
}

func (ss *SimpleStatement) Accept(v Visitor) { v.VisitSimpleStatement(ss) }
func (ss *SimpleStatement) statementNode()   {}
func (ss *SimpleStatement) Span() (start, end syntax.Position) {
	return ss.Stmt.Span()
}
