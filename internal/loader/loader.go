// Package loader reads YAML module stubs into declaration trees.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/config"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"go.starlark.net/syntax"
	"gopkg.in/yaml.v3"
)

// Stub is a loaded module stub.
type Stub struct {
	Module *ast.Module
	Flags  []string
}

// IsStubFile reports whether path has a recognized stub extension.
func IsStubFile(path string) bool {
	for _, ext := range config.StubFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ModuleName derives a module name from a stub path: dir/pkg.mod.stub.yaml
// is module "pkg.mod".
func ModuleName(path string) string {
	base := filepath.Base(path)
	for _, ext := range config.StubFileExtensions {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadFile reads and parses a stub file.
func LoadFile(path string) (*Stub, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diagnostics.NewErrorAt(diagnostics.ErrL001, path, syntax.Position{}, err.Error())
	}
	return Parse(path, data)
}

// Parse parses stub content. Source positions of every parsed expression
// point at the YAML line it came from.
func Parse(path string, data []byte) (*Stub, error) {
	var sf stubFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, diagnostics.NewErrorAt(diagnostics.ErrL001, path, syntax.Position{},
			fmt.Sprintf("parsing stub: %v", err))
	}
	for _, f := range sf.Flags {
		if !config.IsKnownFlag(f) {
			return nil, diagnostics.NewErrorAt(diagnostics.ErrL001, path, syntax.Position{},
				fmt.Sprintf("unknown module flag %q", f))
		}
	}

	p := &parser{file: path}
	mod := &ast.Module{Name: sf.Module, File: path}
	if mod.Name == "" {
		mod.Name = ModuleName(path)
	}
	for _, si := range sf.Imports {
		im, err := p.importStmt(si)
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, im)
	}
	body, err := p.decls(sf.Decls)
	if err != nil {
		return nil, err
	}
	mod.Body = append(mod.Body, body...)
	return &Stub{Module: mod, Flags: sf.Flags}, nil
}

type parser struct {
	file string
}

func (p *parser) pos(line int) syntax.Position {
	return syntax.MakePosition(&p.file, int32(line), 1)
}

func (p *parser) errorf(code diagnostics.ErrorCode, line int, format string, args ...interface{}) error {
	return diagnostics.NewErrorAt(code, p.file, p.pos(line), fmt.Sprintf(format, args...))
}

// expr parses src as an expression placed on the given line.
func (p *parser) expr(src string, line int) (syntax.Expr, error) {
	if line < 1 {
		line = 1
	}
	padded := "(" + strings.Repeat("\n", line-1) + src + ")"
	e, err := syntax.ParseExpr(p.file, padded, 0)
	if err != nil {
		return nil, p.syntaxError(err, line)
	}
	if paren, ok := e.(*syntax.ParenExpr); ok {
		return paren.X, nil
	}
	return e, nil // a tuple keeps the added parentheses
}

func (p *parser) optExpr(src string, line int) (syntax.Expr, error) {
	if src == "" {
		return nil, nil
	}
	return p.expr(src, line)
}

func (p *parser) exprs(srcs []string, line int) ([]syntax.Expr, error) {
	var out []syntax.Expr
	for _, src := range srcs {
		e, err := p.expr(src, line)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// stmts parses host statements whose first line is line.
func (p *parser) stmts(src string, line int) ([]ast.Statement, error) {
	if line < 1 {
		line = 1
	}
	f, err := syntax.Parse(p.file, strings.Repeat("\n", line-1)+src, 0)
	if err != nil {
		return nil, p.syntaxError(err, line)
	}
	out := make([]ast.Statement, len(f.Stmts))
	for i, s := range f.Stmts {
		out[i] = &ast.SimpleStatement{Stmt: s}
	}
	return out, nil
}

func (p *parser) syntaxError(err error, line int) error {
	var se syntax.Error
	if errors.As(err, &se) {
		return diagnostics.NewErrorAt(diagnostics.ErrL002, p.file, se.Pos, se.Msg)
	}
	return p.errorf(diagnostics.ErrL002, line, "%v", err)
}

func (p *parser) ident(name string, line int) (*syntax.Ident, error) {
	e, err := p.expr(name, line)
	if err != nil {
		return nil, err
	}
	id, ok := e.(*syntax.Ident)
	if !ok {
		return nil, p.errorf(diagnostics.ErrL003, line, "%q is not an identifier", name)
	}
	return id, nil
}

func (p *parser) importStmt(si stubImport) (*ast.Import, error) {
	im := &ast.Import{ImportPos: p.pos(si.line), Module: si.From}
	switch {
	case si.From != "" && si.Import == "":
		if len(si.Names) == 0 {
			return nil, p.errorf(diagnostics.ErrL003, si.line, "from-import of %s names nothing", si.From)
		}
		for _, n := range si.Names {
			name, as, _ := strings.Cut(n, " as ")
			im.Names = append(im.Names, ast.Alias{
				Name:   strings.TrimSpace(name),
				AsName: strings.TrimSpace(as),
				Pos:    im.ImportPos,
			})
		}
	case si.Import != "" && si.From == "":
		im.Names = []ast.Alias{{Name: si.Import, AsName: si.As, Pos: im.ImportPos}}
	default:
		return nil, p.errorf(diagnostics.ErrL003, si.line, "import needs exactly one of from or import")
	}
	return im, nil
}

func (p *parser) decls(list []stubDecl) ([]ast.Statement, error) {
	var out []ast.Statement
	for i := range list {
		stmts, err := p.decl(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	return out, nil
}

func (p *parser) decl(sd *stubDecl) ([]ast.Statement, error) {
	kind, err := sd.kind()
	if err != nil {
		return nil, p.errorf(diagnostics.ErrL003, sd.line, "%v", err)
	}
	switch kind {
	case "class":
		cd, err := p.classDef(sd)
		return []ast.Statement{cd}, err
	case "def":
		fd, err := p.funcDef(sd)
		return []ast.Statement{fd}, err
	case "var":
		aa, err := p.annAssign(sd)
		return []ast.Statement{aa}, err
	case "assign":
		as, err := p.assign(sd)
		return []ast.Statement{as}, err
	}
	return p.stmts(sd.Stmt, sd.lineOf("stmt"))
}

func (p *parser) classDef(sd *stubDecl) (*ast.ClassDef, error) {
	name, err := p.ident(sd.Class, sd.lineOf("class"))
	if err != nil {
		return nil, err
	}
	cd := &ast.ClassDef{ClassPos: name.NamePos, Name: name}
	if cd.Bases, err = p.exprs(sd.Bases, sd.lineOf("bases")); err != nil {
		return nil, err
	}
	if cd.Decorators, err = p.exprs(sd.Decorators, sd.lineOf("decorators")); err != nil {
		return nil, err
	}
	if cd.Body, err = p.decls(sd.Decls); err != nil {
		return nil, err
	}
	return cd, nil
}

func (p *parser) funcDef(sd *stubDecl) (*ast.FunctionDef, error) {
	name, err := p.ident(sd.Def, sd.lineOf("def"))
	if err != nil {
		return nil, err
	}
	fd := &ast.FunctionDef{DefPos: name.NamePos, Name: name, Async: sd.Async}
	if fd.Decorators, err = p.exprs(sd.Decorators, sd.lineOf("decorators")); err != nil {
		return nil, err
	}
	line := sd.lineOf("params")
	for _, sp := range sd.Params {
		pname, star := sp.star()
		param := &ast.Param{Star: star}
		if param.Name, err = p.ident(pname, line); err != nil {
			return nil, err
		}
		if param.Annotation, err = p.optExpr(sp.Type, line); err != nil {
			return nil, err
		}
		if param.Default, err = p.optExpr(sp.Default, line); err != nil {
			return nil, err
		}
		fd.Params = append(fd.Params, param)
	}
	if fd.Returns, err = p.optExpr(sd.Returns, sd.lineOf("returns")); err != nil {
		return nil, err
	}
	if sd.Body != "" {
		if fd.Body, err = p.stmts(sd.Body, sd.lineOf("body")); err != nil {
			return nil, err
		}
	}
	if len(sd.Decls) > 0 {
		nested, err := p.decls(sd.Decls)
		if err != nil {
			return nil, err
		}
		fd.Body = append(fd.Body, nested...)
	}
	return fd, nil
}

func (p *parser) annAssign(sd *stubDecl) (*ast.AnnAssign, error) {
	if sd.Annotation == "" {
		return nil, p.errorf(diagnostics.ErrL003, sd.line, "var %s has no annotation", sd.Var)
	}
	target, err := p.expr(sd.Var, sd.lineOf("var"))
	if err != nil {
		return nil, err
	}
	aa := &ast.AnnAssign{Target: target}
	aa.Colon, _ = target.Span()
	if aa.Annotation, err = p.expr(sd.Annotation, sd.lineOf("annotation")); err != nil {
		return nil, err
	}
	if aa.Value, err = p.optExpr(sd.Value, sd.lineOf("value")); err != nil {
		return nil, err
	}
	return aa, nil
}

func (p *parser) assign(sd *stubDecl) (*ast.Assign, error) {
	if sd.Value == "" {
		return nil, p.errorf(diagnostics.ErrL003, sd.line, "assign %s has no value", sd.Assign)
	}
	target, err := p.expr(sd.Assign, sd.lineOf("assign"))
	if err != nil {
		return nil, err
	}
	value, err := p.expr(sd.Value, sd.lineOf("value"))
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Targets: []syntax.Expr{target}, Value: value}, nil
}
