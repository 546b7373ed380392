// Package repl provides an interactive loop for resolving annotations
// against a bound module table.
//
// Each input line is parsed as an expression and resolved the way an
// annotation on a parameter or return is resolved. Prefix a line with
// ":decl" to resolve it as a declaration annotation, where Final and
// ClassVar are allowed. ":names" lists the module's symbols.
package repl

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/funvibe/staticpy/internal/compiler"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/pipeline"
	"github.com/funvibe/staticpy/internal/symbols"
	"go.starlark.net/syntax"
)

const prompt = ">>> "

// Load returns the bound table of the stub module at path, or an empty
// bound module when path is "".
func Load(c *compiler.Compiler, path string) (*symbols.ModuleTable, error) {
	if path == "" {
		t := symbols.NewModuleTable("__main__", "<stdin>", c.Context)
		if err := c.Bind(t); err != nil {
			return nil, err
		}
		return t, nil
	}
	pc := c.Check(&pipeline.PipelineContext{FilePath: path})
	if pc.HasErrors() {
		return nil, pc.Errors[0]
	}
	return pc.Table, nil
}

// REPL reads annotations from the terminal until EOF.
func REPL(table *symbols.ModuleTable) {
	rl, err := readline.New(prompt)
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			break
		}
		out, err := Eval(table, line)
		if err != nil {
			PrintError(err)
			continue
		}
		if out != "" {
			fmt.Fprintln(rl.Stdout(), out)
		}
	}
	fmt.Println()
}

// Eval resolves one input line against table and returns the text to print.
func Eval(table *symbols.ModuleTable, line string) (string, error) {
	line = strings.TrimSpace(line)
	isDeclaration := false
	switch {
	case line == "":
		return "", nil
	case line == ":names":
		return names(table), nil
	case strings.HasPrefix(line, ":decl "):
		isDeclaration = true
		line = strings.TrimSpace(strings.TrimPrefix(line, ":decl "))
	case strings.HasPrefix(line, ":"):
		return "", fmt.Errorf("unknown command %s", strings.Fields(line)[0])
	}

	expr, err := syntax.ParseExpr("<stdin>", line, 0)
	if err != nil {
		return "", err
	}
	typ, err := table.ResolveAnnotation(expr, isDeclaration)
	if err != nil {
		return "", err
	}
	if typ == nil {
		return "unresolved", nil
	}
	return typ.String(), nil
}

func names(table *symbols.ModuleTable) string {
	children := table.Children()
	keys := make([]string, 0, len(children))
	for name := range children {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, name := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		v := children[name]
		fmt.Fprintf(&sb, "%s: %s %s", name, v.Kind(), v)
	}
	return sb.String()
}

// PrintError prints err to stderr, in diagnostic form when it is one.
func PrintError(err error) {
	var de *diagnostics.DiagnosticError
	if errors.As(err, &de) {
		diagnostics.NewEmitter(os.Stderr, diagnostics.ColorAuto).Emit(de)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
