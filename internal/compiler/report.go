package compiler

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/funvibe/staticpy/internal/pipeline"
	"github.com/funvibe/staticpy/internal/typesystem"
	"go.starlark.net/syntax"
)

// WriteReport prints the committed symbols, Final literals and literal
// substitutions of a checked module.
func WriteReport(w io.Writer, pc *pipeline.PipelineContext) {
	if pc.Table == nil {
		return
	}
	t := pc.Table
	fmt.Fprintf(w, "module %s (%s)\n", t.Name, t.Filename)
	if flags := t.Flags(); len(flags) > 0 {
		names := make([]string, len(flags))
		for i, f := range flags {
			names[i] = f.String()
		}
		fmt.Fprintf(w, "  flags: %s\n", strings.Join(names, ", "))
	}

	children := t.Children()
	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := children[name]
		fmt.Fprintf(w, "  %s: %s %s\n", name, v.Kind(), v)
		if c, ok := v.(*typesystem.Class); ok && c.Node != nil {
			writeMembers(w, c)
		}
	}

	finals := t.FinalLiterals()
	names = names[:0]
	for name := range finals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  final %s = %s\n", name, literalText(finals[name]))
	}
	for _, use := range pc.FinalUses {
		pos := use.Name.Ident.NamePos
		fmt.Fprintf(w, "  substitute %s at %d:%d -> %s\n",
			use.Name.Ident.Name, pos.Line, pos.Col, literalText(use.Literal))
	}
}

func writeMembers(w io.Writer, c *typesystem.Class) {
	names := make([]string, 0, len(c.Members))
	for name := range c.Members {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := c.Members[name]
		fmt.Fprintf(w, "    .%s: %s %s\n", name, v.Kind(), v)
	}
}

func literalText(e syntax.Expr) string {
	switch e := e.(type) {
	case *syntax.Literal:
		return e.Raw
	case *syntax.Ident:
		return e.Name
	}
	return "?"
}
