package loader

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// stubFile is the YAML shape of a module stub.
//
//	module: shapes
//	flags: [checked_dicts]
//	imports:
//	  - from: typing
//	    names: [Final, Optional]
//	decls:
//	  - class: Point
//	    decls:
//	      - var: x
//	        annotation: int
//	  - def: origin
//	    returns: Point
//	  - var: LIMIT
//	    annotation: Final[int]
//	    value: "10"
type stubFile struct {
	Module  string       `yaml:"module"`
	Flags   []string     `yaml:"flags"`
	Imports []stubImport `yaml:"imports"`
	Decls   []stubDecl   `yaml:"decls"`
}

type stubImport struct {
	From   string   `yaml:"from"`
	Import string   `yaml:"import"`
	As     string   `yaml:"as"`
	Names  []string `yaml:"names"`

	line int
}

func (si *stubImport) UnmarshalYAML(node *yaml.Node) error {
	type plain stubImport
	if err := node.Decode((*plain)(si)); err != nil {
		return err
	}
	si.line = node.Line
	return nil
}

// stubDecl is one declaration. Exactly one of Class, Def, Var, Assign and
// Stmt is set.
type stubDecl struct {
	Class  string `yaml:"class"`
	Def    string `yaml:"def"`
	Var    string `yaml:"var"`
	Assign string `yaml:"assign"`
	Stmt   string `yaml:"stmt"`

	Bases      []string    `yaml:"bases"`
	Decorators []string    `yaml:"decorators"`
	Params     []stubParam `yaml:"params"`
	Returns    string      `yaml:"returns"`
	Async      bool        `yaml:"async"`
	Body       string      `yaml:"body"`
	Annotation string      `yaml:"annotation"`
	Value      string      `yaml:"value"`
	Decls      []stubDecl  `yaml:"decls"`

	line  int
	lines map[string]int // key -> line of its value
}

func (sd *stubDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain stubDecl
	if err := node.Decode((*plain)(sd)); err != nil {
		return err
	}
	sd.line = node.Line
	sd.lines = make(map[string]int)
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			line := val.Line
			if val.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
				line++
			}
			sd.lines[key.Value] = line
		}
	}
	return nil
}

// kind returns which declaration form sd is.
func (sd *stubDecl) kind() (string, error) {
	var kinds []string
	for _, k := range []struct {
		name string
		set  bool
	}{
		{"class", sd.Class != ""},
		{"def", sd.Def != ""},
		{"var", sd.Var != ""},
		{"assign", sd.Assign != ""},
		{"stmt", sd.Stmt != ""},
	} {
		if k.set {
			kinds = append(kinds, k.name)
		}
	}
	if len(kinds) != 1 {
		return "", fmt.Errorf("declaration must have exactly one of class, def, var, assign, stmt (got %s)",
			strings.Join(kinds, ", "))
	}
	return kinds[0], nil
}

func (sd *stubDecl) lineOf(key string) int {
	if l, ok := sd.lines[key]; ok {
		return l
	}
	return sd.line
}

// stubParam is a function parameter. The scalar form "name", "*args" or
// "**kwargs" is accepted for unannotated parameters.
type stubParam struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default string `yaml:"default"`
}

func (sp *stubParam) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		sp.Name = node.Value
		return nil
	}
	type plain stubParam
	return node.Decode((*plain)(sp))
}

// star splits leading stars off the parameter name.
func (sp stubParam) star() (string, int) {
	switch {
	case strings.HasPrefix(sp.Name, "**"):
		return sp.Name[2:], 2
	case strings.HasPrefix(sp.Name, "*"):
		return sp.Name[1:], 1
	}
	return sp.Name, 0
}
