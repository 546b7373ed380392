package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/staticpy/internal/compiler"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/symbols"
	"github.com/funvibe/staticpy/internal/typesystem"
)

const shapesStub = `module: shapes
imports:
  - from: typing
    names: [Final, ClassVar]
decls:
  - class: Box
  - var: LIMIT
    annotation: Final[int]
    value: 3
`

func loadStub(t *testing.T, src string) *symbols.ModuleTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shapes.stub.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := Load(compiler.New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return table
}

func TestEval(t *testing.T) {
	table := loadStub(t, shapesStub)

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"int", "int"},
		{"Box | None", "Optional[Box]"},
		{"list[Box]", "list[Box]"},
		{`"Box"`, "Box"},
		{"float", typesystem.DynamicType.String()},
		{"undefined_name", "unresolved"},
		{":decl Final[int]", "Final[int]"},
		{":decl ClassVar[int]", "ClassVar[int]"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Eval(table, tt.input)
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEvalNames(t *testing.T) {
	got, err := Eval(loadStub(t, shapesStub), ":names")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Box: class", "ClassVar:", "Final:", "LIMIT: object Final[int]"} {
		if !strings.Contains(got, name) {
			t.Errorf(":names output missing %q:\n%s", name, got)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	table := loadStub(t, shapesStub)

	if _, err := Eval(table, "Final[int]"); !diagnostics.HasCode(err, diagnostics.ErrS003) {
		t.Errorf("Final[int]: expected S003, got %v", err)
	}
	if _, err := Eval(table, "list[int"); err == nil {
		t.Error("list[int: expected parse error")
	}
	if _, err := Eval(table, ":bogus x"); err == nil || !strings.Contains(err.Error(), ":bogus") {
		t.Errorf(":bogus: got %v", err)
	}
}

func TestEvalEmptyModule(t *testing.T) {
	table, err := Load(compiler.New(), "")
	if err != nil {
		t.Fatal(err)
	}
	for input, want := range map[string]string{
		"int | None": "Optional[int]",
		"Final[int]": "unresolved",
	} {
		got, err := Eval(table, input)
		if err != nil {
			t.Fatalf("Eval(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("Eval(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLoadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.stub.yaml")
	if err := os.WriteFile(path, []byte("module: bad\ndecls:\n  - var: x\n    annotation: list[int\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(compiler.New(), path)
	if !diagnostics.HasCode(err, diagnostics.ErrL002) {
		t.Errorf("expected L002, got %v", err)
	}
}
