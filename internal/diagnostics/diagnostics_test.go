package diagnostics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.starlark.net/syntax"
)

func parse(t *testing.T, src string) syntax.Expr {
	t.Helper()
	e, err := syntax.ParseExpr("mod.py", src, 0)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return e
}

func TestWithContextAttachesLocation(t *testing.T) {
	sink := NewSink()
	node := parse(t, "(\n  Final[int])").(*syntax.ParenExpr).X
	err := sink.WithContext("mod.py", node, func() error {
		return NewError(ErrS002, "Must assign a value when declaring a Final")
	})
	de, ok := AsDiagnostic(err)
	if !ok {
		t.Fatalf("expected diagnostic, got %v", err)
	}
	if de.File != "mod.py" || de.Pos.Line != 2 || de.Pos.Col != 3 {
		t.Errorf("location = %s, want mod.py:2:3", de.Location())
	}
	if !strings.HasPrefix(de.Error(), "mod.py:2:3: error [S002]") {
		t.Errorf("unexpected message %q", de.Error())
	}
}

func TestWithContextInnermostWins(t *testing.T) {
	sink := NewSink()
	outer := parse(t, "outer")
	inner := parse(t, "(\n\ninner)").(*syntax.ParenExpr).X
	err := sink.WithContext("mod.py", outer, func() error {
		return sink.WithContext("mod.py", inner, func() error {
			return Errorf(ErrS003, "misplaced %s", "Final")
		})
	})
	de, _ := AsDiagnostic(err)
	if de.Pos.Line != 3 {
		t.Errorf("line = %d, want 3 (inner context)", de.Pos.Line)
	}
}

func TestWithContextPassesOtherErrors(t *testing.T) {
	sink := NewSink()
	plain := errors.New("boom")
	if got := sink.WithContext("f", parse(t, "x"), func() error { return plain }); got != plain {
		t.Errorf("got %v, want the original error", got)
	}
	if got := sink.WithContext("f", parse(t, "x"), func() error { return nil }); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestSinkConcurrentAddAndOrdering(t *testing.T) {
	sink := NewSink()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sink.Add(&DiagnosticError{Code: ErrS001, File: fmt.Sprintf("m%02d.py", i), Message: "x"}, ErrS001)
		}(i)
	}
	wg.Wait()
	diags := sink.Diagnostics()
	if len(diags) != 20 {
		t.Fatalf("got %d diagnostics, want 20", len(diags))
	}
	for i := 1; i < len(diags); i++ {
		if diags[i-1].File > diags[i].File {
			t.Fatalf("diagnostics not sorted: %s before %s", diags[i-1].File, diags[i].File)
		}
	}
	sink.Add(errors.New("plain"), ErrL001)
	if !HasCode(sink.Diagnostics()[0], ErrL001) && !HasCode(sink.Diagnostics()[20], ErrL001) {
		t.Errorf("plain error was not wrapped with the fallback code")
	}
	sink.Clear()
	if sink.HasErrors() {
		t.Errorf("sink not empty after Clear")
	}
}

func TestEmitterNoColor(t *testing.T) {
	var buf bytes.Buffer
	NewEmitter(&buf, ColorNever).EmitAll([]*DiagnosticError{
		{Code: ErrS001, Message: "function conflicts with other member f in m", File: "m.py"},
	})
	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Errorf("unexpected ANSI codes in %q", out)
	}
	if !strings.Contains(out, "m.py: error [S001] binding conflict: function conflicts") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "Binding failed with 1 error(s)") {
		t.Errorf("missing summary in %q", out)
	}
}

func TestRequirePanicsWithContractViolation(t *testing.T) {
	defer func() {
		r := recover()
		cv, ok := r.(*ContractViolation)
		if !ok {
			t.Fatalf("recovered %v, want *ContractViolation", r)
		}
		if !strings.Contains(cv.Error(), "phase") {
			t.Errorf("unexpected message %q", cv.Error())
		}
	}()
	Require(false, "wrong %s", "phase")
}
