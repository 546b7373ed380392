package diagnostics

import (
	"sort"
	"sync"

	"go.starlark.net/syntax"
)

// Sink collects reported diagnostics. It is shared by every module of a
// compilation, so all methods are safe for concurrent use.
type Sink struct {
	mu     sync.Mutex
	errors []*DiagnosticError
}

func NewSink() *Sink {
	return &Sink{}
}

// WithContext runs fn inside an error context for node in file. An error
// returned by fn that carries no location gets file and the start of node
// attached; an already located error passes through unchanged, so the
// innermost context wins.
func (s *Sink) WithContext(file string, node interface {
	Span() (start, end syntax.Position)
}, fn func() error) error {
	err := fn()
	if err == nil || node == nil {
		return err
	}
	if de, ok := AsDiagnostic(err); ok && !de.HasLocation() {
		de.Pos, _ = node.Span()
		if de.File == "" {
			de.File = file
		}
	}
	return err
}

// Add reports a diagnostic. Errors that are not diagnostics are wrapped
// with the given fallback code.
func (s *Sink) Add(err error, fallback ErrorCode) {
	if err == nil {
		return
	}
	de, ok := AsDiagnostic(err)
	if !ok {
		de = NewError(fallback, err.Error())
	}
	s.mu.Lock()
	s.errors = append(s.errors, de)
	s.mu.Unlock()
}

// HasErrors returns true if anything was reported.
func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errors) > 0
}

// Diagnostics returns a copy of the reported errors sorted by file and position.
func (s *Sink) Diagnostics() []*DiagnosticError {
	s.mu.Lock()
	result := make([]*DiagnosticError, len(s.errors))
	copy(result, s.errors)
	s.mu.Unlock()

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		return a.Pos.Col < b.Pos.Col
	})
	return result
}

// Clear drops everything reported so far.
func (s *Sink) Clear() {
	s.mu.Lock()
	s.errors = nil
	s.mu.Unlock()
}
