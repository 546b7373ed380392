// Package compiler drives the static binder over whole modules: it
// collects declarations into module tables, binds them, and reports which
// reads of Final constants can be replaced by their literal values.
package compiler

import (
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/funvibe/staticpy/internal/config"
	"github.com/funvibe/staticpy/internal/symbols"
	"github.com/funvibe/staticpy/internal/typesystem"
	"github.com/google/uuid"
)

// Compiler holds the state shared by every module of one compilation.
type Compiler struct {
	Session uuid.UUID
	Context *symbols.Context
	Logger  *log.Logger

	// Jobs caps concurrent module binds in BindAll. Zero or less means
	// no limit.
	Jobs int

	flags   symbols.ModuleFlag
	modules map[string]*typesystem.Module
}

type Option func(*Compiler)

// WithLogger sends progress messages to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Compiler) { c.Logger = l }
}

func WithJobs(n int) Option {
	return func(c *Compiler) { c.Jobs = n }
}

// WithFlags sets flags every module table starts with.
func WithFlags(flags ...symbols.ModuleFlag) Option {
	return func(c *Compiler) {
		for _, f := range flags {
			c.flags |= f
		}
	}
}

// WithModule registers an importable module whose members are all dynamic.
func WithModule(name string, members ...string) Option {
	return func(c *Compiler) {
		m := &typesystem.Module{Name: name, Members: make(map[string]typesystem.Value)}
		for _, member := range members {
			m.Members[member] = typesystem.DynamicType
		}
		c.modules[name] = m
	}
}

func New(opts ...Option) *Compiler {
	c := &Compiler{
		Session: uuid.New(),
		Context: symbols.NewContext(),
		Logger:  log.New(io.Discard, "", 0),
		modules: make(map[string]*typesystem.Module),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds a compiler from project configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Compiler, error) {
	var all []Option
	for _, name := range cfg.Flags {
		f, err := symbols.ParseModuleFlag(name)
		if err != nil {
			return nil, err
		}
		all = append(all, WithFlags(f))
	}
	names := make([]string, 0, len(cfg.Modules))
	for name := range cfg.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		all = append(all, WithModule(name, cfg.Modules[name]...))
	}
	all = append(all, WithJobs(cfg.Jobs))
	return New(append(all, opts...)...), nil
}

func (c *Compiler) logf(format string, args ...interface{}) {
	c.Logger.Printf("[%s] %s", c.Session.String()[:8], fmt.Sprintf(format, args...))
}

// module returns the importable module called name, or nil.
func (c *Compiler) module(name string) *typesystem.Module {
	if m := typesystem.VirtualModule(name); m != nil {
		return m
	}
	return c.modules[name]
}
