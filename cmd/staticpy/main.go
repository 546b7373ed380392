// The staticpy command binds module stubs and reports their declarations,
// Final constants and the literal substitutions a compiler may perform.
//
//	staticpy check [-v] [-config file] [-color mode] path...
//	staticpy repl [stub]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/funvibe/staticpy/internal/compiler"
	"github.com/funvibe/staticpy/internal/config"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/loader"
	"github.com/funvibe/staticpy/internal/pipeline"
	"github.com/funvibe/staticpy/internal/repl"
)

func main() {
	log.SetPrefix("staticpy: ")
	log.SetFlags(0)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: staticpy check [-v] [-config file] [-color auto|always|never] path...")
	fmt.Fprintln(w, "       staticpy repl [stub]")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "repl":
		return runREPL(args[1:], stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	}
	fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	usage(stderr)
	return 2
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log binding progress")
	cfgPath := fs.String("config", "", "read configuration from `file` instead of searching for staticpy.yaml")
	color := fs.String("color", "", "colour diagnostics: auto, always or never")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return configError(stderr, err)
	}
	if *color != "" {
		cfg.Color = *color
	}

	var opts []compiler.Option
	if *verbose {
		opts = append(opts, compiler.WithLogger(log.New(stderr, "staticpy: ", 0)))
	}
	c, err := compiler.NewFromConfig(cfg, opts...)
	if err != nil {
		return configError(stderr, err)
	}

	files, err := stubFiles(fs.Args())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	units := make([]*pipeline.PipelineContext, len(files))
	for i, f := range files {
		units[i] = &pipeline.PipelineContext{FilePath: f}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := c.BindAll(ctx, units)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	for _, pc := range results {
		compiler.WriteReport(stdout, pc)
	}

	diags := c.Context.Sink.Diagnostics()
	diagnostics.NewEmitter(stderr, diagnostics.ColorMode(cfg.Color)).EmitAll(diags)
	if len(diags) > 0 {
		return 1
	}
	return 0
}

func runREPL(args []string, stderr io.Writer) int {
	if len(args) > 1 {
		usage(stderr)
		return 2
	}
	cfg, err := loadConfig("")
	if err != nil {
		return configError(stderr, err)
	}
	c, err := compiler.NewFromConfig(cfg)
	if err != nil {
		return configError(stderr, err)
	}
	var path string
	if len(args) == 1 {
		path = args[0]
	}
	table, err := repl.Load(c, path)
	if err != nil {
		repl.PrintError(err)
		return 1
	}
	repl.REPL(table)
	return 0
}

func configError(stderr io.Writer, err error) int {
	diagnostics.NewEmitter(stderr, diagnostics.ColorAuto).Emit(diagnostics.NewError(diagnostics.ErrC001, err.Error()))
	return 1
}

// loadConfig reads path, or the nearest staticpy.yaml above the working
// directory when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.Default(), nil
		}
		path = found
	}
	return config.LoadConfig(path)
}

// stubFiles expands directories to the stub files beneath them. Files
// named explicitly are kept whatever their extension.
func stubFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && loader.IsStubFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
