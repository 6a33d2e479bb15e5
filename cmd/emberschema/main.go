// Command emberschema loads and resolves ember project manifests from the
// command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	ember "github.com/embercore/ember"
	"github.com/embercore/ember/printer"
	"github.com/embercore/ember/schema"
)

// Exit codes.
const (
	exitOK         = 0 // success
	exitError      = 1 // user error or processing failure
	exitUsage      = 2 // bad invocation
	exitResolution = 2 // unresolved-reference/strict-mode violation
)

const usage = `emberschema - ember schema loader and resolver

Usage:
  emberschema <command> [options] [arguments]

Commands:
  load    Load and resolve one or more ember project directories
  dump    Load, resolve, and print the resolved graph as a tree
  paths   Print the directories that would be loaded
  version Show version

Common options:
  -v, --verbose   Enable debug logging
  -vv             Enable trace logging (implies -v)
  -h, --help      Show help
`

type cli struct {
	verbose int
	dirs    []string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	var c cli
	var cmd string
	var rest []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			_, _ = fmt.Fprint(os.Stdout, usage)
			return exitOK
		case arg == "-v" || arg == "--verbose":
			if c.verbose < 1 {
				c.verbose = 1
			}
		case arg == "-vv":
			c.verbose = 2
		case cmd == "":
			cmd = arg
		default:
			rest = append(rest, arg)
		}
	}

	if cmd == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitUsage
	}

	c.dirs = rest

	switch cmd {
	case "load":
		return c.cmdLoad()
	case "dump":
		return c.cmdDump()
	case "paths":
		return c.cmdPaths()
	case "version":
		printVersion()
		return exitOK
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitUsage
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.verbose >= 2 {
		level = -8 // same value as diag.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(level)}))
}

func (c *cli) sources() []ember.Source {
	dirs := c.dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	sources := make([]ember.Source, len(dirs))
	for i, d := range dirs {
		sources[i] = ember.Source{Dir: d}
	}
	return sources
}

func (c *cli) load() (*schema.Semantic, int) {
	opts := []ember.LoadOption{ember.WithSource(c.sources()...)}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, ember.WithLogger(logger))
	}
	sem, err := ember.Load(opts...)
	if err != nil {
		printError("%v", err)
		return nil, exitCodeFor(err)
	}
	return sem, exitOK
}

// exitCodeFor maps a failed load to its exit code: 2 for a strict-mode
// resolution violation (a reference or value the resolver could not make
// sense of), 1 for every other load failure (missing files, bad syntax,
// duplicate/circular scopes, identifier/arena errors).
func exitCodeFor(err error) int {
	var schemaErr *schema.Error
	if errors.As(err, &schemaErr) {
		switch schemaErr.Kind {
		case schema.ErrUnresolvedReference, schema.ErrUnresolvedValue:
			return exitResolution
		}
	}
	return exitError
}

func (c *cli) cmdLoad() int {
	sem, code := c.load()
	if code != exitOK {
		return code
	}
	fmt.Printf("loaded %d item(s)\n", sem.Items.Len())
	return exitOK
}

func (c *cli) cmdDump() int {
	sem, code := c.load()
	if code != exitOK {
		return code
	}
	if err := printer.Tree(os.Stdout, sem.Items, sem.RootScopeID); err != nil {
		printError("%v", err)
		return exitError
	}
	return exitOK
}

func (c *cli) cmdPaths() int {
	for _, s := range c.sources() {
		fmt.Println(s.Dir)
	}
	return exitOK
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("emberschema %s\n", version)
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
