// Package ember loads one or more ember projects (declarative manifests
// describing components, concepts, messages, types, and attributes),
// resolves their cross-manifest references, and returns a read-only
// [schema.Semantic] containing the merged, fully-linked graph.
package ember

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/embercore/ember/internal/manifest"
	"github.com/embercore/ember/schema"
)

// ErrNoSources is returned when Load is called with no sources.
var ErrNoSources = errors.New("no ember sources provided")

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger  *slog.Logger
	sources []Source
}

// WithLogger sets the logger for debug/trace output. If not set, no
// logging occurs.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = logger }
}

// WithSource appends one or more ember project sources to the load
// configuration. Sources are loaded in the order they are added.
func WithSource(src ...Source) LoadOption {
	return func(c *loadConfig) { c.sources = append(c.sources, src...) }
}

// Source names one ember project directory to load as a top-level scope.
type Source struct {
	// Dir is the directory containing ambient.toml.
	Dir string
	// ScopeName overrides the scope name; empty uses the manifest's own
	// ember.id.
	ScopeName string
}

// Load bootstraps a new [schema.Semantic], loads every configured source as
// a top-level user scope, then resolves the whole graph. On any error the
// returned Semantic must be discarded (spec: resolution has no
// partial-success state).
//
// Example:
//
//	sem, err := ember.Load(
//	    ember.WithSource(ember.Source{Dir: "./game"}),
//	    ember.WithLogger(logger),
//	)
func Load(opts ...LoadOption) (*schema.Semantic, error) {
	cfg := loadConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.sources) == 0 {
		return nil, ErrNoSources
	}

	sem, err := schema.New(
		schema.WithLogger(cfg.logger),
		schema.WithParser(manifest.Decode),
	)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping semantic core: %w", err)
	}

	for _, src := range cfg.sources {
		if _, err := sem.AddFile("ambient.toml", diskProvider{root: src.Dir}, src.ScopeName); err != nil {
			return nil, fmt.Errorf("loading %s: %w", src.Dir, err)
		}
	}

	if err := sem.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving graph: %w", err)
	}
	return sem, nil
}

// diskProvider adapts os.ReadFile to schema.FileProvider, rooted at a
// directory (mirrors the teacher's DirTree/Dir source shape).
type diskProvider struct {
	root string
}

func (p diskProvider) Get(relPath string) (string, error) {
	full := p.FullPath(relPath)
	data, err := os.ReadFile(full)
	if err != nil {
		return "", &schema.Error{Kind: schema.ErrFileNotFound, ManifestPath: full, Message: err.Error()}
	}
	return string(data), nil
}

func (p diskProvider) FullPath(relPath string) string {
	return schema.DiskFileProvider{Root: p.root, Read: nil}.FullPath(relPath)
}
