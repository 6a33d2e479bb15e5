package schema

import (
	"log/slog"

	"github.com/embercore/ember/internal/diag"
)

// builtinSchemaFiles is the in-memory built-in schema loaded by New before
// any user manifest (§4.5, §4.7). Upstream ships a much larger built-in
// schema describing the engine's own core components; the file here is a
// deliberately minimal stand-in (see DESIGN.md) that still exercises the
// exact same array-provider load path.
var builtinSchemaFiles = []FileEntry{
	{Name: "ambient.toml", Contents: "[ember]\nid = \"schema\"\n"},
}

// Option configures a Semantic at construction time.
type Option func(*config)

type config struct {
	logger diag.Logger
	parser ManifestParser
}

// WithLogger attaches a structured logger used for load/resolve tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = diag.Logger{L: l} }
}

// WithParser overrides the manifest parser. The default parser rejects
// every manifest, so New fails with a ParseError when none is given.
func WithParser(p ManifestParser) Option {
	return func(c *config) { c.parser = p }
}

// Semantic is the fully-linked knowledge graph: the item arena, the root
// scope handle, and the standard attribute record (§6 "Producer surface").
type Semantic struct {
	Items               *ItemMap
	RootScopeID         ItemId[Scope]
	StandardDefinitions StandardDefinitions

	logger diag.Logger
	loader *Loader
}

// New builds the root scope (C7), loads the built-in schema manifest with
// Ambient source, activates the process-wide identifier-ban flag, and
// returns a Semantic ready to accept user manifests via AddFile/AddEmber
// (§2 control flow: "new() -> bootstrap root scope (C7) -> load built-in
// schema manifest (C5) -> load user manifests (C5) -> resolve() (C6)").
func New(opts ...Option) (*Semantic, error) {
	cfg := config{parser: defaultParser}
	for _, opt := range opts {
		opt(&cfg)
	}

	items := NewItemMap()
	root, defs := Bootstrap(items)
	cfg.logger.Info("bootstrapped root scope", slog.Int("primitives", len(AllScalarKinds())), slog.Int("attributes", len(StandardAttributeNames())))

	loader := NewLoader(items, root, cfg.parser)
	builtinProvider := ArrayFileProvider{Files: builtinSchemaFiles}
	if _, err := loader.AddFile("ambient.toml", builtinProvider, ItemSourceAmbient, "schema"); err != nil {
		return nil, err
	}

	ActivateIdentifierBans()
	cfg.logger.Debug("identifier bans activated")

	return &Semantic{
		Items:               items,
		RootScopeID:         root,
		StandardDefinitions: defs,
		logger:              cfg.logger,
		loader:              loader,
	}, nil
}

// defaultParser rejects every manifest; a real deployment supplies
// WithParser(manifest.Decode) (internal/manifest) or an equivalent.
func defaultParser(string) (Manifest, error) {
	return Manifest{}, &Error{Kind: ErrParseError, Message: "no manifest parser configured; pass schema.WithParser"}
}

// AddFile loads relPath through provider as a new top-level user scope
// (§4.5 add_file).
func (s *Semantic) AddFile(relPath string, provider FileProvider, scopeName string) (ItemId[Scope], error) {
	s.logger.Debug("loading manifest", slog.String("path", relPath))
	return s.loader.AddFile(relPath, provider, ItemSourceUser, scopeName)
}

// AddEmber reads "ambient.toml" from a filesystem directory with User
// source (§4.5 add_ember).
func (s *Semantic) AddEmber(diskPath string, read func(fullPath string) (string, error)) (ItemId[Scope], error) {
	s.logger.Debug("loading ember", slog.String("path", diskPath))
	return s.loader.AddEmber(diskPath, read)
}

// Resolve runs C6 over the whole graph. Failure is fatal to the whole
// call: there is no partial-success state, and the caller must discard
// this Semantic on error (§4.6, §9).
func (s *Semantic) Resolve() error {
	s.logger.Info("resolving graph")
	return Resolve(s.Items, s.RootScopeID)
}
