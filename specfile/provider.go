package specfile

import (
	"context"

	"github.com/vyrodovalexey/routetree"
	"github.com/vyrodovalexey/routetree/internal/observability"
)

// Provider keeps a published tree in sync with a spec file on disk.
//
// It realizes the build-then-publish model: every successful reload
// builds a fresh tree from the document and atomically swaps it in,
// so concurrent Lookup callers always traverse a complete, immutable
// snapshot. A reload that fails to load or build leaves the previous
// snapshot serving.
type Provider struct {
	swapper *routetree.Swapper[Target]
	watcher *Watcher
	logger  observability.Logger
}

// ProviderOption is a functional option for configuring the provider.
type ProviderOption func(*Provider)

// WithProviderLogger sets the logger for the provider.
func WithProviderLogger(logger observability.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider creates a provider for the given spec file path. The
// file is not read until Start.
func NewProvider(path string, opts ...ProviderOption) (*Provider, error) {
	p := &Provider{
		swapper: routetree.NewSwapper[Target](),
		logger:  observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	watcher, err := NewWatcher(path, p.publish, WithLogger(p.logger))
	if err != nil {
		return nil, err
	}
	p.watcher = watcher

	return p, nil
}

// Start loads the spec file, publishes the initial tree, and begins
// watching for changes.
func (p *Provider) Start(ctx context.Context) error {
	if err := p.watcher.Start(ctx); err != nil {
		return err
	}

	file := p.watcher.GetLastFile()
	tree, err := Build(file)
	if err != nil {
		_ = p.watcher.Stop()
		return err
	}

	p.store(tree)
	return nil
}

// Stop stops watching the spec file. The last published tree keeps
// serving lookups.
func (p *Provider) Stop() error {
	return p.watcher.Stop()
}

// Tree returns the currently published snapshot.
func (p *Provider) Tree() *routetree.Tree[Target] {
	return p.swapper.Load()
}

// Lookup resolves a request path against the current snapshot.
func (p *Provider) Lookup(path string) (routetree.Match[Target], bool) {
	return p.swapper.Lookup(path)
}

// publish rebuilds the tree from a reloaded document and swaps it in.
func (p *Provider) publish(file *File) {
	tree, err := Build(file)
	if err != nil {
		p.logger.Error("spec document failed to build, keeping previous tree",
			observability.Error(err),
		)
		specMetrics().reloadFailures.Inc()
		return
	}
	p.store(tree)
}

// store publishes a tree and records its size.
func (p *Provider) store(tree *routetree.Tree[Target]) {
	p.swapper.Store(tree)
	specMetrics().publishedPatterns.Set(float64(tree.Len()))
	p.logger.Info("published route tree",
		observability.Int("patterns", tree.Len()),
	)
}
