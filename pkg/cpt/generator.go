package cpt

import "fmt"

// Option configures a builder at construction time.
type Option func(*settings)

type settings struct {
	options Options
	labels  Labels
}

// WithOptions seeds the builder with initial options. Explicit values win
// over the builder's defaults.
func WithOptions(o Options) Option {
	return func(s *settings) { s.options = s.options.Merge(o) }
}

// WithLabels seeds the builder with initial labels.
func WithLabels(l Labels) Option {
	return func(s *settings) { s.labels = s.labels.Merge(l) }
}

// generator carries the state shared by both builders: the immutable name,
// the accumulating options map, the lazily built column registry, and the
// once-only finalization guard.
type generator[F any] struct {
	name      string
	opts      Options
	cols      *Columns[F]
	extending bool
	saved     bool
}

// newGenerator merges caller options over subclass defaults and folds the
// initial labels into the options map.
func newGenerator[F any](name string, defaults Options, extending bool, opts ...Option) generator[F] {
	s := settings{options: Options{}, labels: Labels{}}
	for _, opt := range opts {
		opt(&s)
	}
	merged := defaults.Merge(s.options)
	if len(s.labels) > 0 {
		merged["labels"] = labelsOf(merged).Merge(s.labels)
	}
	return generator[F]{name: name, opts: merged, extending: extending}
}

// Name returns the registration key. It never changes after construction.
func (g *generator[F]) Name() string { return g.name }

// Extending reports whether the builder was constructed in extend mode.
func (g *generator[F]) Extending() bool { return g.extending }

// Options returns a copy of the accumulated options.
func (g *generator[F]) Options() Options { return g.opts.Clone() }

// Labels returns the accumulated labels slot.
func (g *generator[F]) Labels() Labels { return labelsOf(g.opts) }

func (g *generator[F]) setOptions(opts Options) {
	g.opts = g.opts.Merge(opts)
}

func (g *generator[F]) setLabels(labels Labels) {
	g.opts["labels"] = labelsOf(g.opts).Merge(labels)
}

func (g *generator[F]) set(key string, value interface{}) {
	g.opts[key] = value
}

// Columns returns the column registry, creating it on first access. The
// registry persists for the builder's lifetime.
func (g *generator[F]) Columns() *Columns[F] {
	if g.cols == nil {
		g.cols = newColumns[F]()
	}
	return g.cols
}

// hasColumns reports whether the registry was ever touched.
func (g *generator[F]) hasColumns() bool { return g.cols != nil }

// markSaved flips the finalization guard. Registration must call it before
// touching the platform so a second Register fails without side effects.
func (g *generator[F]) markSaved() error {
	if g.saved {
		return fmt.Errorf("%w: %q", ErrAlreadyFinalized, g.name)
	}
	g.saved = true
	return nil
}
