package cpt

import "fmt"

// Taxonomy builds the configuration for a classification scheme and
// registers it (create mode) or amends an already registered one (extend
// mode).
type Taxonomy struct {
	generator[TermCellFunc]

	objectTypes       []string
	removeObjectTypes []string

	queryPredicate func(*Query) bool
}

// NewTaxonomy returns a create-mode builder. Registration fails with
// ErrAlreadyExists when the host already knows the name.
func NewTaxonomy(name string, opts ...Option) *Taxonomy {
	defaults := Options{
		"public": true,
		"label":  humanize(name),
	}
	return &Taxonomy{
		generator:      newGenerator[TermCellFunc](name, defaults, false, opts...),
		queryPredicate: defaultTermQueryPredicate,
	}
}

// ExtendTaxonomy returns an extend-mode builder. Registration fails with
// ErrNotFound when the host does not know the name.
func ExtendTaxonomy(name string, opts ...Option) *Taxonomy {
	return &Taxonomy{
		generator:      newGenerator[TermCellFunc](name, Options{}, true, opts...),
		queryPredicate: defaultTermQueryPredicate,
	}
}

func defaultTermQueryPredicate(q *Query) bool {
	return q.TermArchive && !q.SuppressFilters
}

// SetOptions merges opts over the accumulated options; call-time values
// win per key.
func (tx *Taxonomy) SetOptions(opts Options) *Taxonomy {
	tx.setOptions(opts)
	return tx
}

// SetLabels merges labels into the labels slot with the same precedence.
func (tx *Taxonomy) SetLabels(labels Labels) *Taxonomy {
	tx.setLabels(labels)
	return tx
}

// Public controls whether the taxonomy is publicly queryable and visible.
func (tx *Taxonomy) Public(v bool) *Taxonomy { tx.set("public", v); return tx }

// Hierarchical makes terms nestable like categories (vs. flat tags).
func (tx *Taxonomy) Hierarchical(v bool) *Taxonomy { tx.set("hierarchical", v); return tx }

// ShowInRest exposes the taxonomy through the host's REST surface.
func (tx *Taxonomy) ShowInRest(v bool) *Taxonomy { tx.set("show_in_rest", v); return tx }

// ShowTagcloud toggles the legacy tag-cloud widget support.
func (tx *Taxonomy) ShowTagcloud(v bool) *Taxonomy { tx.set("show_tagcloud", v); return tx }

// ShowAdminColumn adds the taxonomy column on associated type listings.
func (tx *Taxonomy) ShowAdminColumn(v bool) *Taxonomy { tx.set("show_admin_column", v); return tx }

// DefaultTerm sets the term assigned when none is chosen; string name or a
// term descriptor map.
func (tx *Taxonomy) DefaultTerm(v interface{}) *Taxonomy { tx.set("default_term", v); return tx }

// UpdateCountCallback names the host callback recomputing term counts.
func (tx *Taxonomy) UpdateCountCallback(v string) *Taxonomy {
	tx.set("update_count_callback", v)
	return tx
}

// Rewrite configures pretty-permalink handling; bool or a rewrite map.
func (tx *Taxonomy) Rewrite(v interface{}) *Taxonomy { tx.set("rewrite", v); return tx }

// Description sets the human-readable summary of the taxonomy.
func (tx *Taxonomy) Description(v string) *Taxonomy { tx.set("description", v); return tx }

// ForTypes lists the content types the taxonomy attaches to. Create mode
// passes them to registration; extend mode associates them one by one.
func (tx *Taxonomy) ForTypes(names ...string) *Taxonomy {
	tx.objectTypes = append(tx.objectTypes, names...)
	return tx
}

// RemoveFromTypes drops associations from an existing taxonomy (extend
// mode only).
func (tx *Taxonomy) RemoveFromTypes(names ...string) *Taxonomy {
	tx.removeObjectTypes = append(tx.removeObjectTypes, names...)
	return tx
}

// QueryPredicate replaces the condition deciding which queries the
// associated types are appended to. The default matches term-archive views
// that are not suppressing filters.
func (tx *Taxonomy) QueryPredicate(fn func(*Query) bool) *Taxonomy {
	if fn != nil {
		tx.queryPredicate = fn
	}
	return tx
}

// Register finalizes the builder against the platform. It may be called
// once; a second call returns ErrAlreadyFinalized. The call either fully
// succeeds or fails before mutating platform state.
func (tx *Taxonomy) Register(p Platform) error {
	if err := tx.markSaved(); err != nil {
		return err
	}
	if tx.extending {
		return tx.registerExtend(p)
	}
	return tx.registerCreate(p)
}

func (tx *Taxonomy) registerCreate(p Platform) error {
	if p.TaxonomyExists(tx.name) {
		return fmt.Errorf("%w: taxonomy %q", ErrAlreadyExists, tx.name)
	}

	if err := p.RegisterTaxonomy(tx.name, tx.objectTypes, tx.opts.Clone()); err != nil {
		return fmt.Errorf("register taxonomy %q: %w", tx.name, err)
	}

	tx.installColumns(p)
	return nil
}

func (tx *Taxonomy) registerExtend(p Platform) error {
	if !p.TaxonomyExists(tx.name) {
		return fmt.Errorf("%w: taxonomy %q", ErrNotFound, tx.name)
	}

	if overrides := tx.Labels(); len(overrides) > 0 {
		existing, _ := p.TaxonomyLabels(tx.name)
		if err := p.SetTaxonomyLabels(tx.name, existing.Merge(overrides)); err != nil {
			return fmt.Errorf("extend taxonomy %q: %w", tx.name, err)
		}
	}

	for _, name := range tx.removeObjectTypes {
		if err := p.UnregisterTaxonomyForType(tx.name, name); err != nil {
			return fmt.Errorf("extend taxonomy %q: %w", tx.name, err)
		}
	}
	for _, name := range tx.objectTypes {
		if err := p.RegisterTaxonomyForType(tx.name, name); err != nil {
			return fmt.Errorf("extend taxonomy %q: %w", tx.name, err)
		}
	}

	tx.installColumns(p)

	if len(tx.objectTypes) > 0 {
		tx.installQueryHook(p)
	}
	return nil
}

// installQueryHook appends the associated content types to matching term
// archive listings.
func (tx *Taxonomy) installQueryHook(p Platform) {
	types := append([]string(nil), tx.objectTypes...)
	pred := tx.queryPredicate
	p.OnQuery(func(q *Query) {
		if !pred(q) {
			return
		}
		for _, name := range types {
			q.AppendVar("post_type", name)
		}
	})
}

func (tx *Taxonomy) installColumns(p Platform) {
	if !tx.hasColumns() {
		return
	}
	cols := tx.Columns()
	screen := tx.name

	p.FilterColumns(screen, cols.Apply)

	if cols.HasPopulate() {
		p.OnRenderTermCell(screen, func(content, column string, termID int64) string {
			if fn, ok := cols.PopulateFunc(column); ok {
				return fn(content, column, termID)
			}
			return content
		})
	}

	installSortable(p, screen, cols)
}
