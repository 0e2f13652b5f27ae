package cpt

import (
	"fmt"
	"io"
)

// PostType builds the configuration for a content type and registers it
// (create mode) or amends an already registered one (extend mode).
type PostType struct {
	generator[PostCellFunc]

	supports         []string
	removeSupports   []string
	taxonomies       []string
	removeTaxonomies []string

	queryPredicate func(*Query) bool
}

// NewPostType returns a create-mode builder. Registration fails with
// ErrAlreadyExists when the host already knows the name.
func NewPostType(name string, opts ...Option) *PostType {
	defaults := Options{
		"public": true,
		"label":  humanize(name),
	}
	return &PostType{
		generator:      newGenerator[PostCellFunc](name, defaults, false, opts...),
		queryPredicate: defaultPostQueryPredicate,
	}
}

// ExtendPostType returns an extend-mode builder. Registration fails with
// ErrNotFound when the host does not know the name.
func ExtendPostType(name string, opts ...Option) *PostType {
	return &PostType{
		generator:      newGenerator[PostCellFunc](name, Options{}, true, opts...),
		queryPredicate: defaultPostQueryPredicate,
	}
}

func defaultPostQueryPredicate(q *Query) bool {
	return (q.Search || q.Archive) && !q.SuppressFilters
}

// SetOptions merges opts over the accumulated options; call-time values
// win per key.
func (pt *PostType) SetOptions(opts Options) *PostType {
	pt.setOptions(opts)
	return pt
}

// SetLabels merges labels into the labels slot with the same precedence.
func (pt *PostType) SetLabels(labels Labels) *PostType {
	pt.setLabels(labels)
	return pt
}

// Public controls whether the type is publicly queryable and visible.
func (pt *PostType) Public(v bool) *PostType { pt.set("public", v); return pt }

// Hierarchical makes entries nestable like pages.
func (pt *PostType) Hierarchical(v bool) *PostType { pt.set("hierarchical", v); return pt }

// ShowInRest exposes the type through the host's REST surface.
func (pt *PostType) ShowInRest(v bool) *PostType { pt.set("show_in_rest", v); return pt }

// HasArchive enables the archive listing; the host accepts a bool or a
// custom archive slug.
func (pt *PostType) HasArchive(v interface{}) *PostType { pt.set("has_archive", v); return pt }

// Rewrite configures pretty-permalink handling; bool or a rewrite map.
func (pt *PostType) Rewrite(v interface{}) *PostType { pt.set("rewrite", v); return pt }

// CapabilityType sets the capability base used to build permissions.
func (pt *PostType) CapabilityType(v string) *PostType { pt.set("capability_type", v); return pt }

// MenuIcon sets the admin menu icon reference.
func (pt *PostType) MenuIcon(v string) *PostType { pt.set("menu_icon", v); return pt }

// MenuPosition sets the admin menu ordering slot.
func (pt *PostType) MenuPosition(v int) *PostType { pt.set("menu_position", v); return pt }

// ExcludeFromSearch hides entries from search results.
func (pt *PostType) ExcludeFromSearch(v bool) *PostType { pt.set("exclude_from_search", v); return pt }

// ShowUI toggles the admin editing screens.
func (pt *PostType) ShowUI(v bool) *PostType { pt.set("show_ui", v); return pt }

// ShowInMenu controls admin menu placement; bool or a parent menu slug.
func (pt *PostType) ShowInMenu(v interface{}) *PostType { pt.set("show_in_menu", v); return pt }

// Description sets the human-readable summary of the type.
func (pt *PostType) Description(v string) *PostType { pt.set("description", v); return pt }

// Supports declares editor features. In create mode they become the
// "supports" option; in extend mode they are added to the existing type.
func (pt *PostType) Supports(features ...string) *PostType {
	pt.supports = append(pt.supports, features...)
	return pt
}

// RemoveSupports strips editor features from an existing type (extend
// mode only).
func (pt *PostType) RemoveSupports(features ...string) *PostType {
	pt.removeSupports = append(pt.removeSupports, features...)
	return pt
}

// Taxonomies associates taxonomies with the type. In create mode the list
// becomes the "taxonomies" option and enables the search/archive query
// hook; in extend mode associations are added to the existing type.
func (pt *PostType) Taxonomies(names ...string) *PostType {
	pt.taxonomies = append(pt.taxonomies, names...)
	return pt
}

// RemoveTaxonomies drops taxonomy associations from an existing type
// (extend mode only).
func (pt *PostType) RemoveTaxonomies(names ...string) *PostType {
	pt.removeTaxonomies = append(pt.removeTaxonomies, names...)
	return pt
}

// QueryPredicate replaces the condition deciding which queries the type is
// appended to. The default matches search and archive views that are not
// suppressing filters.
func (pt *PostType) QueryPredicate(fn func(*Query) bool) *PostType {
	if fn != nil {
		pt.queryPredicate = fn
	}
	return pt
}

// Register finalizes the builder against the platform. It may be called
// once; a second call returns ErrAlreadyFinalized. The call either fully
// succeeds or fails before mutating platform state.
func (pt *PostType) Register(p Platform) error {
	if err := pt.markSaved(); err != nil {
		return err
	}
	if pt.extending {
		return pt.registerExtend(p)
	}
	return pt.registerCreate(p)
}

func (pt *PostType) registerCreate(p Platform) error {
	if p.PostTypeExists(pt.name) {
		return fmt.Errorf("%w: post type %q", ErrAlreadyExists, pt.name)
	}

	opts := pt.opts.Clone()
	if len(pt.supports) > 0 {
		opts["supports"] = pt.supports
	}
	if len(pt.taxonomies) > 0 {
		opts["taxonomies"] = pt.taxonomies
	}

	if err := p.RegisterPostType(pt.name, opts); err != nil {
		return fmt.Errorf("register post type %q: %w", pt.name, err)
	}

	pt.installColumns(p)

	if len(pt.taxonomies) > 0 {
		pt.installQueryHook(p)
	}
	return nil
}

func (pt *PostType) registerExtend(p Platform) error {
	if !p.PostTypeExists(pt.name) {
		return fmt.Errorf("%w: post type %q", ErrNotFound, pt.name)
	}

	if overrides := pt.Labels(); len(overrides) > 0 {
		existing, _ := p.PostTypeLabels(pt.name)
		if err := p.SetPostTypeLabels(pt.name, existing.Merge(overrides)); err != nil {
			return fmt.Errorf("extend post type %q: %w", pt.name, err)
		}
	}

	if len(pt.removeSupports) > 0 {
		if err := p.RemovePostTypeSupport(pt.name, pt.removeSupports...); err != nil {
			return fmt.Errorf("extend post type %q: %w", pt.name, err)
		}
	}
	if len(pt.supports) > 0 {
		if err := p.AddPostTypeSupport(pt.name, pt.supports...); err != nil {
			return fmt.Errorf("extend post type %q: %w", pt.name, err)
		}
	}

	for _, tax := range pt.removeTaxonomies {
		if err := p.UnregisterTaxonomyForType(tax, pt.name); err != nil {
			return fmt.Errorf("extend post type %q: %w", pt.name, err)
		}
	}
	for _, tax := range pt.taxonomies {
		if err := p.RegisterTaxonomyForType(tax, pt.name); err != nil {
			return fmt.Errorf("extend post type %q: %w", pt.name, err)
		}
	}

	pt.installColumns(p)
	return nil
}

// installQueryHook appends this type to matching front-end listings so
// entries show up alongside the built-in types.
func (pt *PostType) installQueryHook(p Platform) {
	name := pt.name
	pred := pt.queryPredicate
	p.OnQuery(func(q *Query) {
		if pred(q) {
			q.AppendVar("post_type", name)
		}
	})
}

func (pt *PostType) installColumns(p Platform) {
	if !pt.hasColumns() {
		return
	}
	cols := pt.Columns()
	screen := pt.name

	p.FilterColumns(screen, cols.Apply)

	if cols.HasPopulate() {
		p.OnRenderPostCell(screen, func(w io.Writer, column string, postID int64) {
			if fn, ok := cols.PopulateFunc(column); ok {
				fn(w, column, postID)
			}
		})
	}

	installSortable(p, screen, cols)
}

// installSortable wires the sortable-column filter and the admin query
// rewrite translating an orderby request key to a meta ordering.
func installSortable[F any](p Platform, screen string, cols *Columns[F]) {
	specs := cols.SortableSpecs()
	if len(specs) == 0 {
		return
	}

	p.FilterSortable(screen, func(m map[string]SortSpec) map[string]SortSpec {
		for id, spec := range cols.SortableSpecs() {
			m[id] = spec
		}
		return m
	})

	p.OnAdminQuery(screen, func(q *Query) {
		spec, ok := cols.SortMeta(q.StringVar("orderby"))
		if !ok {
			return
		}
		q.SetVar("meta_key", spec.MetaKey)
		if spec.Numeric {
			q.SetVar("orderby", "meta_value_num")
		} else {
			q.SetVar("orderby", "meta_value")
		}
	})
}
