package cpt

import "io"

// Column is one admin list-table column: a stable identifier plus the
// heading shown to the user. Order is significant wherever []Column appears.
type Column struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// SortSpec describes how a sortable column maps onto stored entry metadata.
type SortSpec struct {
	MetaKey string `yaml:"meta_key"`
	Numeric bool   `yaml:"numeric"`
}

// PostCellFunc renders a list-table cell for a content entry. Output is
// written directly to w.
type PostCellFunc func(w io.Writer, column string, postID int64)

// TermCellFunc produces a list-table cell for a taxonomy term by
// transforming the content the host already rendered.
type TermCellFunc func(content, column string, termID int64) string

// Platform abstracts the host content-management system. Builders consume
// it instead of calling host globals, which keeps the package testable
// against a fake host.
type Platform interface {
	// OnInit schedules fn to run during the host's initialization phase,
	// in registration order.
	OnInit(fn func() error)

	PostTypeExists(name string) bool
	TaxonomyExists(name string) bool
	RegisterPostType(name string, opts Options) error
	RegisterTaxonomy(name string, objectTypes []string, opts Options) error

	PostTypeLabels(name string) (Labels, bool)
	SetPostTypeLabels(name string, labels Labels) error
	TaxonomyLabels(name string) (Labels, bool)
	SetTaxonomyLabels(name string, labels Labels) error

	AddPostTypeSupport(name string, features ...string) error
	RemovePostTypeSupport(name string, features ...string) error
	RegisterTaxonomyForType(taxonomy, postType string) error
	UnregisterTaxonomyForType(taxonomy, postType string) error

	// Admin list-table hook points. screen is the post type or taxonomy
	// name whose listing is being customized.
	FilterColumns(screen string, fn func([]Column) []Column)
	FilterSortable(screen string, fn func(map[string]SortSpec) map[string]SortSpec)
	OnRenderPostCell(screen string, fn PostCellFunc)
	OnRenderTermCell(screen string, fn TermCellFunc)

	// OnQuery hooks into every front-end query; OnAdminQuery only into the
	// admin listing query for the given screen.
	OnQuery(fn func(*Query))
	OnAdminQuery(screen string, fn func(*Query))
}

// Query is the host's query object as exposed to query hooks: a bag of
// named vars plus the view flags hooks commonly branch on.
type Query struct {
	Search          bool
	Archive         bool
	TermArchive     bool
	SuppressFilters bool

	vars map[string]interface{}
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{vars: make(map[string]interface{})}
}

// Var returns the named query var.
func (q *Query) Var(name string) (interface{}, bool) {
	v, ok := q.vars[name]
	return v, ok
}

// StringVar returns the named query var as a string, or "" when unset or
// not a string.
func (q *Query) StringVar(name string) string {
	s, _ := q.vars[name].(string)
	return s
}

// SetVar sets the named query var.
func (q *Query) SetVar(name string, value interface{}) {
	q.vars[name] = value
}

// AppendVar appends value to the named var, promoting an existing scalar
// to a list. The host uses list-valued "post_type" vars for mixed listings.
func (q *Query) AppendVar(name string, value string) {
	switch cur := q.vars[name].(type) {
	case nil:
		q.vars[name] = value
	case string:
		if cur != value {
			q.vars[name] = []string{cur, value}
		}
	case []string:
		for _, v := range cur {
			if v == value {
				return
			}
		}
		q.vars[name] = append(cur, value)
	default:
		q.vars[name] = value
	}
}

// Registrant is anything that can register itself against a platform.
// Both builders implement it.
type Registrant interface {
	Register(p Platform) error
}

// Schedule defers registration of each builder to the platform's init
// phase. The embedding application decides when that phase runs.
func Schedule(p Platform, regs ...Registrant) {
	for _, r := range regs {
		r := r
		p.OnInit(func() error { return r.Register(p) })
	}
}
