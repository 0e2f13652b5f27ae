package cpt

import "testing"

// fakePlatform records every call so tests can assert on what a Register
// run did (and did not) reach the host with.
type fakePlatform struct {
	postTypes  map[string]Options
	taxonomies map[string]Options

	postLabels map[string]Labels
	termLabels map[string]Labels

	supports     map[string][]string
	associations map[string][]string // taxonomy -> object types

	initFns       []func() error
	columnFilters map[string][]func([]Column) []Column
	sortFilters   map[string][]func(map[string]SortSpec) map[string]SortSpec
	postRenderers map[string][]PostCellFunc
	termRenderers map[string][]TermCellFunc
	queryHooks    []func(*Query)
	adminHooks    map[string][]func(*Query)

	registerCalls int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		postTypes:     make(map[string]Options),
		taxonomies:    make(map[string]Options),
		postLabels:    make(map[string]Labels),
		termLabels:    make(map[string]Labels),
		supports:      make(map[string][]string),
		associations:  make(map[string][]string),
		columnFilters: make(map[string][]func([]Column) []Column),
		sortFilters:   make(map[string][]func(map[string]SortSpec) map[string]SortSpec),
		postRenderers: make(map[string][]PostCellFunc),
		termRenderers: make(map[string][]TermCellFunc),
		adminHooks:    make(map[string][]func(*Query)),
	}
}

func (f *fakePlatform) OnInit(fn func() error) { f.initFns = append(f.initFns, fn) }

func (f *fakePlatform) Init() error {
	for _, fn := range f.initFns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakePlatform) PostTypeExists(name string) bool {
	_, ok := f.postTypes[name]
	return ok
}

func (f *fakePlatform) TaxonomyExists(name string) bool {
	_, ok := f.taxonomies[name]
	return ok
}

func (f *fakePlatform) RegisterPostType(name string, opts Options) error {
	f.registerCalls++
	f.postTypes[name] = opts
	f.postLabels[name] = labelsOf(opts)
	return nil
}

func (f *fakePlatform) RegisterTaxonomy(name string, objectTypes []string, opts Options) error {
	f.registerCalls++
	f.taxonomies[name] = opts
	f.termLabels[name] = labelsOf(opts)
	f.associations[name] = append(f.associations[name], objectTypes...)
	return nil
}

func (f *fakePlatform) PostTypeLabels(name string) (Labels, bool) {
	l, ok := f.postLabels[name]
	return l, ok
}

func (f *fakePlatform) SetPostTypeLabels(name string, labels Labels) error {
	f.postLabels[name] = labels
	return nil
}

func (f *fakePlatform) TaxonomyLabels(name string) (Labels, bool) {
	l, ok := f.termLabels[name]
	return l, ok
}

func (f *fakePlatform) SetTaxonomyLabels(name string, labels Labels) error {
	f.termLabels[name] = labels
	return nil
}

func (f *fakePlatform) AddPostTypeSupport(name string, features ...string) error {
	f.supports[name] = append(f.supports[name], features...)
	return nil
}

func (f *fakePlatform) RemovePostTypeSupport(name string, features ...string) error {
	kept := f.supports[name][:0]
	for _, have := range f.supports[name] {
		drop := false
		for _, feat := range features {
			if have == feat {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, have)
		}
	}
	f.supports[name] = kept
	return nil
}

func (f *fakePlatform) RegisterTaxonomyForType(taxonomy, postType string) error {
	f.associations[taxonomy] = append(f.associations[taxonomy], postType)
	return nil
}

func (f *fakePlatform) UnregisterTaxonomyForType(taxonomy, postType string) error {
	kept := f.associations[taxonomy][:0]
	for _, have := range f.associations[taxonomy] {
		if have != postType {
			kept = append(kept, have)
		}
	}
	f.associations[taxonomy] = kept
	return nil
}

func (f *fakePlatform) FilterColumns(screen string, fn func([]Column) []Column) {
	f.columnFilters[screen] = append(f.columnFilters[screen], fn)
}

func (f *fakePlatform) FilterSortable(screen string, fn func(map[string]SortSpec) map[string]SortSpec) {
	f.sortFilters[screen] = append(f.sortFilters[screen], fn)
}

func (f *fakePlatform) OnRenderPostCell(screen string, fn PostCellFunc) {
	f.postRenderers[screen] = append(f.postRenderers[screen], fn)
}

func (f *fakePlatform) OnRenderTermCell(screen string, fn TermCellFunc) {
	f.termRenderers[screen] = append(f.termRenderers[screen], fn)
}

func (f *fakePlatform) OnQuery(fn func(*Query)) { f.queryHooks = append(f.queryHooks, fn) }

func (f *fakePlatform) OnAdminQuery(screen string, fn func(*Query)) {
	f.adminHooks[screen] = append(f.adminHooks[screen], fn)
}

func (f *fakePlatform) runQuery(q *Query) {
	for _, fn := range f.queryHooks {
		fn(q)
	}
}

func (f *fakePlatform) runAdminQuery(screen string, q *Query) {
	for _, fn := range f.adminHooks[screen] {
		fn(q)
	}
}

func (f *fakePlatform) adminColumns(screen string, base []Column) []Column {
	for _, fn := range f.columnFilters[screen] {
		base = fn(base)
	}
	return base
}

func TestScheduleDefersRegistration(t *testing.T) {
	p := newFakePlatform()
	Schedule(p, NewPostType("book"), NewTaxonomy("genre"))

	if p.PostTypeExists("book") || p.TaxonomyExists("genre") {
		t.Fatal("registration ran before init phase")
	}
	if err := p.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !p.PostTypeExists("book") {
		t.Error("expected book registered after init")
	}
	if !p.TaxonomyExists("genre") {
		t.Error("expected genre registered after init")
	}
}

func TestQueryAppendVarPromotesToList(t *testing.T) {
	q := NewQuery()
	q.SetVar("post_type", "post")
	q.AppendVar("post_type", "book")
	q.AppendVar("post_type", "book")

	v, _ := q.Var("post_type")
	list, ok := v.([]string)
	if !ok || len(list) != 2 || list[0] != "post" || list[1] != "book" {
		t.Fatalf("unexpected post_type var: %#v", v)
	}
}
