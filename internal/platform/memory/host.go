// Package memory implements cpt.Platform in process memory. It stands in
// for the real host platform: registrations, label objects, hook points
// and the admin list-table pipeline all live here, which makes it usable
// both as the reference host for the admin HTTP surface and as a fake in
// tests.
package memory

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/valenjeb/wp-cpt/pkg/cpt"
)

type registration struct {
	options cpt.Options
	labels  cpt.Labels
}

// Host is an in-memory content-management platform.
type Host struct {
	mu sync.RWMutex

	postTypes  map[string]*registration
	taxonomies map[string]*registration

	supports     map[string][]string
	associations map[string][]string // taxonomy -> object types

	initFns []func() error

	columnFilters map[string][]func([]cpt.Column) []cpt.Column
	sortFilters   map[string][]func(map[string]cpt.SortSpec) map[string]cpt.SortSpec
	postRenderers map[string][]cpt.PostCellFunc
	termRenderers map[string][]cpt.TermCellFunc
	queryHooks    []func(*cpt.Query)
	adminHooks    map[string][]func(*cpt.Query)
}

func New() *Host {
	return &Host{
		postTypes:     make(map[string]*registration),
		taxonomies:    make(map[string]*registration),
		supports:      make(map[string][]string),
		associations:  make(map[string][]string),
		columnFilters: make(map[string][]func([]cpt.Column) []cpt.Column),
		sortFilters:   make(map[string][]func(map[string]cpt.SortSpec) map[string]cpt.SortSpec),
		postRenderers: make(map[string][]cpt.PostCellFunc),
		termRenderers: make(map[string][]cpt.TermCellFunc),
		adminHooks:    make(map[string][]func(*cpt.Query)),
	}
}

// OnInit queues fn for the initialization phase.
func (h *Host) OnInit(fn func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.initFns = append(h.initFns, fn)
}

// Init runs queued init callbacks in registration order and stops at the
// first failure, leaving later callbacks unrun (the host aborts
// initialization). Callbacks queued during Init run in the same pass.
func (h *Host) Init() error {
	for {
		h.mu.Lock()
		if len(h.initFns) == 0 {
			h.mu.Unlock()
			return nil
		}
		fn := h.initFns[0]
		h.initFns = h.initFns[1:]
		h.mu.Unlock()

		if err := fn(); err != nil {
			return err
		}
	}
}

func (h *Host) PostTypeExists(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.postTypes[name]
	return ok
}

func (h *Host) TaxonomyExists(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.taxonomies[name]
	return ok
}

func (h *Host) RegisterPostType(name string, opts cpt.Options) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.postTypes[name]; ok {
		return fmt.Errorf("post type %q already registered", name)
	}
	reg := &registration{options: opts.Clone(), labels: opts.Labels().Merge(nil)}
	h.postTypes[name] = reg
	if supports, ok := opts["supports"].([]string); ok {
		h.supports[name] = append([]string(nil), supports...)
	}
	if taxonomies, ok := opts["taxonomies"].([]string); ok {
		for _, tax := range taxonomies {
			h.associations[tax] = appendUnique(h.associations[tax], name)
		}
	}
	return nil
}

func (h *Host) RegisterTaxonomy(name string, objectTypes []string, opts cpt.Options) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.taxonomies[name]; ok {
		return fmt.Errorf("taxonomy %q already registered", name)
	}
	reg := &registration{options: opts.Clone(), labels: opts.Labels().Merge(nil)}
	h.taxonomies[name] = reg
	for _, t := range objectTypes {
		h.associations[name] = appendUnique(h.associations[name], t)
	}
	return nil
}

func (h *Host) PostTypeLabels(name string) (cpt.Labels, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	reg, ok := h.postTypes[name]
	if !ok {
		return nil, false
	}
	return reg.labels.Merge(nil), true
}

func (h *Host) SetPostTypeLabels(name string, labels cpt.Labels) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	reg, ok := h.postTypes[name]
	if !ok {
		return fmt.Errorf("post type %q not registered", name)
	}
	reg.labels = labels.Merge(nil)
	return nil
}

func (h *Host) TaxonomyLabels(name string) (cpt.Labels, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	reg, ok := h.taxonomies[name]
	if !ok {
		return nil, false
	}
	return reg.labels.Merge(nil), true
}

func (h *Host) SetTaxonomyLabels(name string, labels cpt.Labels) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	reg, ok := h.taxonomies[name]
	if !ok {
		return fmt.Errorf("taxonomy %q not registered", name)
	}
	reg.labels = labels.Merge(nil)
	return nil
}

func (h *Host) AddPostTypeSupport(name string, features ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.postTypes[name]; !ok {
		return fmt.Errorf("post type %q not registered", name)
	}
	for _, f := range features {
		h.supports[name] = appendUnique(h.supports[name], f)
	}
	return nil
}

func (h *Host) RemovePostTypeSupport(name string, features ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.postTypes[name]; !ok {
		return fmt.Errorf("post type %q not registered", name)
	}
	for _, f := range features {
		h.supports[name] = remove(h.supports[name], f)
	}
	return nil
}

func (h *Host) RegisterTaxonomyForType(taxonomy, postType string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.taxonomies[taxonomy]; !ok {
		return fmt.Errorf("taxonomy %q not registered", taxonomy)
	}
	h.associations[taxonomy] = appendUnique(h.associations[taxonomy], postType)
	return nil
}

func (h *Host) UnregisterTaxonomyForType(taxonomy, postType string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.taxonomies[taxonomy]; !ok {
		return fmt.Errorf("taxonomy %q not registered", taxonomy)
	}
	h.associations[taxonomy] = remove(h.associations[taxonomy], postType)
	return nil
}

func (h *Host) FilterColumns(screen string, fn func([]cpt.Column) []cpt.Column) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.columnFilters[screen] = append(h.columnFilters[screen], fn)
}

func (h *Host) FilterSortable(screen string, fn func(map[string]cpt.SortSpec) map[string]cpt.SortSpec) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sortFilters[screen] = append(h.sortFilters[screen], fn)
}

func (h *Host) OnRenderPostCell(screen string, fn cpt.PostCellFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.postRenderers[screen] = append(h.postRenderers[screen], fn)
}

func (h *Host) OnRenderTermCell(screen string, fn cpt.TermCellFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.termRenderers[screen] = append(h.termRenderers[screen], fn)
}

func (h *Host) OnQuery(fn func(*cpt.Query)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queryHooks = append(h.queryHooks, fn)
}

func (h *Host) OnAdminQuery(screen string, fn func(*cpt.Query)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.adminHooks[screen] = append(h.adminHooks[screen], fn)
}

// PostTypes returns the registered post type names in sorted order.
func (h *Host) PostTypes() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.postTypes))
	for name := range h.postTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Taxonomies returns the registered taxonomy names in sorted order.
func (h *Host) Taxonomies() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.taxonomies))
	for name := range h.taxonomies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PostTypeOptions returns a copy of a post type's registration options.
func (h *Host) PostTypeOptions(name string) (cpt.Options, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	reg, ok := h.postTypes[name]
	if !ok {
		return nil, false
	}
	return reg.options.Clone(), true
}

// TaxonomyOptions returns a copy of a taxonomy's registration options.
func (h *Host) TaxonomyOptions(name string) (cpt.Options, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	reg, ok := h.taxonomies[name]
	if !ok {
		return nil, false
	}
	return reg.options.Clone(), true
}

// ObjectTypes returns the content types a taxonomy is attached to.
func (h *Host) ObjectTypes(taxonomy string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.associations[taxonomy]...)
}

// Supports returns a post type's feature set.
func (h *Host) Supports(name string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.supports[name]...)
}

// DefaultColumns is the host's built-in column set for a listing screen.
func (h *Host) DefaultColumns(screen string) []cpt.Column {
	return []cpt.Column{
		{ID: "title", Label: "Title"},
		{ID: "author", Label: "Author"},
		{ID: "date", Label: "Date"},
	}
}

// DefaultTermColumns is the host's built-in column set for a term listing.
func (h *Host) DefaultTermColumns(screen string) []cpt.Column {
	return []cpt.Column{
		{ID: "name", Label: "Name"},
		{ID: "slug", Label: "Slug"},
		{ID: "count", Label: "Count"},
	}
}

// AdminColumns runs the column filters for a screen over the base set.
func (h *Host) AdminColumns(screen string, base []cpt.Column) []cpt.Column {
	h.mu.RLock()
	filters := h.columnFilters[screen]
	h.mu.RUnlock()
	for _, fn := range filters {
		base = fn(base)
	}
	return base
}

// SortableColumns runs the sortable filters for a screen.
func (h *Host) SortableColumns(screen string) map[string]cpt.SortSpec {
	h.mu.RLock()
	filters := h.sortFilters[screen]
	h.mu.RUnlock()
	out := map[string]cpt.SortSpec{}
	for _, fn := range filters {
		out = fn(out)
	}
	return out
}

// RenderPostCell writes the cell content for a post row column.
func (h *Host) RenderPostCell(screen string, w io.Writer, column string, postID int64) {
	h.mu.RLock()
	renderers := h.postRenderers[screen]
	h.mu.RUnlock()
	for _, fn := range renderers {
		fn(w, column, postID)
	}
}

// RenderTermCell transforms the cell content for a term row column.
func (h *Host) RenderTermCell(screen, content, column string, termID int64) string {
	h.mu.RLock()
	renderers := h.termRenderers[screen]
	h.mu.RUnlock()
	for _, fn := range renderers {
		content = fn(content, column, termID)
	}
	return content
}

// RunQuery applies the front-end query hooks to q.
func (h *Host) RunQuery(q *cpt.Query) {
	h.mu.RLock()
	hooks := append(([]func(*cpt.Query))(nil), h.queryHooks...)
	h.mu.RUnlock()
	for _, fn := range hooks {
		fn(q)
	}
}

// RunAdminQuery applies the admin listing query hooks for a screen to q.
func (h *Host) RunAdminQuery(screen string, q *cpt.Query) {
	h.mu.RLock()
	hooks := append(([]func(*cpt.Query))(nil), h.adminHooks[screen]...)
	h.mu.RUnlock()
	for _, fn := range hooks {
		fn(q)
	}
}

func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	kept := list[:0]
	for _, have := range list {
		if have != v {
			kept = append(kept, have)
		}
	}
	return kept
}
