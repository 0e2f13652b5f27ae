package cpt

import "sort"

// ColumnDef describes a column passed to Add. Label defaults to a
// humanized form of the ID; Position, when set, is the 0-based index the
// column should occupy in the final ordering.
type ColumnDef struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Position *int   `yaml:"position"`
}

type reposition struct {
	id  string
	pos int
}

// Columns collects the set/add/hide/reorder/sort/populate instructions for
// one admin list-table. F is the populate callback type, which differs
// between content-type and taxonomy listings.
//
// Nothing is computed until Apply is called with the host's default
// columns, so instruction order only matters among repositions.
type Columns[F any] struct {
	replaceAll []Column
	replaced   bool

	add      []Column
	hide     []string
	populate map[string]F

	// repositions are applied in recorded order, each step seeing the
	// result of the previous one. Later entries for the same id win.
	repositions []reposition

	sortable map[string]SortSpec
}

func newColumns[F any]() *Columns[F] {
	return &Columns[F]{
		populate: make(map[string]F),
		sortable: make(map[string]SortSpec),
	}
}

// Set replaces the entire column set. When used, Apply ignores the host's
// defaults and any Add/Hide/Order instructions.
func (c *Columns[F]) Set(columns []Column) *Columns[F] {
	c.replaceAll = append([]Column(nil), columns...)
	c.replaced = true
	return c
}

// Add registers extra columns. Existing ids are relabeled in place;
// unknown ids are appended at the end of the host's defaults.
func (c *Columns[F]) Add(defs ...ColumnDef) *Columns[F] {
	for _, def := range defs {
		label := def.Label
		if label == "" {
			label = humanize(def.ID)
		}
		c.add = append(c.add, Column{ID: def.ID, Label: label})
		if def.Position != nil {
			c.recordPosition(def.ID, *def.Position)
		}
	}
	return c
}

// AddPopulated registers a column together with its cell callback.
func (c *Columns[F]) AddPopulated(def ColumnDef, fn F) *Columns[F] {
	c.Add(def)
	return c.Populate(def.ID, fn)
}

// Hide removes columns from the listing. Hiding an unknown id is a no-op.
func (c *Columns[F]) Hide(ids ...string) *Columns[F] {
	c.hide = append(c.hide, ids...)
	return c
}

// Populate registers the cell callback for a column.
func (c *Columns[F]) Populate(id string, fn F) *Columns[F] {
	c.populate[id] = fn
	return c
}

// Order records position overrides. Entries are applied in ascending key
// order so results are deterministic; a later call for an id already
// recorded replaces the earlier entry.
func (c *Columns[F]) Order(positions map[string]int) *Columns[F] {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c.recordPosition(id, positions[id])
	}
	return c
}

func (c *Columns[F]) recordPosition(id string, pos int) {
	for i := range c.repositions {
		if c.repositions[i].id == id {
			c.repositions = append(c.repositions[:i], c.repositions[i+1:]...)
			break
		}
	}
	c.repositions = append(c.repositions, reposition{id: id, pos: pos})
}

// Sortable merges sortable-column definitions: column id to the meta key
// (and ordering kind) the host should sort by.
func (c *Columns[F]) Sortable(specs map[string]SortSpec) *Columns[F] {
	for id, spec := range specs {
		c.sortable[id] = spec
	}
	return c
}

// SortableMeta is shorthand for a textual sortable column.
func (c *Columns[F]) SortableMeta(id, metaKey string) *Columns[F] {
	c.sortable[id] = SortSpec{MetaKey: metaKey}
	return c
}

// SortableNumeric is shorthand for a numerically ordered sortable column.
func (c *Columns[F]) SortableNumeric(id, metaKey string) *Columns[F] {
	c.sortable[id] = SortSpec{MetaKey: metaKey, Numeric: true}
	return c
}

// IsSortable reports whether key names a sortable column, either by column
// id or by the meta key of any registered spec.
func (c *Columns[F]) IsSortable(key string) bool {
	_, ok := c.SortMeta(key)
	return ok
}

// SortMeta resolves a request key to its sort spec. Column ids match
// first, then meta keys.
func (c *Columns[F]) SortMeta(key string) (SortSpec, bool) {
	if spec, ok := c.sortable[key]; ok {
		return spec, true
	}
	for _, spec := range c.sortable {
		if spec.MetaKey == key {
			return spec, true
		}
	}
	return SortSpec{}, false
}

// SortableSpecs returns a copy of the registered sortable definitions.
func (c *Columns[F]) SortableSpecs() map[string]SortSpec {
	out := make(map[string]SortSpec, len(c.sortable))
	for id, spec := range c.sortable {
		out[id] = spec
	}
	return out
}

// PopulateFunc returns the cell callback registered for a column.
func (c *Columns[F]) PopulateFunc(id string) (F, bool) {
	fn, ok := c.populate[id]
	return fn, ok
}

// HasPopulate reports whether any cell callbacks are registered.
func (c *Columns[F]) HasPopulate() bool { return len(c.populate) > 0 }

// Apply computes the final ordered columns from the host's defaults.
// Calling it twice with the same base yields the same result.
func (c *Columns[F]) Apply(base []Column) []Column {
	if c.replaced {
		return append([]Column(nil), c.replaceAll...)
	}

	out := append([]Column(nil), base...)

	for _, add := range c.add {
		if i := indexOf(out, add.ID); i >= 0 {
			out[i].Label = add.Label
		} else {
			out = append(out, add)
		}
	}

	for _, id := range c.hide {
		if i := indexOf(out, id); i >= 0 {
			out = append(out[:i], out[i+1:]...)
		}
	}

	for _, r := range c.repositions {
		i := indexOf(out, r.id)
		if i < 0 {
			continue // hidden or never added
		}
		col := out[i]
		out = append(out[:i], out[i+1:]...)
		pos := r.pos
		if pos > len(out) {
			pos = len(out)
		}
		if pos < 0 {
			pos = 0
		}
		out = append(out[:pos], append([]Column{col}, out[pos:]...)...)
	}

	return out
}

func indexOf(columns []Column, id string) int {
	for i := range columns {
		if columns[i].ID == id {
			return i
		}
	}
	return -1
}
