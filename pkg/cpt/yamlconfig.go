package cpt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Definitions is the declarative counterpart of the fluent builders: a
// YAML document describing post types and taxonomies to register or
// extend. Populate callbacks cannot be expressed in YAML; attach them to
// the builders returned by Builders before registering.
type Definitions struct {
	PostTypes  []PostTypeDef `yaml:"post_types"`
	Taxonomies []TaxonomyDef `yaml:"taxonomies"`
}

// PostTypeDef declares one post type.
type PostTypeDef struct {
	Name             string                 `yaml:"name"`
	Extend           bool                   `yaml:"extend"`
	Options          map[string]interface{} `yaml:"options"`
	Labels           map[string]string      `yaml:"labels"`
	Supports         []string               `yaml:"supports"`
	RemoveSupports   []string               `yaml:"remove_supports"`
	Taxonomies       []string               `yaml:"taxonomies"`
	RemoveTaxonomies []string               `yaml:"remove_taxonomies"`
	Columns          *ColumnsDef            `yaml:"columns"`
}

// TaxonomyDef declares one taxonomy.
type TaxonomyDef struct {
	Name        string                 `yaml:"name"`
	Extend      bool                   `yaml:"extend"`
	Options     map[string]interface{} `yaml:"options"`
	Labels      map[string]string      `yaml:"labels"`
	Types       []string               `yaml:"types"`
	RemoveTypes []string               `yaml:"remove_types"`
	Columns     *ColumnsDef            `yaml:"columns"`
}

// ColumnsDef declares the column registry instructions.
type ColumnsDef struct {
	Set      []Column            `yaml:"set"`
	Add      []ColumnDef         `yaml:"add"`
	Hide     []string            `yaml:"hide"`
	Order    map[string]int      `yaml:"order"`
	Sortable map[string]SortSpec `yaml:"sortable"`
}

// ParseDefinitions decodes a YAML definitions document.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("decode definitions yaml: %w", err)
	}
	for i, pt := range defs.PostTypes {
		if pt.Name == "" {
			return nil, fmt.Errorf("post_types[%d]: name is required", i)
		}
	}
	for i, tx := range defs.Taxonomies {
		if tx.Name == "" {
			return nil, fmt.Errorf("taxonomies[%d]: name is required", i)
		}
	}
	return &defs, nil
}

// LoadDefinitions reads and decodes a YAML definitions file.
func LoadDefinitions(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions file: %w", err)
	}
	return ParseDefinitions(data)
}

// Builders converts the declarations to builders, taxonomies first so a
// post type can reference a taxonomy declared in the same document.
func (d *Definitions) Builders() []Registrant {
	regs := make([]Registrant, 0, len(d.PostTypes)+len(d.Taxonomies))
	for _, def := range d.Taxonomies {
		regs = append(regs, def.builder())
	}
	for _, def := range d.PostTypes {
		regs = append(regs, def.builder())
	}
	return regs
}

// Apply registers every declaration immediately, stopping at the first
// failure.
func (d *Definitions) Apply(p Platform) error {
	for _, r := range d.Builders() {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Schedule defers every declaration to the platform's init phase.
func (d *Definitions) Schedule(p Platform) {
	Schedule(p, d.Builders()...)
}

func (def PostTypeDef) builder() *PostType {
	var pt *PostType
	if def.Extend {
		pt = ExtendPostType(def.Name)
	} else {
		pt = NewPostType(def.Name)
	}
	if len(def.Options) > 0 {
		pt.SetOptions(Options(def.Options))
	}
	if len(def.Labels) > 0 {
		pt.SetLabels(Labels(def.Labels))
	}
	pt.Supports(def.Supports...)
	pt.RemoveSupports(def.RemoveSupports...)
	pt.Taxonomies(def.Taxonomies...)
	pt.RemoveTaxonomies(def.RemoveTaxonomies...)
	if def.Columns != nil {
		def.Columns.apply(pt.Columns())
	}
	return pt
}

func (def TaxonomyDef) builder() *Taxonomy {
	var tx *Taxonomy
	if def.Extend {
		tx = ExtendTaxonomy(def.Name)
	} else {
		tx = NewTaxonomy(def.Name)
	}
	if len(def.Options) > 0 {
		tx.SetOptions(Options(def.Options))
	}
	if len(def.Labels) > 0 {
		tx.SetLabels(Labels(def.Labels))
	}
	tx.ForTypes(def.Types...)
	tx.RemoveFromTypes(def.RemoveTypes...)
	if def.Columns != nil {
		def.Columns.apply(tx.Columns())
	}
	return tx
}

func (def *ColumnsDef) apply(cols setLike) {
	if len(def.Set) > 0 {
		cols.setColumns(def.Set)
	}
	cols.addDefs(def.Add)
	cols.hideIDs(def.Hide)
	cols.orderMap(def.Order)
	cols.sortableSpecs(def.Sortable)
}

// setLike is the type-erased slice of Columns[F] used by the YAML loader,
// since the two registries differ only in callback type.
type setLike interface {
	setColumns([]Column)
	addDefs([]ColumnDef)
	hideIDs([]string)
	orderMap(map[string]int)
	sortableSpecs(map[string]SortSpec)
}

func (c *Columns[F]) setColumns(cols []Column) { c.Set(cols) }

func (c *Columns[F]) addDefs(defs []ColumnDef) { c.Add(defs...) }

func (c *Columns[F]) hideIDs(ids []string) { c.Hide(ids...) }

func (c *Columns[F]) orderMap(m map[string]int) {
	if len(m) > 0 {
		c.Order(m)
	}
}

func (c *Columns[F]) sortableSpecs(m map[string]SortSpec) {
	if len(m) > 0 {
		c.Sortable(m)
	}
}
