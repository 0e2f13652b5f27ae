package cpt

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestTaxonomyRegisterCreate(t *testing.T) {
	p := newFakePlatform()

	tx := NewTaxonomy("genre").
		Hierarchical(true).
		ShowTagcloud(false).
		DefaultTerm("uncategorized").
		ForTypes("book")

	if err := tx.Register(p); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	opts, ok := p.taxonomies["genre"]
	if !ok {
		t.Fatal("expected genre to be registered")
	}
	if opts["hierarchical"] != true || opts["show_tagcloud"] != false {
		t.Errorf("unexpected options: %v", opts)
	}
	if opts["default_term"] != "uncategorized" {
		t.Errorf("unexpected default_term: %v", opts["default_term"])
	}
	if !reflect.DeepEqual(p.associations["genre"], []string{"book"}) {
		t.Errorf("unexpected associations: %v", p.associations["genre"])
	}
}

func TestTaxonomyRegisterAlreadyExists(t *testing.T) {
	p := newFakePlatform()
	p.taxonomies["genre"] = Options{}
	calls := p.registerCalls

	err := NewTaxonomy("genre").Register(p)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if p.registerCalls != calls {
		t.Error("registration call reached the platform despite the conflict")
	}
}

func TestTaxonomyRegisterTwice(t *testing.T) {
	p := newFakePlatform()
	tx := NewTaxonomy("genre")
	if err := tx.Register(p); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := tx.Register(p); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
}

func TestTaxonomyExtendNotFound(t *testing.T) {
	p := newFakePlatform()
	err := ExtendTaxonomy("missing").Register(p)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaxonomyExtendAssociatesAndHooksArchives(t *testing.T) {
	p := newFakePlatform()
	p.taxonomies["category"] = Options{}
	p.termLabels["category"] = Labels{"name": "Categories"}
	p.associations["category"] = []string{"post"}

	err := ExtendTaxonomy("category").
		SetLabels(Labels{"name": "Sections"}).
		ForTypes("book").
		RemoveFromTypes("post").
		Register(p)
	if err != nil {
		t.Fatalf("extend failed: %v", err)
	}

	if p.termLabels["category"]["name"] != "Sections" {
		t.Errorf("expected label override, got %q", p.termLabels["category"]["name"])
	}
	if !reflect.DeepEqual(p.associations["category"], []string{"book"}) {
		t.Errorf("unexpected associations: %v", p.associations["category"])
	}

	q := NewQuery()
	q.TermArchive = true
	q.SetVar("post_type", "post")
	p.runQuery(q)
	v, _ := q.Var("post_type")
	if !reflect.DeepEqual(v, []string{"post", "book"}) {
		t.Errorf("expected book appended on term archive, got %#v", v)
	}

	suppressed := NewQuery()
	suppressed.TermArchive = true
	suppressed.SuppressFilters = true
	suppressed.SetVar("post_type", "post")
	p.runQuery(suppressed)
	if got := suppressed.StringVar("post_type"); got != "post" {
		t.Errorf("expected untouched suppressed query, got %#v", got)
	}
}

func TestTaxonomyColumnWiringTransformsContent(t *testing.T) {
	p := newFakePlatform()

	tx := NewTaxonomy("genre")
	tx.Columns().
		Add(ColumnDef{ID: "usage"}).
		Populate("usage", func(content, column string, termID int64) string {
			return strings.ToUpper(content)
		})

	if err := tx.Register(p); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	content := "used"
	for _, fn := range p.termRenderers["genre"] {
		content = fn(content, "usage", 3)
	}
	if content != "USED" {
		t.Errorf("expected transformed content, got %q", content)
	}

	// Columns without a callback pass the host content through.
	content = "untouched"
	for _, fn := range p.termRenderers["genre"] {
		content = fn(content, "name", 3)
	}
	if content != "untouched" {
		t.Errorf("expected pass-through content, got %q", content)
	}
}
