package memory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/valenjeb/wp-cpt/pkg/cpt"
)

func TestHostInitRunsCallbacksInOrder(t *testing.T) {
	h := New()
	var order []int
	h.OnInit(func() error { order = append(order, 1); return nil })
	h.OnInit(func() error { order = append(order, 2); return nil })

	if err := h.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !reflect.DeepEqual(order, []int{1, 2}) {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestHostInitStopsAtFirstError(t *testing.T) {
	h := New()
	boom := errors.New("boom")
	ran := false
	h.OnInit(func() error { return boom })
	h.OnInit(func() error { ran = true; return nil })

	if err := h.Init(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ran {
		t.Error("later callback ran after abort")
	}
}

func TestHostRegistrationAndAssociations(t *testing.T) {
	h := New()
	if err := h.RegisterTaxonomy("genre", []string{"book"}, cpt.Options{}); err != nil {
		t.Fatalf("register taxonomy: %v", err)
	}
	if err := h.RegisterPostType("book", cpt.Options{"supports": []string{"title"}}); err != nil {
		t.Fatalf("register post type: %v", err)
	}

	if err := h.RegisterPostType("book", cpt.Options{}); err == nil {
		t.Error("expected duplicate post type registration to fail")
	}
	if err := h.RegisterTaxonomy("genre", nil, cpt.Options{}); err == nil {
		t.Error("expected duplicate taxonomy registration to fail")
	}

	if !reflect.DeepEqual(h.ObjectTypes("genre"), []string{"book"}) {
		t.Errorf("unexpected object types: %v", h.ObjectTypes("genre"))
	}
	if !reflect.DeepEqual(h.Supports("book"), []string{"title"}) {
		t.Errorf("unexpected supports: %v", h.Supports("book"))
	}

	if err := h.RegisterTaxonomyForType("genre", "page"); err != nil {
		t.Fatalf("associate: %v", err)
	}
	if err := h.UnregisterTaxonomyForType("genre", "book"); err != nil {
		t.Fatalf("unassociate: %v", err)
	}
	if !reflect.DeepEqual(h.ObjectTypes("genre"), []string{"page"}) {
		t.Errorf("unexpected object types: %v", h.ObjectTypes("genre"))
	}
}

func TestHostLabelMutationRequiresRegistration(t *testing.T) {
	h := New()
	if err := h.SetPostTypeLabels("ghost", cpt.Labels{}); err == nil {
		t.Error("expected error for unknown post type")
	}
	if err := h.SetTaxonomyLabels("ghost", cpt.Labels{}); err == nil {
		t.Error("expected error for unknown taxonomy")
	}

	if err := h.RegisterPostType("book", cpt.Options{"labels": cpt.Labels{"name": "Books"}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	labels, ok := h.PostTypeLabels("book")
	if !ok || labels["name"] != "Books" {
		t.Fatalf("unexpected labels: %v ok=%v", labels, ok)
	}
}

func TestHostRegistrationAcceptsPlainMapLabels(t *testing.T) {
	h := New()

	// YAML-decoded options carry labels as plain maps, not cpt.Labels.
	err := h.RegisterPostType("book", cpt.Options{
		"labels": map[string]interface{}{"name": "Books"},
	})
	if err != nil {
		t.Fatalf("register post type: %v", err)
	}
	labels, ok := h.PostTypeLabels("book")
	if !ok || labels["name"] != "Books" {
		t.Fatalf("unexpected post type labels: %v ok=%v", labels, ok)
	}

	err = h.RegisterTaxonomy("genre", nil, cpt.Options{
		"labels": map[string]string{"name": "Genres"},
	})
	if err != nil {
		t.Fatalf("register taxonomy: %v", err)
	}
	labels, ok = h.TaxonomyLabels("genre")
	if !ok || labels["name"] != "Genres" {
		t.Fatalf("unexpected taxonomy labels: %v ok=%v", labels, ok)
	}
}

func TestHostAdminPipelineEndToEnd(t *testing.T) {
	h := New()

	pt := cpt.NewPostType("book")
	pt.Columns().
		Add(cpt.ColumnDef{ID: "price"}).
		Hide("author").
		SortableNumeric("price", "meta_price").
		Populate("price", func(w io.Writer, column string, postID int64) {
			fmt.Fprintf(w, "price-%d", postID)
		})
	cpt.Schedule(h, pt)

	if err := h.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cols := h.AdminColumns("book", h.DefaultColumns("book"))
	got := make([]string, len(cols))
	for i, c := range cols {
		got[i] = c.ID
	}
	if !reflect.DeepEqual(got, []string{"title", "date", "price"}) {
		t.Fatalf("unexpected columns: %v", got)
	}

	if spec := h.SortableColumns("book")["price"]; spec.MetaKey != "meta_price" || !spec.Numeric {
		t.Errorf("unexpected sortable spec: %+v", spec)
	}

	var buf bytes.Buffer
	h.RenderPostCell("book", &buf, "price", 42)
	if buf.String() != "price-42" {
		t.Errorf("unexpected cell: %q", buf.String())
	}

	q := cpt.NewQuery()
	q.SetVar("orderby", "meta_price")
	h.RunAdminQuery("book", q)
	if q.StringVar("orderby") != "meta_value_num" || q.StringVar("meta_key") != "meta_price" {
		t.Errorf("unexpected query vars: orderby=%q meta_key=%q",
			q.StringVar("orderby"), q.StringVar("meta_key"))
	}
}

func TestHostTermPipelineEndToEnd(t *testing.T) {
	h := New()

	tx := cpt.NewTaxonomy("genre").
		SetOptions(cpt.Options{"label": "Genres"}).
		ForTypes("book")
	tx.Columns().
		AddPopulated(cpt.ColumnDef{ID: "entries", Label: "Entries"}, func(content, column string, termID int64) string {
			return fmt.Sprintf("%s#%d", content, termID)
		})
	cpt.Schedule(h, tx)

	if err := h.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if !reflect.DeepEqual(h.Taxonomies(), []string{"genre"}) {
		t.Fatalf("unexpected taxonomies: %v", h.Taxonomies())
	}
	opts, ok := h.TaxonomyOptions("genre")
	if !ok || opts["label"] != "Genres" {
		t.Fatalf("unexpected options: %v ok=%v", opts, ok)
	}

	cols := h.AdminColumns("genre", h.DefaultTermColumns("genre"))
	got := make([]string, len(cols))
	for i, c := range cols {
		got[i] = c.ID
	}
	if !reflect.DeepEqual(got, []string{"name", "slug", "count", "entries"}) {
		t.Fatalf("unexpected term columns: %v", got)
	}

	if content := h.RenderTermCell("genre", "seed", "entries", 5); content != "seed#5" {
		t.Errorf("unexpected rendered term cell: %q", content)
	}
	// columns without a callback pass content through unchanged
	if content := h.RenderTermCell("genre", "kept", "name", 5); content != "kept" {
		t.Errorf("expected pass-through content, got %q", content)
	}
}

func TestHostRunQueryReplaysFrontEndHooks(t *testing.T) {
	h := New()
	if err := h.RegisterTaxonomy("genre", []string{"post"}, cpt.Options{}); err != nil {
		t.Fatalf("register taxonomy: %v", err)
	}
	cpt.Schedule(h, cpt.ExtendTaxonomy("genre").ForTypes("book"))
	if err := h.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	q := cpt.NewQuery()
	q.TermArchive = true
	q.SetVar("post_type", "post")
	h.RunQuery(q)
	v, _ := q.Var("post_type")
	if !reflect.DeepEqual(v, []string{"post", "book"}) {
		t.Fatalf("expected book appended on term archive, got %#v", v)
	}

	suppressed := cpt.NewQuery()
	suppressed.TermArchive = true
	suppressed.SuppressFilters = true
	suppressed.SetVar("post_type", "post")
	h.RunQuery(suppressed)
	if got := suppressed.StringVar("post_type"); got != "post" {
		t.Errorf("expected untouched suppressed query, got %q", got)
	}
}
