package domain

import (
	"context"
	"time"
)

// Entry is one content record of a registered post type.
type Entry struct {
	ID        int64             `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Status    string            `json:"status"`
	Author    string            `json:"author"`
	Meta      map[string]string `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Term is one classification term of a registered taxonomy.
type Term struct {
	ID       int64  `json:"id"`
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Count    int    `json:"count"`
}

// EntryFilter narrows and orders a listing. OrderBy takes the resolved
// query var ("date", "title", "meta_value" or "meta_value_num"); meta
// orderings read the value stored under MetaKey.
type EntryFilter struct {
	Type    string
	Search  string
	OrderBy string
	MetaKey string
	Desc    bool
	Limit   int
	Offset  int
}

// EntryRepository stores content entries.
type EntryRepository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id int64) (*Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]Entry, error)
}

// TermRepository stores taxonomy terms.
type TermRepository interface {
	CreateTerm(ctx context.Context, term *Term) error
	GetTermByID(ctx context.Context, id int64) (*Term, error)
	ListTerms(ctx context.Context, taxonomy string) ([]Term, error)
}
