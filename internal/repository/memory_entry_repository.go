package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/valenjeb/wp-cpt/internal/domain"
)

// MemoryEntryRepository keeps entries in memory. It is the default store
// when no database is configured and the fixture store in tests.
type MemoryEntryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []domain.Entry
}

func NewMemoryEntryRepository() *MemoryEntryRepository {
	return &MemoryEntryRepository{nextID: 1}
}

func (r *MemoryEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryEntryRepository) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			e := r.entries[i]
			return &e, nil
		}
	}
	return nil, fmt.Errorf("entry %d not found", id)
}

func (r *MemoryEntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	r.mu.RLock()
	out := make([]domain.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, e)
	}
	r.mu.RUnlock()

	sortEntries(out, filter)

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func sortEntries(entries []domain.Entry, filter domain.EntryFilter) {
	less := func(a, b domain.Entry) bool { return a.CreatedAt.Before(b.CreatedAt) }

	switch filter.OrderBy {
	case "title":
		less = func(a, b domain.Entry) bool { return a.Title < b.Title }
	case "meta_value":
		less = func(a, b domain.Entry) bool {
			return a.Meta[filter.MetaKey] < b.Meta[filter.MetaKey]
		}
	case "meta_value_num":
		less = func(a, b domain.Entry) bool {
			av, _ := strconv.ParseFloat(a.Meta[filter.MetaKey], 64)
			bv, _ := strconv.ParseFloat(b.Meta[filter.MetaKey], 64)
			return av < bv
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if filter.Desc {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}
