package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/valenjeb/wp-cpt/internal/domain"
)

// MemoryTermRepository keeps taxonomy terms in memory, the default store
// when no database is configured and the fixture store in tests.
type MemoryTermRepository struct {
	mu     sync.RWMutex
	nextID int64
	terms  []domain.Term
}

func NewMemoryTermRepository() *MemoryTermRepository {
	return &MemoryTermRepository{nextID: 1}
}

func (r *MemoryTermRepository) CreateTerm(ctx context.Context, term *domain.Term) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	term.ID = r.nextID
	r.nextID++
	r.terms = append(r.terms, *term)
	return nil
}

func (r *MemoryTermRepository) GetTermByID(ctx context.Context, id int64) (*domain.Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.terms {
		if r.terms[i].ID == id {
			t := r.terms[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("term %d not found", id)
}

func (r *MemoryTermRepository) ListTerms(ctx context.Context, taxonomy string) ([]domain.Term, error) {
	r.mu.RLock()
	out := make([]domain.Term, 0, len(r.terms))
	for _, t := range r.terms {
		if taxonomy != "" && t.Taxonomy != taxonomy {
			continue
		}
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
