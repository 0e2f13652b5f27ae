package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/valenjeb/wp-cpt/internal/domain"
)

// PostgresTermRepository stores taxonomy terms in a single terms table.
type PostgresTermRepository struct {
	db *sql.DB
}

func NewPostgresTermRepository(db *sql.DB) *PostgresTermRepository {
	return &PostgresTermRepository{db: db}
}

func (r *PostgresTermRepository) CreateTerm(ctx context.Context, term *domain.Term) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO terms (taxonomy, name, slug, count)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		term.Taxonomy, term.Name, term.Slug, term.Count,
	).Scan(&term.ID)
	if err != nil {
		return fmt.Errorf("insert term: %w", err)
	}
	return nil
}

func (r *PostgresTermRepository) GetTermByID(ctx context.Context, id int64) (*domain.Term, error) {
	var t domain.Term
	err := r.db.QueryRowContext(ctx,
		`SELECT id, taxonomy, name, slug, count FROM terms WHERE id = $1`, id,
	).Scan(&t.ID, &t.Taxonomy, &t.Name, &t.Slug, &t.Count)
	if err != nil {
		return nil, fmt.Errorf("select term %d: %w", id, err)
	}
	return &t, nil
}

func (r *PostgresTermRepository) ListTerms(ctx context.Context, taxonomy string) ([]domain.Term, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, taxonomy, name, slug, count FROM terms WHERE taxonomy = $1 ORDER BY name`,
		taxonomy)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	var out []domain.Term
	for rows.Next() {
		var t domain.Term
		if err := rows.Scan(&t.ID, &t.Taxonomy, &t.Name, &t.Slug, &t.Count); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
