package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/valenjeb/wp-cpt/internal/domain"
)

// PostgresEntryRepository stores entries in two tables: entries for the
// record itself and entry_meta for the key/value metadata the sortable
// admin columns read.
type PostgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func (r *PostgresEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO entries (type, title, status, author, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		entry.Type, entry.Title, entry.Status, entry.Author, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	for key, value := range entry.Meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entry_meta (entry_id, key, value) VALUES ($1, $2, $3)`,
			entry.ID, key, value,
		); err != nil {
			return fmt.Errorf("insert entry meta %q: %w", key, err)
		}
	}

	return tx.Commit()
}

func (r *PostgresEntryRepository) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	var e domain.Entry
	err := r.db.QueryRowContext(ctx,
		`SELECT id, type, title, status, author, created_at FROM entries WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Type, &e.Title, &e.Status, &e.Author, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("select entry %d: %w", id, err)
	}

	e.Meta = map[string]string{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value FROM entry_meta WHERE entry_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("select entry meta %d: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		e.Meta[key] = value
	}
	return &e, rows.Err()
}

func (r *PostgresEntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	query := `SELECT e.id, e.type, e.title, e.status, e.author, e.created_at FROM entries e`
	args := []interface{}{}
	where := ""

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	and := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	orderExpr := "e.created_at"
	switch filter.OrderBy {
	case "title":
		orderExpr = "e.title"
	case "meta_value":
		query += ` LEFT JOIN entry_meta m ON m.entry_id = e.id AND m.key = ` + arg(filter.MetaKey)
		orderExpr = "m.value"
	case "meta_value_num":
		query += ` LEFT JOIN entry_meta m ON m.entry_id = e.id AND m.key = ` + arg(filter.MetaKey)
		orderExpr = "m.value::numeric"
	}

	if filter.Type != "" {
		and("e.type = " + arg(filter.Type))
	}
	if filter.Search != "" {
		and("e.title ILIKE " + arg("%"+filter.Search+"%"))
	}

	query += where + " ORDER BY " + orderExpr
	if filter.Desc {
		query += " DESC"
	}
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []domain.Entry
	var ids []interface{}
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Type, &e.Title, &e.Status, &e.Author, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Meta = map[string]string{}
		out = append(out, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// Load metadata for the page in one query.
	placeholders := ""
	for i := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
	}
	metaRows, err := r.db.QueryContext(ctx,
		`SELECT entry_id, key, value FROM entry_meta WHERE entry_id IN (`+placeholders+`)`, ids...)
	if err != nil {
		return nil, fmt.Errorf("list entry meta: %w", err)
	}
	defer metaRows.Close()

	byID := make(map[int64]*domain.Entry, len(out))
	for i := range out {
		byID[out[i].ID] = &out[i]
	}
	for metaRows.Next() {
		var id int64
		var key, value string
		if err := metaRows.Scan(&id, &key, &value); err != nil {
			return nil, err
		}
		if e, ok := byID[id]; ok {
			e.Meta[key] = value
		}
	}
	return out, metaRows.Err()
}
