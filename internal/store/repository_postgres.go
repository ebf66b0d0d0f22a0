package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

const (
	listStoresQuery = `SELECT id, name, url, phone, logo FROM stores ORDER BY id`
	getStoreQuery   = `SELECT id, name, url, phone, logo FROM stores WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Store, error) {
	rows, err := r.db.QueryContext(ctx, listStoresQuery)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	out := make([]Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Store, error) {
	s, err := scanStore(r.db.QueryRowContext(ctx, getStoreQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Store{}, ErrNotFound
	}
	if err != nil {
		return Store{}, fmt.Errorf("get store %d: %w", id, err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStore(scanner rowScanner) (Store, error) {
	var (
		s     Store
		url   sql.NullString
		phone sql.NullString
		logo  sql.NullString
	)
	if err := scanner.Scan(&s.ID, &s.Name, &url, &phone, &logo); err != nil {
		return Store{}, err
	}
	if url.Valid {
		s.URL = &url.String
	}
	if phone.Valid {
		s.Phone = &phone.String
	}
	if logo.Valid {
		s.Logo = &logo.String
	}
	return s, nil
}
