// Package database opens the Postgres connection and prepares the schema the
// repositories expect.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/wichananm65/rior-backend/internal/product"
	"github.com/wichananm65/rior-backend/internal/store"
	"go.uber.org/zap"
)

// Open connects through the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	if url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT,
		phone TEXT,
		logo TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		category TEXT,
		brand TEXT,
		dimensions TEXT,
		image TEXT,
		store_id INT REFERENCES stores(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS design_requests (
		id SERIAL PRIMARY KEY,
		slug VARCHAR(8) NOT NULL UNIQUE,
		name VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		floor_plan TEXT NOT NULL,
		interior_photo TEXT NOT NULL,
		door_height DOUBLE PRECISION NOT NULL CHECK (door_height > 0),
		ceiling_height DOUBLE PRECISION NOT NULL CHECK (ceiling_height > 0),
		area DOUBLE PRECISION,
		perimeter DOUBLE PRECISION,
		wall_area DOUBLE PRECISION,
		payload JSONB,
		design_image TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS design_request_products (
		design_request_id INT NOT NULL REFERENCES design_requests(id) ON DELETE CASCADE,
		product_id INT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		PRIMARY KEY (design_request_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS design_requests_created_at_idx ON design_requests (created_at DESC)`,
}

// EnsureSchema creates missing tables. It is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const (
	insertStoreQuery = `
		INSERT INTO stores (id, name, url, phone, logo)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO NOTHING
	`
	syncStoreSequenceQuery = `SELECT setval(pg_get_serial_sequence('stores', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM stores`
	countProductsQuery     = `SELECT COUNT(*) FROM products`
)

// Seed inserts the given stores (existing ids are left alone) and, when the
// product table is empty, the given catalog.
func Seed(ctx context.Context, db *sql.DB, stores []store.Store, catalog []product.Product, log *zap.Logger) error {
	for _, s := range stores {
		if _, err := db.ExecContext(ctx, insertStoreQuery, s.ID, s.Name, s.URL, s.Phone, s.Logo); err != nil {
			return fmt.Errorf("seed store %q: %w", s.Name, err)
		}
	}
	if _, err := db.ExecContext(ctx, syncStoreSequenceQuery); err != nil {
		return fmt.Errorf("sync store sequence: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, countProductsQuery).Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		log.Debug("catalog already seeded", zap.Int("products", count))
		return nil
	}
	if err := product.NewPostgresRepository(db).Reset(ctx, catalog); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	log.Info("seeded sample catalog", zap.Int("stores", len(stores)), zap.Int("products", len(catalog)))
	return nil
}
