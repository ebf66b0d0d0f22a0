package designrequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const (
	insertDesignRequestQuery = `
		INSERT INTO design_requests
			(slug, name, floor_plan, interior_photo, door_height, ceiling_height,
			 area, perimeter, wall_area, payload, design_image)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at
	`
	// products removed since resolution are skipped rather than failing the FK
	linkProductsQuery = `
		INSERT INTO design_request_products (design_request_id, product_id)
		SELECT $1, p.id FROM products p WHERE p.id = ANY($2::bigint[])
		RETURNING product_id
	`
	selectDesignRequestColumns = `
		SELECT id, slug, name, created_at, floor_plan, interior_photo, door_height, ceiling_height,
		       area, perimeter, wall_area, payload, design_image
		FROM design_requests
	`
	getDesignRequestBySlugQuery = selectDesignRequestColumns + ` WHERE slug = $1`
	listDesignRequestsQuery     = selectDesignRequestColumns + ` ORDER BY created_at DESC, id DESC`
	listLinkedProductIDsQuery   = `
		SELECT product_id FROM design_request_products
		WHERE design_request_id = $1
		ORDER BY product_id
	`
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the request and its product links in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, dr DesignRequest) (DesignRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return DesignRequest{}, fmt.Errorf("begin design request tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	err = tx.QueryRowContext(ctx, insertDesignRequestQuery,
		dr.Slug,
		dr.Name,
		dr.FloorPlan,
		dr.InteriorPhoto,
		dr.DoorHeight,
		dr.CeilingHeight,
		dr.Area,
		dr.Perimeter,
		dr.WallArea,
		nullableJSON(dr.Payload),
		dr.DesignImage,
	).Scan(&dr.ID, &dr.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return DesignRequest{}, ErrSlugTaken
		}
		return DesignRequest{}, fmt.Errorf("insert design request: %w", err)
	}

	linked := []int{}
	if len(dr.ProductIDs) > 0 {
		rows, err := tx.QueryContext(ctx, linkProductsQuery, dr.ID, pq.Array(dr.ProductIDs))
		if err != nil {
			return DesignRequest{}, fmt.Errorf("link products: %w", err)
		}
		linked, err = collectIDs(rows)
		if err != nil {
			return DesignRequest{}, fmt.Errorf("link products: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return DesignRequest{}, fmt.Errorf("commit design request: %w", err)
	}
	dr.ProductIDs = sortedCopy(linked)
	return dr, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (DesignRequest, error) {
	dr, err := scanDesignRequest(r.db.QueryRowContext(ctx, getDesignRequestBySlugQuery, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return DesignRequest{}, ErrNotFound
	}
	if err != nil {
		return DesignRequest{}, fmt.Errorf("get design request %q: %w", slug, err)
	}

	rows, err := r.db.QueryContext(ctx, listLinkedProductIDsQuery, dr.ID)
	if err != nil {
		return DesignRequest{}, fmt.Errorf("list linked products: %w", err)
	}
	if dr.ProductIDs, err = collectIDs(rows); err != nil {
		return DesignRequest{}, fmt.Errorf("list linked products: %w", err)
	}
	return dr, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]DesignRequest, error) {
	rows, err := r.db.QueryContext(ctx, listDesignRequestsQuery)
	if err != nil {
		return nil, fmt.Errorf("list design requests: %w", err)
	}
	defer rows.Close()

	out := make([]DesignRequest, 0)
	for rows.Next() {
		dr, err := scanDesignRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan design request: %w", err)
		}
		out = append(out, dr)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDesignRequest(scanner rowScanner) (DesignRequest, error) {
	var (
		dr          DesignRequest
		name        sql.NullString
		area        sql.NullFloat64
		perimeter   sql.NullFloat64
		wallArea    sql.NullFloat64
		payload     []byte
		designImage sql.NullString
	)
	if err := scanner.Scan(
		&dr.ID,
		&dr.Slug,
		&name,
		&dr.CreatedAt,
		&dr.FloorPlan,
		&dr.InteriorPhoto,
		&dr.DoorHeight,
		&dr.CeilingHeight,
		&area,
		&perimeter,
		&wallArea,
		&payload,
		&designImage,
	); err != nil {
		return DesignRequest{}, err
	}

	if name.Valid {
		dr.Name = &name.String
	}
	dr.Area = nullFloat(area)
	dr.Perimeter = nullFloat(perimeter)
	dr.WallArea = nullFloat(wallArea)
	if len(payload) > 0 {
		dr.Payload = json.RawMessage(payload)
	}
	if designImage.Valid {
		dr.DesignImage = &designImage.String
	}
	return dr, nil
}

func collectIDs(rows *sql.Rows) ([]int, error) {
	defer rows.Close()
	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// nullableJSON hands jsonb columns text, or NULL for an absent payload.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// isUniqueViolation recognises unique-constraint errors from both the pgx
// and lib/pq drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
