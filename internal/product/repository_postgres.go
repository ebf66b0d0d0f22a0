package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/wichananm65/rior-backend/internal/store"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectProductColumns = `
		SELECT p.id, p.name, p.description, p.price, p.category, p.brand, p.dimensions, p.image, p.store_id,
		       s.name, s.url, s.phone, s.logo
		FROM products p
		LEFT JOIN stores s ON s.id = p.store_id
	`
	listProductsQuery      = selectProductColumns + ` ORDER BY p.id`
	getProductByIDQuery    = selectProductColumns + ` WHERE p.id = $1`
	listProductsByIDsQuery = selectProductColumns + ` WHERE p.id = ANY($1::bigint[]) ORDER BY p.id`
	insertProductQuery     = `
		INSERT INTO products (name, description, price, category, brand, dimensions, image, store_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	insertProductWithIDQuery = `
		INSERT INTO products (id, name, description, price, category, brand, dimensions, image, store_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			description = $2,
			price = $3,
			category = $4,
			brand = $5,
			dimensions = $6,
			image = $7,
			store_id = $8
		WHERE id = $9
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`
	// keeps SERIAL ahead of ids inserted explicitly by Reset
	syncProductSequenceQuery = `SELECT setval(pg_get_serial_sequence('products', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM products`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// ListByIDs resolves ids against the catalog in one round trip. An empty
// slice short-circuits without touching the database.
func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.QueryContext(ctx, listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}
	return collectProducts(rows)
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		insertProductQuery,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Brand,
		p.Dimensions,
		p.Image,
		p.StoreID,
	).Scan(&id)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	result, err := r.db.ExecContext(ctx,
		updateProductQuery,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Brand,
		p.Dimensions,
		p.Image,
		p.StoreID,
		id,
	)
	if err != nil {
		return Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset deletes all products and inserts the provided list in a single
// transaction. Products with an explicit ID keep it so seeded catalogs stay
// addressable by the ids recommendation payloads refer to.
func (r *PostgresRepository) Reset(ctx context.Context, products []Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	for _, p := range products {
		if p.ID > 0 {
			_, err = tx.ExecContext(ctx, insertProductWithIDQuery,
				p.ID, p.Name, p.Description, p.Price, p.Category, p.Brand, p.Dimensions, p.Image, p.StoreID)
		} else {
			_, err = tx.ExecContext(ctx, insertProductQuery,
				p.Name, p.Description, p.Price, p.Category, p.Brand, p.Dimensions, p.Image, p.StoreID)
		}
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, syncProductSequenceQuery); err != nil {
		return fmt.Errorf("sync product sequence: %w", err)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var (
		category   sql.NullString
		brand      sql.NullString
		dimensions sql.NullString
		image      sql.NullString
		storeID    sql.NullInt64
		storeName  sql.NullString
		storeURL   sql.NullString
		storePhone sql.NullString
		storeLogo  sql.NullString
	)

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&category,
		&brand,
		&dimensions,
		&image,
		&storeID,
		&storeName,
		&storeURL,
		&storePhone,
		&storeLogo,
	); err != nil {
		return Product{}, err
	}

	if category.Valid {
		p.Category = &category.String
	}
	if brand.Valid {
		p.Brand = &brand.String
	}
	if dimensions.Valid {
		p.Dimensions = &dimensions.String
	}
	if image.Valid {
		p.Image = &image.String
	}
	if storeID.Valid {
		sid := int(storeID.Int64)
		p.StoreID = &sid
		if storeName.Valid {
			s := &store.Store{ID: sid, Name: storeName.String}
			if storeURL.Valid {
				s.URL = &storeURL.String
			}
			if storePhone.Valid {
				s.Phone = &storePhone.String
			}
			if storeLogo.Valid {
				s.Logo = &storeLogo.String
			}
			p.Store = s
		}
	}
	return p, nil
}
