package designrequest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() DesignRequest {
	area, perimeter, wall := 24.5, 20.0, 50.0
	img := "/media/examples/sample_design.png"
	return DesignRequest{
		Slug:          "a1b2c3d4",
		FloorPlan:     "images/3/plan.png",
		InteriorPhoto: "images/9/room.jpg",
		DoorHeight:    2.1,
		CeilingHeight: 2.5,
		Area:          &area,
		Perimeter:     &perimeter,
		WallArea:      &wall,
		Payload:       []byte(`{"products":[{"id":1}]}`),
		DesignImage:   &img,
		ProductIDs:    []int{1, 2},
	}
}

func TestPostgresCreate_CommitsRequestAndLinks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO design_requests").
		WithArgs("a1b2c3d4", sqlmock.AnyArg(), "images/3/plan.png", "images/9/room.jpg", 2.1, 2.5,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), `{"products":[{"id":1}]}`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))
	mock.ExpectQuery(`INSERT INTO design_request_products .* ANY\(\$2::bigint\[\]\)`).
		WithArgs(7, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(2).AddRow(1))
	mock.ExpectCommit()

	dr, err := NewPostgresRepository(db).Create(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, 7, dr.ID)
	assert.Equal(t, now, dr.CreatedAt)
	assert.Equal(t, []int{1, 2}, dr.ProductIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_LinkFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO design_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))
	mock.ExpectQuery("INSERT INTO design_request_products").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = NewPostgresRepository(db).Create(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlugTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_SlugUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"pgx", &pgconn.PgError{Code: "23505", ConstraintName: "design_requests_slug_key"}},
		{"lib/pq", &pq.Error{Code: "23505"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO design_requests").WillReturnError(tt.err)
			mock.ExpectRollback()

			_, err = NewPostgresRepository(db).Create(context.Background(), sampleRequest())
			assert.ErrorIs(t, err, ErrSlugTaken)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresCreate_NoProductsSkipsLinkInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dr := sampleRequest()
	dr.ProductIDs = nil
	dr.Payload = nil

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO design_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))
	mock.ExpectCommit()

	got, err := NewPostgresRepository(db).Create(context.Background(), dr)
	require.NoError(t, err)
	assert.Empty(t, got.ProductIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var designRequestColumns = []string{
	"id", "slug", "name", "created_at", "floor_plan", "interior_photo", "door_height", "ceiling_height",
	"area", "perimeter", "wall_area", "payload", "design_image",
}

func TestPostgresGetBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("FROM design_requests WHERE slug = \\$1").WithArgs("a1b2c3d4").
		WillReturnRows(sqlmock.NewRows(designRequestColumns).
			AddRow(7, "a1b2c3d4", nil, now, "images/3/plan.png", "images/9/room.jpg", 2.1, 2.5,
				24.5, 20.0, nil, []byte(`{"products":[]}`), nil))
	mock.ExpectQuery("FROM design_request_products").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(1).AddRow(4))

	dr, err := NewPostgresRepository(db).GetBySlug(context.Background(), "a1b2c3d4")
	require.NoError(t, err)
	assert.Nil(t, dr.Name)
	assert.Equal(t, 24.5, *dr.Area)
	assert.Nil(t, dr.WallArea)
	assert.Nil(t, dr.DesignImage)
	assert.JSONEq(t, `{"products":[]}`, string(dr.Payload))
	assert.Equal(t, []int{1, 4}, dr.ProductIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetBySlug_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM design_requests WHERE slug").WillReturnRows(sqlmock.NewRows(designRequestColumns))

	_, err = NewPostgresRepository(db).GetBySlug(context.Background(), "missing1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresList_NewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(designRequestColumns).
			AddRow(2, "bbbbbbbb", "Kitchen", now, "p", "i", 2.0, 2.4, 0.0, 0.0, 0.0, nil, nil).
			AddRow(1, "aaaaaaaa", nil, now.Add(-time.Hour), "p", "i", 2.0, 2.4, 0.0, 0.0, 0.0, nil, nil))

	items, err := NewPostgresRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "bbbbbbbb", items[0].Slug)
	assert.Equal(t, "Kitchen", *items[0].Name)
	assert.Nil(t, items[1].Payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}
