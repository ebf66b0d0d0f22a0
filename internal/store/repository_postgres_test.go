package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "url", "phone", "logo"}).
		AddRow(1, "Casa Lumen", "https://casalumen.example", nil, nil).
		AddRow(2, "Nordic Home", nil, "+46 8 123", "/media/logos/nordic.png")
	mock.ExpectQuery("FROM stores ORDER BY id").WillReturnRows(rows)

	stores, err := NewPostgresRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "https://casalumen.example", *stores[0].URL)
	assert.Nil(t, stores[0].Phone)
	assert.Equal(t, "/media/logos/nordic.png", *stores[1].Logo)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM stores WHERE id").WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "url", "phone", "logo"}))

	_, err = NewPostgresRepository(db).GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
