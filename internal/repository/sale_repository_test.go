package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discora/label-admin-api/internal/models"
)

func newSaleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSaleRepositoryListDefaultsToDate(t *testing.T) {
	db, mock, cleanup := newSaleMock(t)
	defer cleanup()
	repo := NewSaleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "sale_date", "item_label", "quantity", "unit_price", "total", "active", "created_at", "updated_at"}).
		AddRow("s1", "2024-05-01", "Álbum 1", 3, 10.0, 30.0, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sale_date, item_label, quantity, unit_price, total, active, created_at, updated_at FROM sales WHERE 1=1 ORDER BY sale_date DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sales WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sales, total, err := repo.List(context.Background(), models.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 30.0, sales[0].Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSaleMock(t)
	defer cleanup()
	repo := NewSaleRepository(db)

	mock.ExpectExec("INSERT INTO sales").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sale := &models.Sale{SaleDate: "2024-05-01", ItemLabel: "Álbum 1", Quantity: 3, UnitPrice: 10, Total: 30, Active: true}
	require.NoError(t, repo.Create(context.Background(), sale))
	assert.NotEmpty(t, sale.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepositorySetActiveRestore(t *testing.T) {
	db, mock, cleanup := newSaleMock(t)
	defer cleanup()
	repo := NewSaleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sales SET active = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("s1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetActive(context.Background(), "s1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}
