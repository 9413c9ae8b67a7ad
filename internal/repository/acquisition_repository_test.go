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

func newAcquisitionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func acquisitionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "artist_name", "kind", "start_date", "end_date", "amount", "terms", "contract_attachment_id", "sale_agreement_attachment_id", "status", "created_at", "updated_at"})
}

func TestAcquisitionRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newAcquisitionMock(t)
	defer cleanup()
	repo := NewAcquisitionRepository(db)

	status := models.AcquisitionSold
	rows := acquisitionRows().
		AddRow("q1", "Artista 1", "sale", "2023-01-01", models.EndDateFinalized, 5000.0, "", nil, nil, "sold", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, artist_name, kind, start_date, end_date, amount, terms, contract_attachment_id, sale_agreement_attachment_id, status, created_at, updated_at FROM acquisitions WHERE 1=1 AND status = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(status).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM acquisitions WHERE 1=1 AND status = $1")).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	acqs, total, err := repo.List(context.Background(), models.AcquisitionFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, acqs, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.EndDateFinalized, acqs[0].EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquisitionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAcquisitionMock(t)
	defer cleanup()
	repo := NewAcquisitionRepository(db)

	mock.ExpectExec("INSERT INTO acquisitions").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	acq := &models.Acquisition{
		ArtistName: "Artista 1",
		Kind:       models.AcquisitionPurchase,
		StartDate:  "2023-01-01",
		EndDate:    "2025-01-01",
		Amount:     5000,
		Status:     models.AcquisitionAcquired,
	}
	require.NoError(t, repo.Create(context.Background(), acq))
	assert.NotEmpty(t, acq.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquisitionRepositoryMerchItems(t *testing.T) {
	db, mock, cleanup := newAcquisitionMock(t)
	defer cleanup()
	repo := NewAcquisitionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "acquisition_id", "name", "price", "stock", "units_sold", "photo_attachment_id", "created_at", "updated_at"}).
		AddRow("m1", "q1", "Camiseta", 25.0, 100, 40, nil, time.Now(), time.Now()).
		AddRow("m2", "q1", "Poster", 10.0, 50, 12, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, acquisition_id, name, price, stock, units_sold, photo_attachment_id, created_at, updated_at FROM merch_items WHERE acquisition_id = $1 ORDER BY created_at ASC")).
		WithArgs("q1").
		WillReturnRows(rows)

	items, err := repo.ListMerchItems(context.Background(), "q1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Camiseta", items[0].Name)

	mock.ExpectExec("INSERT INTO merch_items").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	item := &models.MerchItem{AcquisitionID: "q1", Name: "Gorra", Price: 15, Stock: 30}
	require.NoError(t, repo.CreateMerchItem(context.Background(), item))
	assert.NotEmpty(t, item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
