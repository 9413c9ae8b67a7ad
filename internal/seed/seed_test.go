package seed

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/repository"
)

func newSeeder(t *testing.T) (*Seeder, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	s := New(
		repository.NewUserRepository(sqlxDB),
		repository.NewAlbumRepository(sqlxDB),
		repository.NewArtistRepository(sqlxDB),
		repository.NewSongRepository(sqlxDB),
		repository.NewSaleRepository(sqlxDB),
		repository.NewAcquisitionRepository(sqlxDB),
		zap.NewNop(),
	)
	return s, mock, func() { db.Close() }
}

func TestSeederRunInsertsEveryEntity(t *testing.T) {
	s, mock, cleanup := newSeeder(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, name, email, password_hash, role, active, last_login, created_at, updated_at FROM users").
		WillReturnError(sql.ErrNoRows)

	inserts := []struct {
		table string
		count int
	}{
		{"users", 2},
		{"artists", 2},
		{"albums", 2},
		{"songs", 2},
		{"sales", 2},
		{"acquisitions", 1},
		{"merch_items", 1},
	}
	for _, ins := range inserts {
		for i := 0; i < ins.count; i++ {
			mock.ExpectExec("INSERT INTO " + ins.table).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}
	}

	require.NoError(t, s.Run(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeederRunSkipsWhenAdminExists(t *testing.T) {
	s, mock, cleanup := newSeeder(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "active", "last_login", "created_at", "updated_at"}).
		AddRow("u1", "Usuario 1", "admin@label.local", "hash", "ADMIN", true, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, email, password_hash, role, active, last_login, created_at, updated_at FROM users").
		WillReturnRows(rows)

	require.NoError(t, s.Run(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
