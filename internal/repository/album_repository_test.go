package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discora/label-admin-api/internal/models"
)

func newAlbumMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func albumRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "artist", "year", "genre", "cover_attachment_id", "active", "created_at", "updated_at"})
}

func TestAlbumRepositoryList(t *testing.T) {
	db, mock, cleanup := newAlbumMock(t)
	defer cleanup()
	repo := NewAlbumRepository(db)

	rows := albumRows().
		AddRow("a1", "Álbum 1", "Artista 1", 2020, "Rock", nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, artist, year, genre, cover_attachment_id, active, created_at, updated_at FROM albums WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM albums WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	albums, total, err := repo.List(context.Background(), models.AlbumFilter{})
	require.NoError(t, err)
	assert.Len(t, albums, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlbumRepositoryListHonorsLargePageSize(t *testing.T) {
	db, mock, cleanup := newAlbumMock(t)
	defer cleanup()
	repo := NewAlbumRepository(db)

	rows := albumRows()
	for i := 0; i < 150; i++ {
		rows.AddRow(fmt.Sprintf("a%d", i), fmt.Sprintf("Álbum %d", i), "Artista 1", 2020, "Rock", nil, true, time.Now(), time.Now())
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, artist, year, genre, cover_attachment_id, active, created_at, updated_at FROM albums WHERE 1=1 ORDER BY created_at DESC LIMIT 10000 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM albums WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(150))

	albums, total, err := repo.List(context.Background(), models.AlbumFilter{Page: 1, PageSize: 10000})
	require.NoError(t, err)
	assert.Len(t, albums, 150)
	assert.Equal(t, 150, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlbumRepositoryListSearchLowersTerm(t *testing.T) {
	db, mock, cleanup := newAlbumMock(t)
	defer cleanup()
	repo := NewAlbumRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, artist, year, genre, cover_attachment_id, active, created_at, updated_at FROM albums WHERE 1=1 AND LOWER(title) LIKE $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("%álbum%").
		WillReturnRows(albumRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM albums WHERE 1=1 AND LOWER(title) LIKE $1")).
		WithArgs("%álbum%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.AlbumFilter{Search: "ÁLBUM"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlbumRepositoryListSortWhitelist(t *testing.T) {
	db, mock, cleanup := newAlbumMock(t)
	defer cleanup()
	repo := NewAlbumRepository(db)

	// unknown sort column falls back to created_at, order defaults to DESC
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, artist, year, genre, cover_attachment_id, active, created_at, updated_at FROM albums WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(albumRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM albums WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.AlbumFilter{SortBy: "artist; DROP TABLE albums", SortOrder: "sideways"})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, artist, year, genre, cover_attachment_id, active, created_at, updated_at FROM albums WHERE 1=1 ORDER BY year ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(albumRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM albums WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err = repo.List(context.Background(), models.AlbumFilter{SortBy: "year", SortOrder: "asc"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlbumRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAlbumMock(t)
	defer cleanup()
	repo := NewAlbumRepository(db)

	mock.ExpectExec("INSERT INTO albums").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	album := &models.Album{Title: "Álbum 1", Artist: "Artista 1", Year: 2020, Genre: "Rock", Active: true}
	err := repo.Create(context.Background(), album)
	require.NoError(t, err)
	assert.NotEmpty(t, album.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlbumRepositorySetActive(t *testing.T) {
	db, mock, cleanup := newAlbumMock(t)
	defer cleanup()
	repo := NewAlbumRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE albums SET active = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("a1", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetActive(context.Background(), "a1", false))
	assert.NoError(t, mock.ExpectationsWereMet())
}
