package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discora/label-admin-api/internal/models"
	"github.com/discora/label-admin-api/internal/service"
	"github.com/discora/label-admin-api/pkg/response"
)

type albumRepoMock struct {
	albums     map[string]models.Album
	lastFilter models.AlbumFilter
}

func (m *albumRepoMock) List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, int, error) {
	m.lastFilter = filter
	out := make([]models.Album, 0, len(m.albums))
	for _, a := range m.albums {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (m *albumRepoMock) FindByID(ctx context.Context, id string) (*models.Album, error) {
	if a, ok := m.albums[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *albumRepoMock) Create(ctx context.Context, album *models.Album) error {
	if m.albums == nil {
		m.albums = make(map[string]models.Album)
	}
	if album.ID == "" {
		album.ID = "generated"
	}
	m.albums[album.ID] = *album
	return nil
}

func (m *albumRepoMock) Update(ctx context.Context, album *models.Album) error {
	m.albums[album.ID] = *album
	return nil
}

func (m *albumRepoMock) SetActive(ctx context.Context, id string, active bool) error {
	if a, ok := m.albums[id]; ok {
		a.Active = active
		m.albums[id] = a
	}
	return nil
}

func newAlbumHandlerFixture(repo *albumRepoMock) *AlbumHandler {
	svc := service.NewAlbumService(repo, nil, nil, nil)
	return NewAlbumHandler(svc, nil)
}

func TestAlbumHandlerListParsesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &albumRepoMock{albums: map[string]models.Album{
		"a1": {ID: "a1", Title: "Álbum 1", Artist: "Artista 1", Year: 2020, Genre: "Rock", Active: true},
	}}
	h := newAlbumHandlerFixture(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/albums?search=rock&genre=Rock&active=true&page=2&limit=5", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rock", repo.lastFilter.Search)
	assert.Equal(t, "Rock", repo.lastFilter.Genre)
	require.NotNil(t, repo.lastFilter.Active)
	assert.True(t, *repo.lastFilter.Active)
	assert.Equal(t, 2, repo.lastFilter.Page)
	assert.Equal(t, 5, repo.lastFilter.PageSize)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestAlbumHandlerListCapsOversizedLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &albumRepoMock{}
	h := newAlbumHandlerFixture(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/albums?limit=5000", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, repo.lastFilter.PageSize)
}

func TestAlbumHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &albumRepoMock{}
	h := newAlbumHandlerFixture(repo)

	payload, _ := json.Marshal(service.CreateAlbumRequest{Title: "Álbum 1", Artist: "Artista 1", Year: 2020, Genre: "Rock"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/albums", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, repo.albums, 1)
}

func TestAlbumHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAlbumHandlerFixture(&albumRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/albums", bytes.NewBufferString(`{"title":"x"`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlbumHandlerCreateMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &albumRepoMock{}
	h := newAlbumHandlerFixture(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/albums", bytes.NewBufferString(`{"title":"Solo título"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.albums)
}

func TestAlbumHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAlbumHandlerFixture(&albumRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/albums/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAlbumHandlerDeleteAndRestore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &albumRepoMock{albums: map[string]models.Album{
		"a1": {ID: "a1", Title: "Álbum 1", Artist: "Artista 1", Year: 2020, Genre: "Rock", Active: true},
	}}
	h := newAlbumHandlerFixture(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/albums/a1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "a1"}}
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, repo.albums["a1"].Active)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ = http.NewRequest(http.MethodPost, "/albums/a1/restore", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "a1"}}
	h.Restore(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.albums["a1"].Active)
}
