package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
)

type mockAlbumRepo struct {
	albums     map[string]models.Album
	lastFilter models.AlbumFilter
	listTotal  int
	err        error
}

func (m *mockAlbumRepo) List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	out := make([]models.Album, 0, len(m.albums))
	for _, a := range m.albums {
		out = append(out, a)
	}
	return out, m.listTotal, nil
}

func (m *mockAlbumRepo) FindByID(ctx context.Context, id string) (*models.Album, error) {
	if a, ok := m.albums[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAlbumRepo) Create(ctx context.Context, album *models.Album) error {
	if m.albums == nil {
		m.albums = make(map[string]models.Album)
	}
	if album.ID == "" {
		album.ID = "generated"
	}
	m.albums[album.ID] = *album
	return nil
}

func (m *mockAlbumRepo) Update(ctx context.Context, album *models.Album) error {
	m.albums[album.ID] = *album
	return nil
}

func (m *mockAlbumRepo) SetActive(ctx context.Context, id string, active bool) error {
	if a, ok := m.albums[id]; ok {
		a.Active = active
		m.albums[id] = a
	}
	return nil
}

type mockReleaser struct {
	released []string
}

func (m *mockReleaser) Release(ctx context.Context, attachmentID string) error {
	m.released = append(m.released, attachmentID)
	return nil
}

func TestAlbumServiceCreate(t *testing.T) {
	repo := &mockAlbumRepo{}
	svc := NewAlbumService(repo, nil, validator.New(), zap.NewNop())

	album, err := svc.Create(context.Background(), CreateAlbumRequest{
		Title:  "Álbum 1",
		Artist: "Artista 1",
		Year:   2020,
		Genre:  "Rock",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, album.ID)
	assert.True(t, album.Active)
	assert.Equal(t, 1, len(repo.albums))
}

func TestAlbumServiceCreateMissingFieldLeavesStoreUntouched(t *testing.T) {
	repo := &mockAlbumRepo{}
	svc := NewAlbumService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateAlbumRequest{Title: "Álbum 1", Artist: "Artista 1", Year: 2020})
	require.Error(t, err)
	assert.Equal(t, 0, len(repo.albums))
}

func TestAlbumServiceCreateAllowsDuplicateTitles(t *testing.T) {
	repo := &mockAlbumRepo{}
	svc := NewAlbumService(repo, nil, validator.New(), zap.NewNop())

	first, err := svc.Create(context.Background(), CreateAlbumRequest{Title: "Same", Artist: "A", Year: 2020, Genre: "Rock"})
	require.NoError(t, err)
	first.ID = "other"
	repo.albums["other"] = *first

	_, err = svc.Create(context.Background(), CreateAlbumRequest{Title: "Same", Artist: "B", Year: 2021, Genre: "Pop"})
	require.NoError(t, err)
}

func TestAlbumServiceUpdateReplacesAllFields(t *testing.T) {
	repo := &mockAlbumRepo{albums: map[string]models.Album{"id1": {ID: "id1", Title: "Old", Artist: "Old", Year: 2019, Genre: "Jazz", Active: true}}}
	svc := NewAlbumService(repo, nil, validator.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), "id1", UpdateAlbumRequest{Title: "New", Artist: "New Artist", Year: 2021, Genre: "Pop"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, 2021, updated.Year)
	assert.Equal(t, 1, len(repo.albums))
}

func TestAlbumServiceUpdateReleasesReplacedCover(t *testing.T) {
	oldCover := "att-old"
	repo := &mockAlbumRepo{albums: map[string]models.Album{"id1": {ID: "id1", Title: "T", Artist: "A", Year: 2020, Genre: "Rock", CoverAttachmentID: &oldCover, Active: true}}}
	releaser := &mockReleaser{}
	svc := NewAlbumService(repo, releaser, validator.New(), zap.NewNop())

	newCover := "att-new"
	_, err := svc.Update(context.Background(), "id1", UpdateAlbumRequest{Title: "T", Artist: "A", Year: 2020, Genre: "Rock", CoverAttachmentID: &newCover})
	require.NoError(t, err)
	assert.Equal(t, []string{"att-old"}, releaser.released)

	// keeping the same cover must not release it
	releaser.released = nil
	_, err = svc.Update(context.Background(), "id1", UpdateAlbumRequest{Title: "T", Artist: "A", Year: 2020, Genre: "Rock", CoverAttachmentID: &newCover})
	require.NoError(t, err)
	assert.Empty(t, releaser.released)
}

func TestAlbumServiceSoftDeleteRoundTrip(t *testing.T) {
	repo := &mockAlbumRepo{albums: map[string]models.Album{"id1": {ID: "id1", Title: "Álbum 1", Artist: "Artista 1", Year: 2020, Genre: "Rock", Active: true}}}
	svc := NewAlbumService(repo, nil, validator.New(), zap.NewNop())

	before := repo.albums["id1"]
	require.NoError(t, svc.Deactivate(context.Background(), "id1"))
	assert.False(t, repo.albums["id1"].Active)

	require.NoError(t, svc.Restore(context.Background(), "id1"))
	after := repo.albums["id1"]
	assert.True(t, after.Active)
	assert.Equal(t, before, after)
}

func TestAlbumServiceDeactivateUnknown(t *testing.T) {
	svc := NewAlbumService(&mockAlbumRepo{}, nil, validator.New(), zap.NewNop())
	err := svc.Deactivate(context.Background(), "missing")
	require.Error(t, err)
}
