package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
)

// albumListerStub pages through a fixed store the way the real
// repository does, so oversized stores surface paging bugs.
type albumListerStub struct {
	store      []models.Album
	lastFilter models.AlbumFilter
}

func (s *albumListerStub) List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, int, error) {
	s.lastFilter = filter
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(s.store) {
		return nil, len(s.store), nil
	}
	end := start + pageSize
	if end > len(s.store) {
		end = len(s.store)
	}
	return s.store[start:end], len(s.store), nil
}

func TestExportServiceAlbumsExportsFullStore(t *testing.T) {
	lister := &albumListerStub{}
	for i := 0; i < 150; i++ {
		lister.store = append(lister.store, models.Album{
			ID:     fmt.Sprintf("a%d", i),
			Title:  fmt.Sprintf("Álbum %d", i),
			Artist: "Artista 1",
			Year:   2020,
			Genre:  "Rock",
			Active: true,
		})
	}
	svc := NewExportService(lister, nil, nil, nil, nil, nil, ExportConfig{}, zap.NewNop())

	file, err := svc.Albums(context.Background(), models.AlbumFilter{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 10000, lister.lastFilter.PageSize)
	// header + one line per stored album, nothing clipped
	assert.Equal(t, 151, bytes.Count(file.Payload, []byte("\n")))
}

func TestExportServiceAlbumsRespectsMaxRows(t *testing.T) {
	lister := &albumListerStub{}
	for i := 0; i < 150; i++ {
		lister.store = append(lister.store, models.Album{ID: fmt.Sprintf("a%d", i), Title: fmt.Sprintf("Álbum %d", i), Year: 2020, Active: true})
	}
	svc := NewExportService(lister, nil, nil, nil, nil, nil, ExportConfig{MaxRows: 50}, zap.NewNop())

	file, err := svc.Albums(context.Background(), models.AlbumFilter{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 50, lister.lastFilter.PageSize)
	assert.Equal(t, 51, bytes.Count(file.Payload, []byte("\n")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&albumListerStub{}, nil, nil, nil, nil, nil, ExportConfig{}, zap.NewNop())

	_, err := svc.Albums(context.Background(), models.AlbumFilter{}, ExportFormat("docx"))
	require.Error(t, err)
}
