package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
)

type albumRepository interface {
	List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, int, error)
	FindByID(ctx context.Context, id string) (*models.Album, error)
	Create(ctx context.Context, album *models.Album) error
	Update(ctx context.Context, album *models.Album) error
	SetActive(ctx context.Context, id string, active bool) error
}

// CreateAlbumRequest holds payload for creating albums.
type CreateAlbumRequest struct {
	Title             string  `json:"title" validate:"required"`
	Artist            string  `json:"artist" validate:"required"`
	Year              int     `json:"year" validate:"required"`
	Genre             string  `json:"genre" validate:"required"`
	CoverAttachmentID *string `json:"cover_attachment_id"`
}

// UpdateAlbumRequest holds payload for updating albums. All fields are
// replaced on save, matching the edit-modal semantics.
type UpdateAlbumRequest struct {
	Title             string  `json:"title" validate:"required"`
	Artist            string  `json:"artist" validate:"required"`
	Year              int     `json:"year" validate:"required"`
	Genre             string  `json:"genre" validate:"required"`
	CoverAttachmentID *string `json:"cover_attachment_id"`
}

// AlbumService handles album use-cases.
type AlbumService struct {
	repo      albumRepository
	releaser  attachmentReleaser
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAlbumService constructs the album service.
func NewAlbumService(repo albumRepository, releaser attachmentReleaser, validate *validator.Validate, logger *zap.Logger) *AlbumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlbumService{repo: repo, releaser: releaser, validator: validate, logger: logger}
}

// List returns albums and pagination metadata.
func (s *AlbumService) List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, *models.Pagination, error) {
	albums, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list albums")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return albums, pagination, nil
}

// Get returns one album.
func (s *AlbumService) Get(ctx context.Context, id string) (*models.Album, error) {
	album, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "album not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load album")
	}
	return album, nil
}

// Create registers a new album. Duplicate titles are accepted.
func (s *AlbumService) Create(ctx context.Context, req CreateAlbumRequest) (*models.Album, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid album payload")
	}
	album := &models.Album{
		Title:             req.Title,
		Artist:            req.Artist,
		Year:              req.Year,
		Genre:             req.Genre,
		CoverAttachmentID: req.CoverAttachmentID,
		Active:            true,
	}
	if err := s.repo.Create(ctx, album); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create album")
	}
	return album, nil
}

// Update replaces the album's fields. Replacing the cover hands the old
// file to the attachment releaser.
func (s *AlbumService) Update(ctx context.Context, id string, req UpdateAlbumRequest) (*models.Album, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid album payload")
	}
	album, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "album not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load album")
	}
	replaced := replacedAttachment(album.CoverAttachmentID, req.CoverAttachmentID)
	album.Title = req.Title
	album.Artist = req.Artist
	album.Year = req.Year
	album.Genre = req.Genre
	album.CoverAttachmentID = req.CoverAttachmentID
	if err := s.repo.Update(ctx, album); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update album")
	}
	s.releaseReplaced(ctx, replaced)
	return album, nil
}

// Deactivate soft-deletes an album; the row stays restorable.
func (s *AlbumService) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Restore flips a soft-deleted album back to active.
func (s *AlbumService) Restore(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *AlbumService) setActive(ctx context.Context, id string, active bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "album not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load album")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change album status")
	}
	return nil
}

func (s *AlbumService) releaseReplaced(ctx context.Context, attachmentID *string) {
	if attachmentID == nil || s.releaser == nil {
		return
	}
	if err := s.releaser.Release(ctx, *attachmentID); err != nil {
		s.logger.Warn("failed to schedule attachment release", zap.String("attachment_id", *attachmentID), zap.Error(err))
	}
}
