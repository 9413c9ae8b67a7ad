package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
)

type artistRepository interface {
	List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, int, error)
	FindByID(ctx context.Context, id string) (*models.Artist, error)
	Create(ctx context.Context, artist *models.Artist) error
	Update(ctx context.Context, artist *models.Artist) error
	SetActive(ctx context.Context, id string, active bool) error
}

// CreateArtistRequest holds payload for creating artists.
type CreateArtistRequest struct {
	Name              string  `json:"name" validate:"required"`
	Genre             string  `json:"genre" validate:"required"`
	Country           string  `json:"country" validate:"required"`
	Biography         string  `json:"biography" validate:"required"`
	PhotoAttachmentID *string `json:"photo_attachment_id"`
}

// UpdateArtistRequest holds payload for updating artists.
type UpdateArtistRequest struct {
	Name              string  `json:"name" validate:"required"`
	Genre             string  `json:"genre" validate:"required"`
	Country           string  `json:"country" validate:"required"`
	Biography         string  `json:"biography" validate:"required"`
	PhotoAttachmentID *string `json:"photo_attachment_id"`
}

// ArtistService handles artist use-cases.
type ArtistService struct {
	repo      artistRepository
	releaser  attachmentReleaser
	validator *validator.Validate
	logger    *zap.Logger
}

// NewArtistService constructs the artist service.
func NewArtistService(repo artistRepository, releaser attachmentReleaser, validate *validator.Validate, logger *zap.Logger) *ArtistService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtistService{repo: repo, releaser: releaser, validator: validate, logger: logger}
}

// List returns artists and pagination metadata.
func (s *ArtistService) List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, *models.Pagination, error) {
	artists, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list artists")
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
	return artists, pagination, nil
}

// Get returns one artist.
func (s *ArtistService) Get(ctx context.Context, id string) (*models.Artist, error) {
	artist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "artist not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load artist")
	}
	return artist, nil
}

// Create registers a new artist.
func (s *ArtistService) Create(ctx context.Context, req CreateArtistRequest) (*models.Artist, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid artist payload")
	}
	artist := &models.Artist{
		Name:              req.Name,
		Genre:             req.Genre,
		Country:           req.Country,
		Biography:         req.Biography,
		PhotoAttachmentID: req.PhotoAttachmentID,
		Active:            true,
	}
	if err := s.repo.Create(ctx, artist); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create artist")
	}
	return artist, nil
}

// Update replaces the artist's fields.
func (s *ArtistService) Update(ctx context.Context, id string, req UpdateArtistRequest) (*models.Artist, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid artist payload")
	}
	artist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "artist not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load artist")
	}
	replaced := replacedAttachment(artist.PhotoAttachmentID, req.PhotoAttachmentID)
	artist.Name = req.Name
	artist.Genre = req.Genre
	artist.Country = req.Country
	artist.Biography = req.Biography
	artist.PhotoAttachmentID = req.PhotoAttachmentID
	if err := s.repo.Update(ctx, artist); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update artist")
	}
	if replaced != nil && s.releaser != nil {
		if rerr := s.releaser.Release(ctx, *replaced); rerr != nil {
			s.logger.Warn("failed to schedule attachment release", zap.String("attachment_id", *replaced), zap.Error(rerr))
		}
	}
	return artist, nil
}

// Deactivate soft-deletes an artist.
func (s *ArtistService) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Restore flips a soft-deleted artist back to active.
func (s *ArtistService) Restore(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *ArtistService) setActive(ctx context.Context, id string, active bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "artist not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load artist")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change artist status")
	}
	return nil
}
